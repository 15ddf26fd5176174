// Package sanitizer cleans untrusted text and HTML with bluemonday policies.
package sanitizer

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	emailPolicy  *bluemonday.Policy
	initOnce     sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()

		emailPolicy = bluemonday.NewPolicy()
		emailPolicy.AllowStandardURLs()
		emailPolicy.AllowElements(
			"p", "br", "hr",
			"h1", "h2", "h3",
			"strong", "b", "em", "i", "del",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
		)
		emailPolicy.AllowAttrs("href").OnElements("a")
		emailPolicy.AllowURLSchemes("mailto", "http", "https")
		emailPolicy.RequireNoFollowOnLinks(true)
	})
}

// EmailHTML keeps basic formatting and links, dropping everything else.
// Used as the content filter for outgoing email bodies.
func EmailHTML(s string) string {
	initPolicies()
	return emailPolicy.Sanitize(s)
}

// PlainText strips all markup and collapses whitespace.
// Entities are decoded, so the result is meant for contexts that escape on
// output, such as templ components or JSON.
func PlainText(s string) string {
	initPolicies()
	return strings.Join(strings.Fields(html.UnescapeString(strictPolicy.Sanitize(s))), " ")
}

// Truncate shortens s to at most n runes, appending an ellipsis when cut.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}
