// Package mailer sends templated email through a pluggable provider.
//
// Sending is split from rendering so providers can be swapped while the
// templates stay the same:
//
//   - Sender is implemented by providers (see pkg/mailer/resend).
//   - Renderer turns markdown templates with YAML frontmatter into HTML.
//   - Mailer renders a template and hands the Email to the Sender.
//
// # Templates
//
// A template is a markdown file with optional frontmatter. The body and the
// Subject value are text/template sources:
//
//	---
//	Subject: "{{.Subject}}"
//	---
//	**From:** {{.Name}} <{{.Email}}>
//
//	{{.Message}}
//
// The converted markdown is passed to an html/template layout as
// {{.Content}} together with the frontmatter as {{.Metadata}}.
//
// # Filtering
//
// Templates often interpolate values typed by end users. WithContentFilter
// installs a function (for example a bluemonday policy) that runs on the
// converted HTML before the layout is applied.
package mailer
