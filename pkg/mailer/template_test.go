package mailer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contactrelay/pkg/mailer"
)

func TestParseTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		meta    map[string]any
		body    string
	}{
		{
			name:    "frontmatter",
			content: "---\nSubject: Hi\nTag: contact\n---\n# Body\n",
			meta:    map[string]any{"Subject": "Hi", "Tag": "contact"},
			body:    "# Body\n",
		},
		{
			name:    "no frontmatter",
			content: "# Body\n\ntext",
			meta:    map[string]any{},
			body:    "# Body\n\ntext",
		},
		{
			name:    "empty frontmatter",
			content: "---\n---\nBody",
			meta:    map[string]any{},
			body:    "Body",
		},
		{
			name:    "crlf",
			content: "---\r\nSubject: Hi\r\n---\r\nBody",
			meta:    map[string]any{"Subject": "Hi"},
			body:    "Body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpl, err := mailer.ParseTemplate([]byte(tt.content))
			require.NoError(t, err)
			require.Equal(t, tt.meta, tmpl.Metadata)
			require.Equal(t, tt.body, tmpl.Body)
		})
	}
}

func TestParseTemplate_Invalid(t *testing.T) {
	t.Parallel()

	for _, content := range []string{
		"---",
		"---\nSubject: Hi\n",
		"---\nSubject: [unclosed\n---\nBody",
	} {
		_, err := mailer.ParseTemplate([]byte(content))
		require.ErrorIs(t, err, mailer.ErrInvalidFrontmatter, content)
	}
}
