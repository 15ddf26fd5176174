package mailer

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sync"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ContentFilter rewrites converted HTML before it is placed into the layout.
type ContentFilter func(html string) string

// Renderer converts markdown templates with YAML frontmatter to HTML.
// Parsed templates and layouts are cached; rendered output is not.
type Renderer struct {
	fs     fs.FS
	md     goldmark.Markdown
	filter ContentFilter

	templates   map[string]*parsedTemplate
	layouts     map[string]*template.Template
	templateDir string
	layoutDir   string

	mu sync.RWMutex
}

type parsedTemplate struct {
	metadata map[string]any
	body     *texttemplate.Template
}

// RendererOption configures the Renderer.
type RendererOption func(*Renderer)

// WithTemplateDir sets the directory holding markdown templates. Default ".".
func WithTemplateDir(dir string) RendererOption {
	return func(r *Renderer) {
		if dir != "" {
			r.templateDir = dir
		}
	}
}

// WithLayoutDir sets the directory holding HTML layouts. Default "layouts".
func WithLayoutDir(dir string) RendererOption {
	return func(r *Renderer) {
		if dir != "" {
			r.layoutDir = dir
		}
	}
}

// WithContentFilter sets a filter applied to converted markdown.
func WithContentFilter(f ContentFilter) RendererOption {
	return func(r *Renderer) {
		r.filter = f
	}
}

// NewRenderer creates a renderer reading templates from filesystem.
// Line breaks in rendered values are kept and bare URLs become links.
func NewRenderer(filesystem fs.FS, opts ...RendererOption) *Renderer {
	r := &Renderer{
		fs:          filesystem,
		templateDir: ".",
		layoutDir:   "layouts",
		md: goldmark.New(
			goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		templates: make(map[string]*parsedTemplate),
		layouts:   make(map[string]*template.Template),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderResult contains the rendered HTML, plain text, and extracted metadata.
type RenderResult struct {
	Metadata map[string]any
	HTML     string
	Text     string // processed markdown before HTML conversion
}

// Has reports whether the named template exists.
func (r *Renderer) Has(name string) bool {
	if _, err := r.template(name); err != nil {
		return !errors.Is(err, ErrTemplateNotFound)
	}
	return true
}

// Render executes the named template with data and wraps it in layout.
func (r *Renderer) Render(layout, name string, data any) (*RenderResult, error) {
	tmpl, err := r.template(name)
	if err != nil {
		return nil, err
	}

	var md bytes.Buffer
	if err := tmpl.body.Execute(&md, data); err != nil {
		return nil, fmt.Errorf("%w: execute %s: %v", ErrRenderFailed, name, err)
	}

	var content bytes.Buffer
	if err := r.md.Convert(md.Bytes(), &content); err != nil {
		return nil, fmt.Errorf("%w: convert markdown: %v", ErrRenderFailed, err)
	}

	body := content.String()
	if r.filter != nil {
		body = r.filter(body)
	}

	lt, err := r.layout(layout)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	err = lt.Execute(&out, map[string]any{
		"Content":  template.HTML(body), //nolint:gosec // goldmark output, raw HTML disabled
		"Metadata": tmpl.metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: execute layout %s: %v", ErrRenderFailed, layout, err)
	}

	return &RenderResult{
		HTML:     out.String(),
		Text:     md.String(),
		Metadata: tmpl.metadata,
	}, nil
}

func (r *Renderer) template(name string) (*parsedTemplate, error) {
	r.mu.RLock()
	t, ok := r.templates[name]
	r.mu.RUnlock()
	if ok {
		return t, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.templates[name]; ok {
		return t, nil
	}

	raw, err := fs.ReadFile(r.fs, path.Join(r.templateDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, name, err)
	}

	parsed, err := ParseTemplate(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
	}

	body, err := texttemplate.New(name).Option("missingkey=zero").Parse(parsed.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrRenderFailed, name, err)
	}

	t = &parsedTemplate{metadata: parsed.Metadata, body: body}
	r.templates[name] = t
	return t, nil
}

func (r *Renderer) layout(name string) (*template.Template, error) {
	r.mu.RLock()
	lt, ok := r.layouts[name]
	r.mu.RUnlock()
	if ok {
		return lt, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if lt, ok := r.layouts[name]; ok {
		return lt, nil
	}

	raw, err := fs.ReadFile(r.fs, path.Join(r.layoutDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLayoutNotFound, name, err)
	}

	lt, err = template.New(name).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: parse layout %s: %v", ErrRenderFailed, name, err)
	}

	r.layouts[name] = lt
	return lt, nil
}
