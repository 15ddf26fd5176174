package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/contactrelay/pkg/cookie"
	"github.com/dmitrymomot/contactrelay/pkg/htmx"
)

// DefaultMaxBodyBytes bounds request bodies read by BindJSON and Form.
const DefaultMaxBodyBytes = 64 << 10

// ErrBodyTooLarge is returned when a request body exceeds the limit.
var ErrBodyTooLarge = errors.New("request body too large")

// ErrMalformedJSON is returned by BindJSON for bodies that are not valid JSON
// for the target type.
var ErrMalformedJSON = errors.New("malformed JSON body")

// Component is a renderable template. templ.Component satisfies it.
type Component interface {
	Render(ctx context.Context, w io.Writer) error
}

// Context gives handlers access to the request and response.
// It implements context.Context by delegating to the request context.
type Context interface {
	context.Context

	// Request returns the underlying *http.Request.
	Request() *http.Request

	// Response returns the wrapped http.ResponseWriter.
	Response() http.ResponseWriter

	// Context returns the request's context.Context.
	Context() context.Context

	// Query returns a URL query value.
	Query(name string) string

	// Form returns a form value. The body is parsed on first access.
	Form(name string) string

	// Header returns a request header.
	Header(name string) string

	// SetHeader sets a response header.
	SetHeader(name, value string)

	// JSON writes v as JSON.
	JSON(code int, v any) error

	// String writes a plain text body.
	String(code int, s string) error

	// NoContent writes only the status.
	NoContent(code int) error

	// Redirect sends a redirect. HTMX requests get HX-Redirect.
	Redirect(code int, url string) error

	// Error builds an HTTPError to be returned from the handler.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError

	// IsHTMX reports whether the request was issued by htmx.
	IsHTMX() bool

	// Render writes component with code. For HTMX requests the options
	// set response headers and out-of-band components are appended.
	Render(code int, component Component, opts ...htmx.RenderOption) error

	// RenderPartial renders partial for HTMX requests and fullPage otherwise.
	// Boosted requests get the full page.
	RenderPartial(code int, fullPage, partial Component, opts ...htmx.RenderOption) error

	// BindJSON decodes the JSON body into v.
	// Returns ErrMalformedJSON or ErrBodyTooLarge on bad input.
	BindJSON(v any) error

	// Written reports whether a response was already started.
	Written() bool

	// Logger returns the application logger.
	Logger() *slog.Logger

	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)

	// Set stores a value in the request context.
	Set(key any, value any)

	// Get reads a value from the request context.
	Get(key any) any

	// Flash reads and clears a flash value.
	// Returns cookie.ErrNoSecret without a cookie secret.
	Flash(key string, dest any) error

	// SetFlash stores a flash value for the next request.
	// Returns cookie.ErrNoSecret without a cookie secret.
	SetFlash(key string, value any) error

	// CanFlash reports whether flash values can be stored.
	CanFlash() bool

	// ResponseWriter returns the wrapped writer.
	ResponseWriter() *ResponseWriter
}

type requestContext struct {
	request        *http.Request
	responseWriter *ResponseWriter
	logger         *slog.Logger
	cookies        *cookie.Manager
	maxBodyBytes   int64
}

func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	rw, ok := w.(*ResponseWriter)
	if !ok {
		rw = NewResponseWriter(w, htmx.IsHTMX(r))
	}
	return &requestContext{
		request:        r,
		responseWriter: rw,
		logger:         app.logger,
		cookies:        app.cookieManager,
		maxBodyBytes:   app.maxBodyBytes,
	}
}

func (c *requestContext) Request() *http.Request {
	return c.request
}

func (c *requestContext) Response() http.ResponseWriter {
	return c.responseWriter
}

func (c *requestContext) ResponseWriter() *ResponseWriter {
	return c.responseWriter
}

func (c *requestContext) Context() context.Context {
	return c.request.Context()
}

func (c *requestContext) Deadline() (deadline time.Time, ok bool) {
	return c.request.Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.request.Context().Done()
}

func (c *requestContext) Err() error {
	return c.request.Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) Form(name string) string {
	if c.request.Form == nil && c.request.Body != nil {
		c.request.Body = http.MaxBytesReader(c.responseWriter, c.request.Body, c.maxBodyBytes)
	}
	return c.request.FormValue(name)
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.responseWriter.Header().Set(name, value)
}

func (c *requestContext) JSON(code int, v any) error {
	c.responseWriter.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.responseWriter.WriteHeader(code)
	return json.NewEncoder(c.responseWriter).Encode(v)
}

func (c *requestContext) String(code int, s string) error {
	c.responseWriter.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.responseWriter.WriteHeader(code)
	_, err := io.WriteString(c.responseWriter, s)
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.responseWriter.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	htmx.Redirect(c.responseWriter, c.request, url, code)
	return nil
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

func (c *requestContext) IsHTMX() bool {
	return htmx.IsHTMX(c.request)
}

func (c *requestContext) Render(code int, component Component, opts ...htmx.RenderOption) error {
	var cfg *htmx.Config
	if len(opts) > 0 && c.IsHTMX() {
		cfg = htmx.NewConfig(opts...)
		if err := cfg.ApplyHeaders(c.responseWriter); err != nil {
			return err
		}
	}

	c.responseWriter.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.responseWriter.WriteHeader(code)

	if err := component.Render(c.request.Context(), c.responseWriter); err != nil {
		return err
	}
	return cfg.RenderOOB(c.request.Context(), c.responseWriter)
}

func (c *requestContext) RenderPartial(code int, fullPage, partial Component, opts ...htmx.RenderOption) error {
	if c.IsHTMX() && !htmx.IsBoosted(c.request) {
		return c.Render(code, partial, opts...)
	}
	return c.Render(code, fullPage)
}

func (c *requestContext) BindJSON(v any) error {
	if c.request.Body == nil {
		return ErrMalformedJSON
	}
	body := http.MaxBytesReader(c.responseWriter, c.request.Body, c.maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ErrBodyTooLarge
		}
		return fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data", ErrMalformedJSON)
	}
	return nil
}

func (c *requestContext) Written() bool {
	return c.responseWriter.Written()
}

func (c *requestContext) Logger() *slog.Logger {
	return c.logger
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.logger.DebugContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	c.request = c.request.WithContext(context.WithValue(c.request.Context(), key, value))
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Flash(key string, dest any) error {
	return c.cookies.Flash(c.responseWriter, c.request, key, dest)
}

func (c *requestContext) SetFlash(key string, value any) error {
	return c.cookies.SetFlash(c.responseWriter, key, value)
}

func (c *requestContext) CanFlash() bool {
	return c.cookies.CanEncrypt()
}

// wantsJSON reports whether the client prefers a JSON response.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
