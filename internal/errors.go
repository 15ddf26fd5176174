package internal

import (
	"errors"
	"net/http"
)

// HTTPError is an error carrying everything needed to render a response.
type HTTPError struct {
	// Err is the underlying cause, for logs only.
	Err error

	// Message is shown to the user.
	Message string

	// Title is optional; StatusText is used when empty.
	Title string

	// ErrorCode is a machine-readable code for API clients.
	ErrorCode string

	// Details holds per-field messages, e.g. validation errors.
	Details map[string]string

	Code int
}

func (e *HTTPError) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// StatusText returns Title or the standard text for Code.
func (e *HTTPError) StatusText() string {
	if e.Title != "" {
		return e.Title
	}
	return http.StatusText(e.Code)
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// NewHTTPError creates an HTTPError.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	e := &HTTPError{Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithTitle sets the error title.
func WithTitle(title string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Title = title
	}
}

// WithErrorCode sets the machine-readable code.
func WithErrorCode(code string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.ErrorCode = code
	}
}

// WithDetails sets per-field messages.
func WithDetails(details map[string]string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Details = details
	}
}

// WithError sets the underlying cause.
func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Err = err
	}
}

// ErrBadRequest returns a 400 error.
func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, opts...)
}

// ErrNotFound returns a 404 error.
func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, opts...)
}

// ErrMethodNotAllowed returns a 405 error.
func ErrMethodNotAllowed(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusMethodNotAllowed, message, opts...)
}

// ErrRequestTooLarge returns a 413 error.
func ErrRequestTooLarge(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusRequestEntityTooLarge, message, opts...)
}

// ErrUnprocessable returns a 422 error.
func ErrUnprocessable(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnprocessableEntity, message, opts...)
}

// ErrInternal returns a 500 error.
func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message, opts...)
}

// AsHTTPError returns the HTTPError in err's chain, or nil.
func AsHTTPError(err error) *HTTPError {
	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}
	return nil
}
