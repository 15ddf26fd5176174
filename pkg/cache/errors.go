package cache

import "errors"

var (
	// ErrNotFound is returned for missing or expired keys.
	ErrNotFound = errors.New("cache: entry not found")

	// ErrClosed is returned by writes after Close.
	ErrClosed = errors.New("cache: closed")

	// ErrMarshal wraps value encoding failures.
	ErrMarshal = errors.New("cache: failed to marshal value")

	// ErrUnmarshal wraps value decoding failures.
	ErrUnmarshal = errors.New("cache: failed to unmarshal value")
)
