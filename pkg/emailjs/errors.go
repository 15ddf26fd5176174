package emailjs

import "errors"

var (
	// ErrInvalidBaseURL indicates the configured base URL cannot be used.
	ErrInvalidBaseURL = errors.New("emailjs: invalid base URL")

	// ErrEncodeRequest indicates the request payload could not be encoded.
	ErrEncodeRequest = errors.New("emailjs: failed to encode request")

	// ErrRequestFailed indicates the HTTP round trip failed.
	ErrRequestFailed = errors.New("emailjs: request failed")
)
