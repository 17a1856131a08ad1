package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnsupportedFormat is returned for any upload that is not a PDF or DOCX file.
	ErrUnsupportedFormat = errors.New("unsupported file type: upload a PDF or DOCX file")

	// ErrMissingInput is returned when a required user input (resume, job description,
	// text to rephrase) is empty. No API call is made.
	ErrMissingInput = errors.New("missing input")

	// ErrTransport marks a network failure talking to the generative-language API.
	ErrTransport = errors.New("transport error")

	// ErrAuth marks a missing or rejected API credential.
	ErrAuth = errors.New("invalid or missing api key")

	// ErrRemote marks a non-success status or an unparseable success body.
	ErrRemote = errors.New("remote error")
)

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}
