package gemini

import (
	"errors"
	"fmt"
)

var errMalformedDataURI = errors.New("malformed data URI")

// ConfigError reports a missing or placeholder credential. It is raised
// before any network I/O happens.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "Error: " + e.Reason
}

// UpstreamError reports a non-2xx response from the Gemini API. It carries
// the status code and raw body and is never retried.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("Gemini API Error: HTTP %d: %s", e.Status, e.Body)
}

// DecodeError reports a malformed JSON response body.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// TransportError reports a network failure or timeout during a request.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
