package sources

import (
	"fmt"
)

// ConfigurationError reports an unknown source id or missing/invalid
// per-source settings. It is raised before any fetch is attempted.
type ConfigurationError struct {
	Source  string
	Message string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("source %q configuration error: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("source %q configuration error: %s", e.Source, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// NotFoundError reports a source id with no registered adapter.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("vacancy source %q was not found", e.ID)
}

// TransportError reports a failed request to the vendor endpoint: network
// failure, a non-2xx status or an error status reported by the vendor.
type TransportError struct {
	Source     string
	URL        string
	StatusCode int
	Body       string
	Cause      error
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("source %q transport error", e.Source)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// ParseError reports a vendor response that could not be decoded at the
// top level.
type ParseError struct {
	Source  string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("source %q parse error: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("source %q parse error: %s", e.Source, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
