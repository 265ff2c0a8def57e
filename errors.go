package verdict

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMissingAPIKey indicates no API key was provided to the client.
var ErrMissingAPIKey = errors.New("missing API key")

// ConfigurationError indicates the client or logger is missing or carries
// invalid configuration. It is reported when an operation is attempted
// against an unconfigured logger or with out-of-range settings.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Reason
}

// ParameterConflictError indicates a single call mixed the legacy detection
// flags with the current detections parameters.
type ParameterConflictError struct {
	Legacy  []string
	Current []string
}

func (e *ParameterConflictError) Error() string {
	return fmt.Sprintf("legacy detection parameters (%s) cannot be combined with (%s); use only the current form",
		strings.Join(e.Legacy, ", "), strings.Join(e.Current, ", "))
}

// ValidationError reports a payload field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TimeoutError indicates polling did not reach a terminal status before the
// deadline.
type TimeoutError struct {
	LogID  string
	Waited time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("no terminal detection status for log %s after %s", e.LogID, e.Waited)
}

// TransportError wraps a request that never produced an HTTP response.
// These are always retryable.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx response from the service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api returned status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api returned status %d", e.Status)
}

// Transient reports whether the request may succeed if repeated.
func (e *APIError) Transient() bool {
	return e.Status >= 500
}

// isTransient reports whether err is worth retrying: a transport failure or
// a server-side (5xx) API error.
func isTransient(err error) bool {
	var te *TransportError
	if errors.As(err, &te) {
		return true
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Transient()
	}
	return false
}
