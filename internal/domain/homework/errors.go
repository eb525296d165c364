// internal/domain/homework/errors.go
package homework

import (
	"fmt"
	"strings"
)

// TransportError means the status API could not be reached at all
// (connection refused, DNS failure, timeout).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("status API request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UpstreamUnavailableError is returned when the API answered with a non-200 status.
type UpstreamUnavailableError struct {
	StatusCode int
}

func (e *UpstreamUnavailableError) Error() string {
	return fmt.Sprintf("status API unavailable: status code %d", e.StatusCode)
}

// MalformedResponseError means the response body could not be decoded as JSON.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("status API returned malformed body: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// SchemaError names the field of the response envelope that is missing or has the wrong type.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("unexpected API response: field %q %s", e.Field, e.Reason)
}

// UnknownStatusError is returned for a status outside the verdict table.
type UnknownStatusError struct {
	Status Status
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown homework status %q", string(e.Status))
}

// ConfigurationError is fatal at startup and never retried.
type ConfigurationError struct {
	Missing []string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("required environment variables are not set: %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("invalid configuration: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// NotificationDeliveryError is reported by the notifier and never escalated to the poll loop.
type NotificationDeliveryError struct {
	Err error
}

func (e *NotificationDeliveryError) Error() string {
	return fmt.Sprintf("failed to deliver notification: %v", e.Err)
}

func (e *NotificationDeliveryError) Unwrap() error { return e.Err }
