package provider

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation reports malformed input that was never sent anywhere.
	ErrValidation = errors.New("validation failed")

	// ErrNoProvider reports a capability kind with no registered provider.
	ErrNoProvider = errors.New("no provider configured")

	// ErrNotFound reports a well-formed request with no matching result.
	// Never retried via fallback: a second provider is not assumed to know
	// the same entity.
	ErrNotFound = errors.New("not found")

	// ErrCapability reports a 2xx response whose payload itself encodes a
	// provider failure (e.g. an {"error": ...} field).
	ErrCapability = errors.New("provider reported failure")

	// ErrNotJSON reports a 2xx response body that failed to parse as JSON.
	ErrNotJSON = errors.New("response is not valid json")
)

// HTTPError is a non-2xx provider response.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http status %d: %s", e.Status, e.Body)
}

// TransportError is a network-level failure (DNS, timeout, connection reset).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "transport: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// Retryable reports whether err is eligible for the single fallback-provider
// hop: http, transport and capability errors are; validation and not-found
// are not.
func Retryable(err error) bool {
	var he *HTTPError
	var te *TransportError
	return errors.As(err, &he) || errors.As(err, &te) ||
		errors.Is(err, ErrCapability) || errors.Is(err, ErrNotJSON)
}
