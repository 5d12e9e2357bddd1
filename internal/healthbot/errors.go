package healthbot

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

var (
	// ErrTimeout is returned when a model request exceeds the configured request timeout.
	ErrTimeout = errors.New("model request timed out")

	// ErrEmptyResponse is returned when the model answers without any text.
	ErrEmptyResponse = errors.New("model returned an empty response")
)

// ConfigurationError reports a missing or invalid setting detected at startup.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Key, e.Reason)
}

// TransportError reports a failure to reach the model API.
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

// UnexpectedResponseError reports a reply that could not be used: undecodable,
// without candidates, or without text.
type UnexpectedResponseError struct {
	Provider string
	Reason   string
	Err      error
}

func (e *UnexpectedResponseError) Error() string {
	msg := fmt.Sprintf("unexpected response from %s: %s", e.Provider, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UnexpectedResponseError) Unwrap() error {
	return e.Err
}

// APIError is a non-200 answer from a provider API.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (HTTP %d): %s", e.Provider, e.StatusCode, e.Message)
}

// IsTransient reports whether err is worth retrying: network failures,
// rate limiting and server-side errors. Context cancellation and deadline
// expiry are never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrTimeout) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= http.StatusInternalServerError
	}

	var unexpected *UnexpectedResponseError
	if errors.As(err, &unexpected) {
		return false
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
