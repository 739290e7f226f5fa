package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Reason names the gate at which a fetch produced no data.
type Reason string

const (
	// ReasonUnbound means the provider has no strategy for the request type
	ReasonUnbound Reason = "unbound"
	// ReasonTransport means the transport returned no response
	ReasonTransport Reason = "transport"
	// ReasonMalformed means the response body did not parse as JSON
	ReasonMalformed Reason = "malformed"
	// ReasonShape means the envelope or its result array was missing or empty
	ReasonShape Reason = "shape"
	// ReasonMapping means no conversion to the requested representation succeeded
	ReasonMapping Reason = "mapping"
)

// Miss describes a fetch that yielded no data.
type Miss struct {
	Provider string
	URL      string
	Reason   Reason
}

// ErrorType represents the category of error that occurred during a transport call
type ErrorType string

const (
	// ErrorTypeNetwork indicates a network-level error (connection refused, DNS, etc.)
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeRateLimit indicates the request was rejected due to rate limiting (HTTP 429)
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeServer indicates a server error (HTTP 5xx)
	ErrorTypeServer ErrorType = "server"
	// ErrorTypeClient indicates a client error (HTTP 4xx except 429)
	ErrorTypeClient ErrorType = "client"
	// ErrorTypeTimeout indicates the request timed out
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeUnknown indicates an error of unknown type
	ErrorTypeUnknown ErrorType = "unknown"
)

// FetchError is a classified transport failure. The core never returns it;
// HTTPTransport attaches it to the record it logs for each failed request.
type FetchError struct {
	Type       ErrorType
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// ClassifyHTTPError classifies a non-2xx status code
func ClassifyHTTPError(statusCode int) *FetchError {
	fe := &FetchError{StatusCode: statusCode}
	switch {
	case statusCode == 429:
		fe.Type, fe.Message = ErrorTypeRateLimit, "rate limit exceeded"
	case statusCode >= 500:
		fe.Type, fe.Message = ErrorTypeServer, "server returned an error"
	case statusCode >= 400:
		fe.Type, fe.Message = ErrorTypeClient, fmt.Sprintf("client error: HTTP %d", statusCode)
	default:
		fe.Type, fe.Message = ErrorTypeUnknown, fmt.Sprintf("unexpected status code: %d", statusCode)
	}
	return fe
}

// ClassifyTransportError classifies an error returned before any response arrived
func ClassifyTransportError(err error) *FetchError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &FetchError{Type: ErrorTypeTimeout, Message: "request timed out", Cause: err}
	}
	return &FetchError{Type: ErrorTypeNetwork, Message: "network request failed", Cause: err}
}
