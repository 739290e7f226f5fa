package fetcher

import "context"

// Transport performs the network half of a fetch.
//
// Get returns the response body, or false on any transport-level failure.
// Implementations must be safe for concurrent use.
//
//go:generate mockgen -package=fetcher_test -destination=mock_transport_test.go -source=transport.go Transport
type Transport interface {
	Get(ctx context.Context, url string) ([]byte, bool)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, url string) ([]byte, bool)

// Get calls f(ctx, url).
func (f TransportFunc) Get(ctx context.Context, url string) ([]byte, bool) {
	return f(ctx, url)
}
