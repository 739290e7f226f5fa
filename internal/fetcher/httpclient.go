package fetcher

import (
	"context"
	"log/slog"
	"time"

	"resty.dev/v3"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "marketfetch/1.0"
)

// NewHTTPClient creates a new HTTP client for JSON market-data endpoints.
// A zero timeout or empty user agent falls back to the defaults.
func NewHTTPClient(timeout time.Duration, userAgent string) *resty.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent)
}

// HTTPTransport is the resty-backed Transport.
type HTTPTransport struct {
	client *resty.Client
}

// NewHTTPTransport wraps client as a Transport.
func NewHTTPTransport(client *resty.Client) *HTTPTransport {
	return &HTTPTransport{client: client}
}

// Get issues a GET request and returns the body of a 2xx response.
// Every failure is logged with its classification and reported as no response.
func (t *HTTPTransport) Get(ctx context.Context, url string) ([]byte, bool) {
	resp, err := t.client.R().
		SetContext(ctx).
		Get(url)

	if err != nil {
		fe := ClassifyTransportError(err)
		slog.Debug("transport request failed",
			"url", url,
			"type", fe.Type,
			"error", fe)
		return nil, false
	}

	if !resp.IsSuccess() {
		fe := ClassifyHTTPError(resp.StatusCode())
		slog.Debug("transport request rejected",
			"url", url,
			"type", fe.Type,
			"status_code", fe.StatusCode)
		return nil, false
	}

	return resp.Bytes(), true
}
