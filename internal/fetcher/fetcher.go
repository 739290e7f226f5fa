// Package fetcher resolves typed market-data requests against a provider.
//
// A Provider is a static table from request type to strategy: a URL builder
// and an extractor for the provider's response envelope. Fetch walks a
// request through that strategy, the Transport, the document parser and an
// optional result mapper. Every expected failure collapses to a false
// second return value; nothing in the pipeline returns an error.
package fetcher

import (
	"context"
	"log/slog"

	"marketfetch/internal/document"
)

// typeKey identifies T as a comparable map key without reflection.
type typeKey[T any] struct{}

// Extractor pulls the payload out of a provider response.
type Extractor func(document.Document) (document.Document, bool)

type binding struct {
	// buildURL holds a func(Q) string for the request type the binding is keyed on
	buildURL any
	extract  Extractor
}

// Provider holds the strategies and result mappers of one market-data source.
// Bind and RegisterMapper must be called before the provider is shared;
// afterwards it is read-only and safe for concurrent use.
type Provider struct {
	name     string
	bindings map[any]binding
	mappers  map[mapperKey]any
}

// NewProvider creates an empty provider.
func NewProvider(name string) *Provider {
	return &Provider{
		name:     name,
		bindings: make(map[any]binding),
		mappers:  make(map[mapperKey]any),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return p.name
}

// Bind registers the strategy used for requests of type Q.
// A later Bind for the same Q replaces the earlier one.
func Bind[Q any](p *Provider, buildURL func(Q) string, extract Extractor) {
	p.bindings[typeKey[Q]{}] = binding{buildURL: buildURL, extract: extract}
}

// Bound reports whether p has a strategy for requests of type Q.
func Bound[Q any](p *Provider) bool {
	_, ok := p.bindings[typeKey[Q]{}]
	return ok
}

// BuildURL returns the URL p would request for req.
func BuildURL[Q any](p *Provider, req Q) (string, bool) {
	b, ok := p.bindings[typeKey[Q]{}]
	if !ok {
		return "", false
	}
	return b.buildURL.(func(Q) string)(req), true
}

// Observer receives every miss. It is called synchronously from Fetch and
// must be safe for concurrent use when the Fetcher is shared.
type Observer func(Miss)

// LogObserver records misses at debug level.
func LogObserver(m Miss) {
	slog.Debug("fetch yielded no data",
		"provider", m.Provider,
		"url", m.URL,
		"reason", string(m.Reason))
}

// Fetcher pairs a Provider with a Transport.
type Fetcher struct {
	provider  *Provider
	transport Transport
	observer  Observer
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithObserver replaces the default LogObserver. A nil observer disables
// miss reporting.
func WithObserver(o Observer) Option {
	return func(f *Fetcher) {
		f.observer = o
	}
}

// New creates a Fetcher for provider p over transport t.
func New(p *Provider, t Transport, opts ...Option) *Fetcher {
	f := &Fetcher{
		provider:  p,
		transport: t,
		observer:  LogObserver,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Fetcher) miss(url string, reason Reason) {
	if f.observer == nil {
		return
	}
	f.observer(Miss{Provider: f.provider.name, URL: url, Reason: reason})
}

// Fetch resolves req against f's provider and returns the payload as R.
//
// R is the caller's result representation: document.Document returns the
// payload unchanged, any other type needs a mapper registered for (Q, R).
// The strategy is chosen by the static type Q, so a request type the
// provider never bound returns false without touching the transport.
func Fetch[R, Q any](ctx context.Context, f *Fetcher, req Q) (R, bool) {
	var zero R

	b, ok := f.provider.bindings[typeKey[Q]{}]
	if !ok {
		f.miss("", ReasonUnbound)
		return zero, false
	}

	url := b.buildURL.(func(Q) string)(req)

	body, ok := f.transport.Get(ctx, url)
	if !ok {
		f.miss(url, ReasonTransport)
		return zero, false
	}

	doc := document.Parse(body)
	if !doc.Valid() {
		f.miss(url, ReasonMalformed)
		return zero, false
	}

	payload, ok := b.extract(doc)
	if !ok {
		f.miss(url, ReasonShape)
		return zero, false
	}

	v, ok := mapPayload[R, Q](f.provider, payload)
	if !ok {
		f.miss(url, ReasonMapping)
		return zero, false
	}
	return v, true
}

// FetchDocument is Fetch with the generic document representation.
func FetchDocument[Q any](ctx context.Context, f *Fetcher, req Q) (document.Document, bool) {
	return Fetch[document.Document](ctx, f, req)
}
