package fetcher

import (
	"context"

	"marketfetch/internal/document"
)

// Task is one unit of work for a batch run.
type Task interface {
	// Fetch retrieves the payload as a generic document.
	Fetch(ctx context.Context) (document.Document, bool)

	// Key returns a hierarchical key for this task.
	// Format: fetcher:{provider}:{resource}:{symbol}[:{refinement}]
	// Examples:
	//   - fetcher:yahoo:options:AAPL
	//   - fetcher:yahoo:options:AAPL:2024-01-19
	//   - fetcher:yahoo:chart:MSFT:range=5d:interval=1d
	Key() string
}

// Keyed is implemented by requests that know their task key.
type Keyed interface {
	Key() string
}

type requestTask[Q Keyed] struct {
	f   *Fetcher
	req Q
}

// NewTask binds req to f as a Task.
func NewTask[Q Keyed](f *Fetcher, req Q) Task {
	return &requestTask[Q]{f: f, req: req}
}

func (t *requestTask[Q]) Fetch(ctx context.Context) (document.Document, bool) {
	return FetchDocument(ctx, t.f, t.req)
}

func (t *requestTask[Q]) Key() string {
	return t.req.Key()
}
