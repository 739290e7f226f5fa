package coordinator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sourcegraph/conc/pool"

	"marketfetch/internal/fetcher"
	"marketfetch/internal/store"
)

const defaultMaxConcurrency = 4

var (
	keyStyle  = lipgloss.NewStyle().Bold(true)
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	missStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

// Coordinator manages concurrent tasks and aggregates results
type Coordinator struct {
	tasks          []fetcher.Task
	maxConcurrency int
	store          store.Store
	out            io.Writer
	now            func() time.Time
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithMaxConcurrency bounds the number of tasks in flight. Values below 1 are ignored.
func WithMaxConcurrency(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.maxConcurrency = n
		}
	}
}

// WithStore records every found payload in s.
func WithStore(s store.Store) Option {
	return func(c *Coordinator) {
		c.store = s
	}
}

// WithOutput redirects the per-task report lines.
func WithOutput(w io.Writer) Option {
	return func(c *Coordinator) {
		c.out = w
	}
}

// New creates a new Coordinator with the given tasks
func New(tasks []fetcher.Task, opts ...Option) *Coordinator {
	c := &Coordinator{
		tasks:          tasks,
		maxConcurrency: defaultMaxConcurrency,
		store:          &store.NopStore{},
		out:            os.Stdout,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes all tasks concurrently and prints results as they arrive
// in the format:
//   - Found:   "KEY: OK (N fields, M bytes)"
//   - Missing: "KEY: NO DATA"
//
// A task without data is not an error. Run only fails when there is
// nothing to do or the store rejects the found payloads.
func (c *Coordinator) Run(ctx context.Context) ([]fetcher.Result, error) {
	if len(c.tasks) == 0 {
		return nil, fmt.Errorf("no tasks configured")
	}

	// Create a channel for collecting results
	resultChan := make(chan fetcher.Result, len(c.tasks))

	p := pool.New().WithMaxGoroutines(c.maxConcurrency)
	for _, t := range c.tasks {
		p.Go(func() {
			payload, found := t.Fetch(ctx)
			resultChan <- fetcher.Result{
				Key:     t.Key(),
				Payload: payload,
				Found:   found,
			}
		})
	}

	// Close the result channel when all workers are done
	go func() {
		p.Wait()
		close(resultChan)
	}()

	var (
		results   []fetcher.Result
		snapshots []store.Snapshot
	)
	for result := range resultChan {
		results = append(results, result)
		c.report(result)

		if result.Found {
			snapshots = append(snapshots, store.Snapshot{
				Key:       result.Key,
				FetchedAt: c.now(),
				Payload:   result.Payload.Raw(),
			})
		}
	}

	if err := c.store.SaveSnapshots(ctx, snapshots); err != nil {
		slog.Warn("failed to store snapshots", "count", len(snapshots), "error", err)
		return results, fmt.Errorf("store snapshots: %w", err)
	}

	return results, nil
}

func (c *Coordinator) report(r fetcher.Result) {
	key := keyStyle.Render(r.Key)
	if !r.Found {
		fmt.Fprintf(c.out, "%s: %s\n", key, missStyle.Render("NO DATA"))
		return
	}
	fmt.Fprintf(c.out, "%s: %s\n", key,
		okStyle.Render(fmt.Sprintf("OK (%d fields, %d bytes)", r.Payload.Len(), len(r.Payload.Raw()))))
}
