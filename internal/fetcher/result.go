package fetcher

import "marketfetch/internal/document"

// Result represents the outcome of a task.
// It's designed to be sent through channels from worker goroutines
// to a coordinator that prints and stores the results.
type Result struct {
	// Key is the hierarchical key of the task that produced this result
	Key string

	// Payload is the extracted document. It is only meaningful when Found is true.
	Payload document.Document

	// Found reports whether every gate of the fetch passed
	Found bool
}
