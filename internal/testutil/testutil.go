package testutil

import (
	"context"
	"sync"

	"marketfetch/internal/document"
	"marketfetch/internal/fetcher"
)

// MockTransport is a mock implementation of the Transport interface that
// records every requested URL
type MockTransport struct {
	GetFunc func(ctx context.Context, url string) ([]byte, bool)

	mu   sync.Mutex
	urls []string
}

// Get implements the Transport interface
func (m *MockTransport) Get(ctx context.Context, url string) ([]byte, bool) {
	m.mu.Lock()
	m.urls = append(m.urls, url)
	m.mu.Unlock()

	if m.GetFunc != nil {
		return m.GetFunc(ctx, url)
	}
	return nil, false
}

// URLs returns the requested URLs in call order
func (m *MockTransport) URLs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.urls...)
}

// LastURL returns the most recently requested URL, or "" if none
func (m *MockTransport) LastURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.urls) == 0 {
		return ""
	}
	return m.urls[len(m.urls)-1]
}

// NewMockTransport creates a transport that always answers with body.
// Pass ok=false to simulate a transport failure.
func NewMockTransport(body string, ok bool) *MockTransport {
	return &MockTransport{
		GetFunc: func(ctx context.Context, url string) ([]byte, bool) {
			if !ok {
				return nil, false
			}
			return []byte(body), true
		},
	}
}

// MockTask is a mock implementation of the Task interface for testing
type MockTask struct {
	FetchFunc func(ctx context.Context) (document.Document, bool)
	KeyFunc   func() string
}

// Fetch implements the Task interface
func (m *MockTask) Fetch(ctx context.Context) (document.Document, bool) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx)
	}
	return document.Document{}, false
}

// Key implements the Task interface
func (m *MockTask) Key() string {
	if m.KeyFunc != nil {
		return m.KeyFunc()
	}
	return "mock:key"
}

// NewMockTask creates a simple mock task with a predefined payload.
// An empty payload makes the task report no data.
func NewMockTask(key, payload string) fetcher.Task {
	return &MockTask{
		FetchFunc: func(ctx context.Context) (document.Document, bool) {
			if payload == "" {
				return document.Document{}, false
			}
			doc := document.ParseString(payload)
			return doc, doc.Valid()
		},
		KeyFunc: func() string {
			return key
		},
	}
}
