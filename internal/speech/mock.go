package speech

import (
	"context"
	"sync"

	"github.com/lectorapp/lector/internal/voices"
)

// MockEngine is a scripted speech engine for tests and the `--engine mock`
// serve mode. Utterances never complete on their own; tests pump events
// with Complete and Fail, which lets them exercise cancellation races
// deliberately (including delivering events for stale indices).
type MockEngine struct {
	mu       sync.Mutex
	handler  Handler
	requests []Request
	cancels  int
	voices   []voices.Candidate
}

// NewMockEngine creates a mock engine with a fixed candidate list.
func NewMockEngine(candidates []voices.Candidate) *MockEngine {
	return &MockEngine{voices: candidates}
}

func (m *MockEngine) SetHandler(h Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = h
}

func (m *MockEngine) Speak(req Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	return nil
}

func (m *MockEngine) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancels++
}

func (m *MockEngine) ListVoices(context.Context) ([]voices.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.voices, nil
}

// Complete delivers a done event for the given index, as the real engine
// would from its own goroutine.
func (m *MockEngine) Complete(index int) {
	m.mu.Lock()
	h := m.handler
	m.mu.Unlock()
	if h != nil {
		h(Event{Index: index, Kind: EventDone})
	}
}

// Fail delivers an error event for the given index.
func (m *MockEngine) Fail(index int, err error) {
	m.mu.Lock()
	h := m.handler
	m.mu.Unlock()
	if h != nil {
		h(Event{Index: index, Kind: EventError, Err: err})
	}
}

// Requests returns a copy of all speak requests seen so far.
func (m *MockEngine) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastRequest returns the most recent speak request, if any.
func (m *MockEngine) LastRequest() (Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return Request{}, false
	}
	return m.requests[len(m.requests)-1], true
}

// Cancels returns how many times Cancel was called.
func (m *MockEngine) Cancels() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancels
}

var _ Engine = (*MockEngine)(nil)
