// Package events fans playback events out to SSE subscribers. The Hub is the
// server-side rendering collaborator: the playback controller calls it under
// its own lock, so publishing never blocks and never calls back into playback.
package events

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/lectorapp/lector/internal/document"
	"github.com/lectorapp/lector/internal/playback"
)

// subscriberBuffer is the per-subscriber channel depth. A subscriber that
// falls this far behind starts dropping events rather than stalling playback.
const subscriberBuffer = 64

// Event is a single playback event as sent over the wire.
type Event struct {
	Type      string `json:"type"`
	Index     *int   `json:"index,omitempty"`
	Total     *int   `json:"total,omitempty"`
	Status    string `json:"status,omitempty"`
	Message   string `json:"message,omitempty"`
	Sentences int    `json:"sentences,omitempty"`
	Score     *int   `json:"score,omitempty"`
	Risk      string `json:"risk,omitempty"`
}

// Hub broadcasts playback events to any number of SSE subscribers.
type Hub struct {
	logger *slog.Logger

	mu   sync.Mutex
	subs map[chan []byte]struct{}
}

// NewHub creates an event hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger: logger.With("component", "events"),
		subs:   make(map[chan []byte]struct{}),
	}
}

// Subscribe registers a new subscriber. The returned cancel function must be
// called when the subscriber goes away.
func (h *Hub) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
	return ch, cancel
}

// SubscriberCount returns the number of active subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// publish marshals the event and delivers it to every subscriber without
// blocking. Slow subscribers drop events.
func (h *Hub) publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("failed to marshal event", "type", ev.Type, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- data:
		default:
			h.logger.Debug("dropping event for slow subscriber", "type", ev.Type)
		}
	}
}

// DocumentLoaded implements playback.Renderer.
func (h *Hub) DocumentLoaded(sentences []document.Sentence) {
	h.publish(Event{Type: "documentLoaded", Sentences: len(sentences)})
}

// ReportReady implements playback.Renderer.
func (h *Hub) ReportReady(report document.Report) {
	score := report.Score
	h.publish(Event{
		Type:  "reportReady",
		Score: &score,
		Risk:  string(report.Risk),
	})
}

// Highlight implements playback.Renderer.
func (h *Hub) Highlight(index int) {
	h.publish(Event{Type: "highlight", Index: &index})
}

// Progress implements playback.Renderer.
func (h *Hub) Progress(index, total int) {
	h.publish(Event{Type: "progress", Index: &index, Total: &total})
}

// PlaybackStatus implements playback.Renderer.
func (h *Hub) PlaybackStatus(status playback.Status) {
	h.publish(Event{Type: "status", Status: string(status)})
}

// Announce implements playback.Announcer. Announcements reach subscribers as
// events and the log as a record of what was spoken to the user.
func (h *Hub) Announce(message string) {
	h.logger.Info("announcement", "message", message)
	h.publish(Event{Type: "announcement", Message: message})
}
