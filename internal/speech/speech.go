// Package speech defines the asynchronous speech-engine port the playback
// controller drives, plus the engine implementations that satisfy it.
package speech

import (
	"context"

	"github.com/lectorapp/lector/internal/voices"
)

// Request asks the engine to speak one sentence. Index tags the request so
// completion and error events can be matched against the sentence they
// belong to; late events for a stale index are discarded by the caller.
type Request struct {
	Index  int
	Text   string
	Voice  string
	Rate   float64
	Pitch  float64
	Volume float64
}

// Kind distinguishes engine event types.
type Kind string

const (
	// EventDone reports that the utterance for Index finished.
	EventDone Kind = "done"
	// EventError reports that synthesis for Index failed mid-utterance.
	EventError Kind = "error"
)

// Event is an asynchronous message from the engine, tagged with the index
// of the request it applies to.
type Event struct {
	Index int
	Kind  Kind
	Err   error
}

// Handler receives engine events. It may be called from an engine-owned
// goroutine; implementations must be safe for that.
type Handler func(Event)

// Engine is the external speech synthesis port. Only one utterance is owned
// by the engine at a time; Cancel is fire-and-forget and idempotent — the
// caller treats cancellation as immediate and ignores any late events.
type Engine interface {
	// SetHandler registers the event sink. Must be called before Speak.
	SetHandler(Handler)

	// Speak starts synthesis of one sentence and returns without waiting.
	// Completion or failure is reported through the handler.
	Speak(req Request) error

	// Cancel aborts any in-flight utterance. Safe to call at any time.
	Cancel()

	// ListVoices returns the engine's current voice candidates.
	ListVoices(ctx context.Context) ([]voices.Candidate, error)
}
