// Package playback drives the speech engine sentence by sentence and keeps
// the highlight cursor, user navigation, and asynchronous engine events in
// lockstep.
package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lectorapp/lector/internal/document"
	"github.com/lectorapp/lector/internal/speech"
	"github.com/lectorapp/lector/internal/voices"
)

// DefaultSettleDelay is the pause between cancelling one speech request and
// issuing the next, to avoid engine-side race conditions.
const DefaultSettleDelay = 150 * time.Millisecond

var (
	// ErrNoDocument is returned by Start when no sentences are loaded.
	ErrNoDocument = errors.New("no document loaded")
	// ErrOutOfRange is returned by Seek when the move would leave [0, len-1].
	ErrOutOfRange = errors.New("seek out of range")
	// ErrInvalidRate is returned by SetRate for non-positive rates.
	ErrInvalidRate = errors.New("rate must be positive")
	// ErrInvalidDelta is returned by Seek for steps other than +1/-1.
	ErrInvalidDelta = errors.New("seek delta must be +1 or -1")
)

// Config configures a Controller.
type Config struct {
	Engine      speech.Engine
	Renderer    Renderer
	Announcer   Announcer
	Logger      *slog.Logger
	SettleDelay time.Duration
	Rate        float64
}

// Controller is the playback state machine. All state is guarded by one
// mutex; the asynchronous entry points are exactly the engine event handler
// and the settle-delay timer. Any operation that changes the effective
// speech target cancels the in-flight request first and bumps the
// generation counter so a superseded timer never issues stale speech.
type Controller struct {
	engine    speech.Engine
	renderer  Renderer
	announcer Announcer
	logger    *slog.Logger
	settle    time.Duration

	mu        sync.Mutex
	sentences []document.Sentence
	index     int
	status    Status
	rate      float64
	gen       int
	timer     *time.Timer
}

// New creates a controller and registers it as the engine's event handler.
func New(cfg Config) *Controller {
	if cfg.Renderer == nil {
		cfg.Renderer = NopRenderer{}
	}
	if cfg.Announcer == nil {
		cfg.Announcer = LogAnnouncer{Logger: cfg.Logger}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 1.0
	}

	c := &Controller{
		engine:    cfg.Engine,
		renderer:  cfg.Renderer,
		announcer: cfg.Announcer,
		logger:    cfg.Logger.With("component", "playback"),
		settle:    cfg.SettleDelay,
		status:    StatusIdle,
		rate:      cfg.Rate,
	}
	c.engine.SetHandler(c.onEngineEvent)
	return c
}

// Load replaces the sentence stream with a new document and resets playback
// to Idle at index 0. Any in-flight speech is cancelled.
func (c *Controller) Load(sentences []document.Sentence) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelInFlight()
	c.sentences = make([]document.Sentence, len(sentences))
	copy(c.sentences, sentences)
	c.index = 0
	c.status = StatusIdle

	c.renderer.DocumentLoaded(c.sentences)
	c.renderer.PlaybackStatus(c.status)
}

// Reset clears the current document entirely.
func (c *Controller) Reset() {
	c.Load(nil)
}

// Start begins or resumes playback. From Finished or a fresh Idle the index
// rewinds to 0; from Paused it resumes at the current index. With no
// document loaded it signals "no document" and stays Idle.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.sentences) == 0 {
		c.announcer.Announce("No document loaded")
		return ErrNoDocument
	}
	if c.status == StatusPlaying {
		return nil
	}
	if c.status == StatusIdle || c.status == StatusFinished {
		c.index = 0
	}
	c.status = StatusPlaying
	c.renderer.PlaybackStatus(c.status)
	c.speakCurrent()
	return nil
}

// Pause halts playback, cancelling any in-flight speech synchronously
// before returning. No-op unless Playing.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != StatusPlaying {
		return
	}
	c.cancelInFlight()
	c.status = StatusPaused
	c.renderer.PlaybackStatus(c.status)
}

// Seek moves the cursor one sentence forward or backward. While Playing the
// in-flight utterance is cancelled and speech for the new index is issued
// after the settle delay; otherwise only the cursor moves. Seeking back
// from Finished lands on the last sentence, Paused.
func (c *Controller) Seek(delta int) error {
	if delta != 1 && delta != -1 {
		return ErrInvalidDelta
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.index + delta
	if next < 0 || next > len(c.sentences)-1 {
		return fmt.Errorf("%w: index %d of %d", ErrOutOfRange, next, len(c.sentences))
	}
	c.index = next

	switch c.status {
	case StatusPlaying:
		c.cancelInFlight()
		c.scheduleSpeak()
	case StatusFinished:
		c.status = StatusPaused
		c.renderer.PlaybackStatus(c.status)
		fallthrough
	default:
		c.renderer.Highlight(c.index)
		c.renderer.Progress(c.index, len(c.sentences))
	}
	return nil
}

// SetRate changes the speech rate. While Playing the current sentence is
// re-issued at the new rate after the settle delay; otherwise the rate is
// stored for the next Start.
func (c *Controller) SetRate(rate float64) error {
	if rate <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidRate, rate)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.rate = rate
	if c.status == StatusPlaying {
		c.cancelInFlight()
		c.scheduleSpeak()
	}
	return nil
}

// State returns a snapshot of the playback state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Index:  c.index,
		Total:  len(c.sentences),
		Status: c.status,
		Rate:   c.rate,
	}
}

// onEngineEvent is the single entry point for asynchronous engine messages.
// Events whose index does not match the current sentence are stale leftovers
// of a cancelled request and are discarded, not acted upon.
func (c *Controller) onEngineEvent(ev speech.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != StatusPlaying || ev.Index != c.index {
		c.logger.Debug("discarding stale engine event",
			"event_index", ev.Index, "current_index", c.index, "status", c.status)
		return
	}

	switch ev.Kind {
	case speech.EventDone:
		c.index++
		c.renderer.Progress(c.index, len(c.sentences))
		if c.index == len(c.sentences) {
			c.status = StatusFinished
			c.renderer.PlaybackStatus(c.status)
			c.announcer.Announce("Finished reading document")
			return
		}
		c.scheduleSpeak()
	case speech.EventError:
		c.cancelInFlight()
		c.status = StatusPaused
		c.renderer.PlaybackStatus(c.status)
		c.announcer.Announce("Speech playback error, paused")
		c.logger.Error("speech engine error", "index", ev.Index, "error", ev.Err)
	}
}

// cancelInFlight requests engine cancellation and invalidates any pending
// settle timer. Cancellation is treated as immediate; any late engine event
// for the superseded request fails the index check in onEngineEvent.
// Callers must hold the lock.
func (c *Controller) cancelInFlight() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.engine.Cancel()
}

// scheduleSpeak issues speech for the current index after the settle delay.
// The captured generation guards against the timer firing for a target that
// has since changed. Callers must hold the lock.
func (c *Controller) scheduleSpeak() {
	gen := c.gen
	c.timer = time.AfterFunc(c.settle, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.gen || c.status != StatusPlaying {
			return
		}
		c.speakCurrent()
	})
}

// speakCurrent emits the highlight for the current index and hands the
// sentence to the engine. The highlight always precedes the speech request.
// Callers must hold the lock.
func (c *Controller) speakCurrent() {
	s := c.sentences[c.index]

	c.renderer.Highlight(c.index)
	c.renderer.Progress(c.index, len(c.sentences))

	voiceName := ""
	candidates, err := c.engine.ListVoices(context.Background())
	if err != nil || len(candidates) == 0 {
		// Not fatal: the engine speaks with its default voice.
		c.logger.Info("no voice candidates, using engine default", "error", err)
	} else if v, ok := voices.Select(candidates); ok {
		voiceName = v.Name
	}

	req := speech.Request{
		Index:  c.index,
		Text:   s.Text,
		Voice:  voiceName,
		Rate:   c.rate,
		Pitch:  1.0,
		Volume: 1.0,
	}
	if err := c.engine.Speak(req); err != nil {
		c.status = StatusPaused
		c.renderer.PlaybackStatus(c.status)
		c.logger.Error("failed to issue speech request", "index", c.index, "error", err)
	}
}
