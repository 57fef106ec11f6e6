package speech

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/lectorapp/lector/internal/voices"
)

const (
	openAIDefaultModel = openai.SpeechModelTTS1HD
	openAIDefaultVoice = "onyx"

	// OpenAI accepts playback speed in the 0.25-4.0 range.
	openAIMinSpeed = 0.25
	openAIMaxSpeed = 4.0
)

// openAIVoiceNames is the built-in OpenAI TTS voice list. The API has no
// voice discovery endpoint, so the candidate list is static.
var openAIVoiceNames = []string{
	"alloy", "ash", "ballad", "coral", "echo", "fable", "nova",
	"onyx", "sage", "shimmer", "verse", "marin", "cedar",
}

// OpenAIConfig holds configuration for the OpenAI-backed speech engine.
type OpenAIConfig struct {
	APIKey     string
	Model      string        // "tts-1-hd" (default), "tts-1", "gpt-4o-mini-tts"
	Voice      string        // fallback voice when the selector yields none
	AudioDir   string        // where synthesized utterances are written
	Timeout    time.Duration // HTTP timeout
	BaseURL    string        // Optional (tests)
	HTTPClient *http.Client  // Optional (tests)
	Logger     *slog.Logger
}

// OpenAIEngine synthesizes utterances through the OpenAI speech API and
// writes the resulting audio next to the document for the rendering
// collaborator to play. Completion is reported once the audio is on disk.
// Pitch and volume from the port contract have no OpenAI equivalent and
// are ignored.
type OpenAIEngine struct {
	client   openai.Client
	model    string
	voice    string
	audioDir string
	logger   *slog.Logger

	mu      sync.Mutex
	handler Handler
	cancel  context.CancelFunc
	seq     int
}

// NewOpenAIEngine creates an OpenAI speech engine.
func NewOpenAIEngine(cfg OpenAIConfig) *OpenAIEngine {
	if cfg.Model == "" {
		cfg.Model = openAIDefaultModel
	}
	if cfg.Voice == "" {
		cfg.Voice = openAIDefaultVoice
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIEngine{
		client:   openai.NewClient(opts...),
		model:    cfg.Model,
		voice:    cfg.Voice,
		audioDir: cfg.AudioDir,
		logger:   cfg.Logger.With("engine", "openai"),
	}
}

func (e *OpenAIEngine) SetHandler(h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handler = h
}

// Speak starts synthesis in an engine-owned goroutine. A previous in-flight
// utterance, if any, is cancelled first so the engine owns one sentence at
// a time.
func (e *OpenAIEngine) Speak(req Request) error {
	if strings.TrimSpace(req.Text) == "" {
		return fmt.Errorf("speech request for index %d has no text", req.Index)
	}

	ctx, cancel := context.WithCancel(context.Background())

	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	e.cancel = cancel
	e.seq++
	seq := e.seq
	e.mu.Unlock()

	go e.synthesize(ctx, seq, req)
	return nil
}

// Cancel aborts the in-flight utterance. Idempotent; the late goroutine
// notices its cancelled context and emits nothing.
func (e *OpenAIEngine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

func (e *OpenAIEngine) synthesize(ctx context.Context, seq int, req Request) {
	params := openai.AudioSpeechNewParams{
		Input:          req.Text,
		Model:          openai.SpeechModel(e.model),
		Voice:          openai.AudioSpeechNewParamsVoice(e.resolveVoice(req.Voice)),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
		Speed:          openai.Float(clampSpeed(req.Rate)),
	}

	resp, err := e.client.Audio.Speech.New(ctx, params)
	if err != nil {
		e.emit(ctx, seq, Event{Index: req.Index, Kind: EventError,
			Err: fmt.Errorf("openai speech synthesis: %w", err)})
		return
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		e.emit(ctx, seq, Event{Index: req.Index, Kind: EventError,
			Err: fmt.Errorf("reading openai audio response: %w", err)})
		return
	}

	if e.audioDir != "" {
		path := filepath.Join(e.audioDir, fmt.Sprintf("sentence_%04d.mp3", req.Index))
		if err := os.WriteFile(path, audio, 0o644); err != nil {
			e.emit(ctx, seq, Event{Index: req.Index, Kind: EventError,
				Err: fmt.Errorf("writing utterance audio: %w", err)})
			return
		}
	}

	e.logger.Debug("utterance synthesized", "index", req.Index, "bytes", len(audio))
	e.emit(ctx, seq, Event{Index: req.Index, Kind: EventDone})
}

// emit delivers an event unless the request was cancelled or superseded.
func (e *OpenAIEngine) emit(ctx context.Context, seq int, ev Event) {
	if ctx.Err() != nil {
		return
	}
	e.mu.Lock()
	h := e.handler
	stale := seq != e.seq
	e.mu.Unlock()
	if stale || h == nil {
		return
	}
	h(ev)
}

// resolveVoice maps a selector pick back onto an OpenAI voice name,
// falling back to the configured default for unknown names.
func (e *OpenAIEngine) resolveVoice(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, v := range openAIVoiceNames {
		if v == name {
			return v
		}
	}
	return e.voice
}

// ListVoices returns the static OpenAI voice list as candidates. All
// voices are cloud English voices.
func (e *OpenAIEngine) ListVoices(context.Context) ([]voices.Candidate, error) {
	out := make([]voices.Candidate, 0, len(openAIVoiceNames))
	for _, name := range openAIVoiceNames {
		out = append(out, voices.Candidate{Name: name, Lang: "en-US", Local: false})
	}
	return out, nil
}

// HealthCheck verifies the API is reachable and the key is valid, retrying
// transient failures with backoff.
func (e *OpenAIEngine) HealthCheck(ctx context.Context) error {
	return retry.Do(
		func() error {
			page, err := e.client.Models.List(ctx)
			if err != nil {
				return fmt.Errorf("openai models list failed: %w", err)
			}
			if page == nil {
				return fmt.Errorf("openai models list returned nil response")
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.DelayType(retry.BackOffDelay),
	)
}

func clampSpeed(rate float64) float64 {
	if rate <= 0 {
		return 1.0
	}
	if rate < openAIMinSpeed {
		return openAIMinSpeed
	}
	if rate > openAIMaxSpeed {
		return openAIMaxSpeed
	}
	return rate
}

var _ Engine = (*OpenAIEngine)(nil)
