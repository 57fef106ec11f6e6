package playback

import (
	"log/slog"

	"github.com/lectorapp/lector/internal/document"
)

// Status is the playback lifecycle state.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusPlaying  Status = "playing"
	StatusPaused   Status = "paused"
	StatusFinished Status = "finished"
)

// State is a snapshot of the controller. Index is always in [0, Total];
// Index == Total exactly when Status is finished.
type State struct {
	Index  int     `json:"index"`
	Total  int     `json:"total"`
	Status Status  `json:"status"`
	Rate   float64 `json:"rate"`
}

// Renderer receives playback updates for display. The controller calls it
// while holding its own lock, so implementations must not call back into
// the controller and should return quickly.
type Renderer interface {
	DocumentLoaded(sentences []document.Sentence)
	ReportReady(report document.Report)
	Highlight(index int)
	Progress(index, total int)
	PlaybackStatus(status Status)
}

// Announcer receives plain-text strings for assistive announcement.
// Delivery is fire-and-forget.
type Announcer interface {
	Announce(text string)
}

// NopRenderer discards all updates.
type NopRenderer struct{}

func (NopRenderer) DocumentLoaded([]document.Sentence) {}
func (NopRenderer) ReportReady(document.Report)        {}
func (NopRenderer) Highlight(int)                      {}
func (NopRenderer) Progress(int, int)                  {}
func (NopRenderer) PlaybackStatus(Status)              {}

// LogAnnouncer writes announcements to the logger.
type LogAnnouncer struct {
	Logger *slog.Logger
}

func (a LogAnnouncer) Announce(text string) {
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("announcement", "text", text)
}
