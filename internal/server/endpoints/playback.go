package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lectorapp/lector/internal/api"
	"github.com/lectorapp/lector/internal/events"
	"github.com/lectorapp/lector/internal/playback"
	"github.com/lectorapp/lector/internal/svcctx"
)

// playbackError maps controller errors to HTTP status codes.
func playbackError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, playback.ErrNoDocument):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, playback.ErrOutOfRange),
		errors.Is(err, playback.ErrInvalidDelta),
		errors.Is(err, playback.ErrInvalidRate):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// LoadPlaybackEndpoint handles POST /api/playback/load/{id}.
// It resets the controller onto a stored document.
type LoadPlaybackEndpoint struct {
	Hub *events.Hub
}

func (e *LoadPlaybackEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/playback/load/{id}", e.handler
}

func (e *LoadPlaybackEndpoint) RequiresInit() bool { return true }

func (e *LoadPlaybackEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	store := svcctx.DocumentsFrom(ctx)
	ctrl := svcctx.ControllerFrom(ctx)

	doc, err := store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	ctrl.Load(doc.Sentences)
	if e.Hub != nil {
		e.Hub.ReportReady(doc.Report)
	}
	writeJSON(w, http.StatusOK, ctrl.State())
}

func (e *LoadPlaybackEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "load <document-id>",
		Short: "Load a document into the playback controller",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp playback.State
			if err := client.Post(cmd.Context(), "/api/playback/load/"+args[0], nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// StartPlaybackEndpoint handles POST /api/playback/start.
type StartPlaybackEndpoint struct{}

func (e *StartPlaybackEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/playback/start", e.handler
}

func (e *StartPlaybackEndpoint) RequiresInit() bool { return true }

func (e *StartPlaybackEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctrl := svcctx.ControllerFrom(r.Context())
	if err := ctrl.Start(); err != nil {
		playbackError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ctrl.State())
}

func (e *StartPlaybackEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start or resume reading",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp playback.State
			if err := client.Post(cmd.Context(), "/api/playback/start", nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// PausePlaybackEndpoint handles POST /api/playback/pause.
type PausePlaybackEndpoint struct{}

func (e *PausePlaybackEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/playback/pause", e.handler
}

func (e *PausePlaybackEndpoint) RequiresInit() bool { return true }

func (e *PausePlaybackEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctrl := svcctx.ControllerFrom(r.Context())
	ctrl.Pause()
	writeJSON(w, http.StatusOK, ctrl.State())
}

func (e *PausePlaybackEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Pause reading",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp playback.State
			if err := client.Post(cmd.Context(), "/api/playback/pause", nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// ResetPlaybackEndpoint handles POST /api/playback/reset.
type ResetPlaybackEndpoint struct{}

func (e *ResetPlaybackEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/playback/reset", e.handler
}

func (e *ResetPlaybackEndpoint) RequiresInit() bool { return true }

func (e *ResetPlaybackEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctrl := svcctx.ControllerFrom(r.Context())
	ctrl.Reset()
	writeJSON(w, http.StatusOK, ctrl.State())
}

func (e *ResetPlaybackEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear the loaded document and stop reading",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp playback.State
			if err := client.Post(cmd.Context(), "/api/playback/reset", nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// SeekRequest is the body for seek operations.
type SeekRequest struct {
	Delta int `json:"delta"`
}

// SeekPlaybackEndpoint handles POST /api/playback/seek.
type SeekPlaybackEndpoint struct{}

func (e *SeekPlaybackEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/playback/seek", e.handler
}

func (e *SeekPlaybackEndpoint) RequiresInit() bool { return true }

func (e *SeekPlaybackEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req SeekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	ctrl := svcctx.ControllerFrom(r.Context())
	if err := ctrl.Seek(req.Delta); err != nil {
		playbackError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ctrl.State())
}

func (e *SeekPlaybackEndpoint) Command(getServerURL func() string) *cobra.Command {
	var back bool
	cmd := &cobra.Command{
		Use:   "seek",
		Short: "Move one sentence forward (or --back)",
		RunE: func(cmd *cobra.Command, args []string) error {
			delta := 1
			if back {
				delta = -1
			}
			client := api.NewClient(getServerURL())
			var resp playback.State
			if err := client.Post(cmd.Context(), "/api/playback/seek", SeekRequest{Delta: delta}, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().BoolVar(&back, "back", false, "Seek backward instead of forward")
	return cmd
}

// RateRequest is the body for rate changes.
type RateRequest struct {
	Rate float64 `json:"rate"`
}

// SetRateEndpoint handles PUT /api/playback/rate.
type SetRateEndpoint struct{}

func (e *SetRateEndpoint) Route() (string, string, http.HandlerFunc) {
	return "PUT", "/api/playback/rate", e.handler
}

func (e *SetRateEndpoint) RequiresInit() bool { return true }

func (e *SetRateEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req RateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	ctrl := svcctx.ControllerFrom(r.Context())
	if err := ctrl.SetRate(req.Rate); err != nil {
		playbackError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ctrl.State())
}

func (e *SetRateEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "rate <rate>",
		Short: "Set the speech rate (1.0 = normal)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rate, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid rate %q: %w", args[0], err)
			}
			req := RateRequest{Rate: rate}
			client := api.NewClient(getServerURL())
			var resp playback.State
			if err := client.Put(cmd.Context(), "/api/playback/rate", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// PlaybackStatusEndpoint handles GET /api/playback/status.
type PlaybackStatusEndpoint struct{}

func (e *PlaybackStatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/playback/status", e.handler
}

func (e *PlaybackStatusEndpoint) RequiresInit() bool { return true }

func (e *PlaybackStatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctrl := svcctx.ControllerFrom(r.Context())
	writeJSON(w, http.StatusOK, ctrl.State())
}

func (e *PlaybackStatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show current playback state",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp playback.State
			if err := client.Get(cmd.Context(), "/api/playback/status", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
