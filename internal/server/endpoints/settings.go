package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/lectorapp/lector/internal/api"
	"github.com/lectorapp/lector/internal/settings"
	"github.com/lectorapp/lector/internal/svcctx"
)

// GetSettingsEndpoint handles GET /api/settings.
type GetSettingsEndpoint struct{}

func (e *GetSettingsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/settings", e.handler
}

func (e *GetSettingsEndpoint) RequiresInit() bool { return true }

func (e *GetSettingsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	repo := svcctx.SettingsFrom(r.Context())

	rec, err := repo.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load settings: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (e *GetSettingsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp settings.Record
			if err := client.Get(cmd.Context(), "/api/settings", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// UpdateSettingsEndpoint handles PUT /api/settings.
// A speed change is applied to the playback controller immediately and the
// record is persisted before responding.
type UpdateSettingsEndpoint struct{}

func (e *UpdateSettingsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "PUT", "/api/settings", e.handler
}

func (e *UpdateSettingsEndpoint) RequiresInit() bool { return true }

func (e *UpdateSettingsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	repo := svcctx.SettingsFrom(ctx)
	ctrl := svcctx.ControllerFrom(ctx)
	logger := svcctx.LoggerFrom(ctx)

	var rec settings.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if rec.Speed <= 0 || rec.Speed > settings.MaxSpeed {
		writeError(w, http.StatusBadRequest, "speed must be in (0, 4]")
		return
	}

	if err := ctrl.SetRate(rec.Speed); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := repo.Save(rec); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save settings: "+err.Error())
		return
	}
	if logger != nil {
		logger.Info("settings updated",
			"accessibility_mode", rec.AccessibilityMode, "speed", rec.Speed)
	}

	writeJSON(w, http.StatusOK, rec)
}

func (e *UpdateSettingsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var mode bool
	var speed float64
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())

			// Start from the server's current record so unset flags keep
			// their values.
			var rec settings.Record
			if err := client.Get(cmd.Context(), "/api/settings", &rec); err != nil {
				return err
			}
			if cmd.Flags().Changed("accessibility-mode") {
				rec.AccessibilityMode = mode
			}
			if cmd.Flags().Changed("speed") {
				rec.Speed = speed
			}

			var resp settings.Record
			if err := client.Put(cmd.Context(), "/api/settings", rec, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().BoolVar(&mode, "accessibility-mode", false, "Enable accessibility mode")
	cmd.Flags().Float64Var(&speed, "speed", 1.0, "Speech speed (0 < speed <= 4)")
	return cmd
}
