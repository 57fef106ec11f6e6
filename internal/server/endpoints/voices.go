package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/lectorapp/lector/internal/api"
	"github.com/lectorapp/lector/internal/svcctx"
	"github.com/lectorapp/lector/internal/voices"
)

// VoiceResponse represents a voice candidate in API responses.
type VoiceResponse struct {
	Name     string `json:"name"`
	Lang     string `json:"lang"`
	Local    bool   `json:"local"`
	Selected bool   `json:"selected"`
}

// ListVoicesResponse contains the candidate voices and the current pick.
type ListVoicesResponse struct {
	Voices   []VoiceResponse `json:"voices"`
	Selected string          `json:"selected,omitempty"`
}

// ListVoicesEndpoint handles GET /api/voices.
type ListVoicesEndpoint struct{}

func (e *ListVoicesEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/voices", e.handler
}

func (e *ListVoicesEndpoint) RequiresInit() bool { return true }

func (e *ListVoicesEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	engine := svcctx.EngineFrom(ctx)

	candidates, err := engine.ListVoices(ctx)
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to list voices: "+err.Error())
		return
	}

	resp := ListVoicesResponse{Voices: make([]VoiceResponse, len(candidates))}
	selected, ok := voices.Select(candidates)
	if ok {
		resp.Selected = selected.Name
	}
	for i, c := range candidates {
		resp.Voices[i] = VoiceResponse{
			Name:     c.Name,
			Lang:     c.Lang,
			Local:    c.Local,
			Selected: ok && c.Name == selected.Name,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *ListVoicesEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List speech engine voices",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ListVoicesResponse
			if err := client.Get(cmd.Context(), "/api/voices", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
