package endpoints

import (
	"bufio"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lectorapp/lector/internal/events"
)

// EventsEndpoint handles GET /api/playback/events. It streams playback
// events (highlight, progress, status, announcements) as server-sent events.
type EventsEndpoint struct {
	Hub *events.Hub
}

func (e *EventsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/playback/events", e.handler
}

func (e *EventsEndpoint) RequiresInit() bool { return true }

func (e *EventsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch, cancel := e.Hub.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case data := <-ch:
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func (e *EventsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Stream playback events",
		Long:  `Stream playback events from the server until interrupted (Ctrl+C).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := http.NewRequestWithContext(
				cmd.Context(), http.MethodGet, getServerURL()+"/api/playback/events", nil)
			if err != nil {
				return err
			}

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("server error (%d)", resp.StatusCode)
			}

			scanner := bufio.NewScanner(resp.Body)
			for scanner.Scan() {
				line := scanner.Text()
				if data, ok := strings.CutPrefix(line, "data: "); ok {
					fmt.Println(data)
				}
			}
			return scanner.Err()
		},
	}
}
