package main

import (
	"github.com/spf13/cobra"

	"github.com/lectorapp/lector/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running Lector server via HTTP.

These commands require a running server (lector serve).
Use --server to specify a custom server URL.

Examples:
  lector api health                 # Check server health
  lector api documents upload f.md  # Upload and analyze a document
  lector api playback start         # Start reading aloud`,
}

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Document management commands",
}

var playbackCmd = &cobra.Command{
	Use:   "playback",
	Short: "Playback control commands",
}

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "Speech voice commands",
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Accessibility settings commands",
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	// Health endpoints at top level of api
	apiCmd.AddCommand((&endpoints.HealthEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.StatusEndpoint{}).Command(getServerURL))

	// Documents as subcommand group
	documentsCmd.AddCommand((&endpoints.UploadDocumentEndpoint{}).Command(getServerURL))
	documentsCmd.AddCommand((&endpoints.ListDocumentsEndpoint{}).Command(getServerURL))
	documentsCmd.AddCommand((&endpoints.GetDocumentEndpoint{}).Command(getServerURL))
	documentsCmd.AddCommand((&endpoints.GetReportEndpoint{}).Command(getServerURL))

	// Playback as subcommand group
	playbackCmd.AddCommand((&endpoints.LoadPlaybackEndpoint{}).Command(getServerURL))
	playbackCmd.AddCommand((&endpoints.StartPlaybackEndpoint{}).Command(getServerURL))
	playbackCmd.AddCommand((&endpoints.PausePlaybackEndpoint{}).Command(getServerURL))
	playbackCmd.AddCommand((&endpoints.ResetPlaybackEndpoint{}).Command(getServerURL))
	playbackCmd.AddCommand((&endpoints.SeekPlaybackEndpoint{}).Command(getServerURL))
	playbackCmd.AddCommand((&endpoints.SetRateEndpoint{}).Command(getServerURL))
	playbackCmd.AddCommand((&endpoints.PlaybackStatusEndpoint{}).Command(getServerURL))
	playbackCmd.AddCommand((&endpoints.EventsEndpoint{}).Command(getServerURL))

	// Voices as subcommand group
	voicesCmd.AddCommand((&endpoints.ListVoicesEndpoint{}).Command(getServerURL))

	// Settings as subcommand group
	settingsCmd.AddCommand((&endpoints.GetSettingsEndpoint{}).Command(getServerURL))
	settingsCmd.AddCommand((&endpoints.UpdateSettingsEndpoint{}).Command(getServerURL))

	apiCmd.AddCommand(documentsCmd)
	apiCmd.AddCommand(playbackCmd)
	apiCmd.AddCommand(voicesCmd)
	apiCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(apiCmd)
}
