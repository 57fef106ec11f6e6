package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lectorapp/lector/internal/config"
	"github.com/lectorapp/lector/internal/home"
	"github.com/lectorapp/lector/internal/server"
	"github.com/lectorapp/lector/internal/speech"
	"github.com/lectorapp/lector/internal/voices"
)

var (
	serveHost   string
	servePort   string
	serveEngine string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Lector server",
	Long: `Start the Lector HTTP server.

The server accepts document uploads, analyzes them for accessibility
barriers, and reads them aloud through the configured speech engine.
Playback events stream to clients over /api/playback/events (SSE).

Examples:
  lector serve                    # Start on default port 8080
  lector serve --port 3000        # Start on custom port
  lector serve --engine mock      # No speech synthesis, useful for UI work`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Set up logger
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		// Get home directory
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		// Load config with hot-reload support
		cfgMgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfgMgr.WatchConfig()

		srvCfg := server.Config{
			Host:          serveHost,
			Port:          servePort,
			Home:          h,
			ConfigManager: cfgMgr,
			Logger:        logger,
		}

		// --engine overrides the configured engine type
		switch serveEngine {
		case "":
		case "mock":
			srvCfg.Engine = speech.NewMockEngine([]voices.Candidate{
				{Name: "Alex Natural", Lang: "en-US", Local: true},
			})
		case "openai":
			// Configured default; nothing to override.
		default:
			return fmt.Errorf("unknown engine %q (openai or mock)", serveEngine)
		}

		srv, err := server.New(srvCfg)
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on")
	serveCmd.Flags().StringVar(&serveEngine, "engine", "", "Speech engine: openai or mock (default: from config)")

	rootCmd.AddCommand(serveCmd)
}
