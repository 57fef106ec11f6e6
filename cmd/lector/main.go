package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// main wires OS signals into the command context so a Ctrl+C during
// `lector serve` pauses playback and shuts the server down cleanly.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Cobra has already printed the error.
		os.Exit(1)
	}
}
