package endpoints

import (
	"github.com/lectorapp/lector/internal/api"
	"github.com/lectorapp/lector/internal/events"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	Hub *events.Hub
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&StatusEndpoint{},

		// Document endpoints
		&UploadDocumentEndpoint{Hub: cfg.Hub},
		&ListDocumentsEndpoint{},
		&GetDocumentEndpoint{},
		&GetReportEndpoint{},

		// Playback endpoints
		&LoadPlaybackEndpoint{Hub: cfg.Hub},
		&StartPlaybackEndpoint{},
		&PausePlaybackEndpoint{},
		&ResetPlaybackEndpoint{},
		&SeekPlaybackEndpoint{},
		&SetRateEndpoint{},
		&PlaybackStatusEndpoint{},
		&EventsEndpoint{Hub: cfg.Hub},

		// Voice endpoints
		&ListVoicesEndpoint{},

		// Settings endpoints
		&GetSettingsEndpoint{},
		&UpdateSettingsEndpoint{},
	}
}
