// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/lectorapp/lector/internal/config"
	"github.com/lectorapp/lector/internal/document"
	"github.com/lectorapp/lector/internal/home"
	"github.com/lectorapp/lector/internal/playback"
	"github.com/lectorapp/lector/internal/settings"
	"github.com/lectorapp/lector/internal/speech"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Documents  *document.Store
	Controller *playback.Controller
	Engine     speech.Engine
	Settings   settings.Repository
	ConfigMgr  *config.Manager
	Logger     *slog.Logger
	Home       *home.Dir
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// DocumentsFrom extracts the document store from context.
func DocumentsFrom(ctx context.Context) *document.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.Documents
	}
	return nil
}

// ControllerFrom extracts the playback controller from context.
func ControllerFrom(ctx context.Context) *playback.Controller {
	if s := ServicesFrom(ctx); s != nil {
		return s.Controller
	}
	return nil
}

// EngineFrom extracts the speech engine from context.
func EngineFrom(ctx context.Context) speech.Engine {
	if s := ServicesFrom(ctx); s != nil {
		return s.Engine
	}
	return nil
}

// SettingsFrom extracts the settings repository from context.
func SettingsFrom(ctx context.Context) settings.Repository {
	if s := ServicesFrom(ctx); s != nil {
		return s.Settings
	}
	return nil
}

// ConfigMgrFrom extracts the config manager from context.
func ConfigMgrFrom(ctx context.Context) *config.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.ConfigMgr
	}
	return nil
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}

// HomeFrom extracts the home directory from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}
