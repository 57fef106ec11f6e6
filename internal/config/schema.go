package config

// Config holds lector configuration.
// Stored at: ./config.yaml or ~/.lector/config.yaml
type Config struct {
	Server   ServerCfg   `mapstructure:"server" yaml:"server"`
	Engine   EngineCfg   `mapstructure:"engine" yaml:"engine"`
	Playback PlaybackCfg `mapstructure:"playback" yaml:"playback"`
}

// ServerCfg configures the HTTP server.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"` // Bind address (default: 127.0.0.1)
	Port string `mapstructure:"port" yaml:"port"` // Listen port (default: 8080)
}

// EngineCfg configures the speech engine.
type EngineCfg struct {
	Type           string `mapstructure:"type" yaml:"type"`                       // "openai" or "mock"
	Model          string `mapstructure:"model" yaml:"model"`                     // Speech model (default: tts-1-hd)
	Voice          string `mapstructure:"voice" yaml:"voice"`                     // Fallback voice (default: onyx)
	APIKey         string `mapstructure:"api_key" yaml:"api_key"`                 // API key (supports ${ENV_VAR} syntax)
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"` // HTTP timeout
}

// PlaybackCfg configures the playback controller.
type PlaybackCfg struct {
	// SettleDelayMS is the pause between cancelling one utterance and
	// issuing the next, in milliseconds.
	SettleDelayMS int `mapstructure:"settle_delay_ms" yaml:"settle_delay_ms"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8080",
		},
		Engine: EngineCfg{
			Type:           "openai",
			Model:          "tts-1-hd",
			Voice:          "onyx",
			APIKey:         "${OPENAI_API_KEY}",
			TimeoutSeconds: 120,
		},
		Playback: PlaybackCfg{
			SettleDelayMS: 150,
		},
	}
}
