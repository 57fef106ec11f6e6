package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the lector home directory.
	DefaultDirName = ".lector"

	// AudioDirName is the subdirectory for synthesized utterance audio.
	AudioDirName = "audio"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"

	// SettingsFileName holds the user's accessibility settings record.
	SettingsFileName = "settings.json"
)

// Dir represents the lector home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.lector).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// AudioPath returns the path to the synthesized audio directory.
func (d *Dir) AudioPath() string {
	return filepath.Join(d.path, AudioDirName)
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// SettingsPath returns the path to the settings record.
func (d *Dir) SettingsPath() string {
	return filepath.Join(d.path, SettingsFileName)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	if err := os.MkdirAll(d.AudioPath(), 0o755); err != nil {
		return fmt.Errorf("failed to create audio directory: %w", err)
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}
