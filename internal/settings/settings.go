// Package settings persists the user's accessibility preferences. The
// record is loaded once at startup and saved on every user-initiated mode
// or speed change.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// MaxSpeed is the highest accepted speech speed multiplier.
const MaxSpeed = 4.0

// Record is the durable settings document.
type Record struct {
	AccessibilityMode bool    `json:"accessibility_mode"`
	Speed             float64 `json:"speed"`
}

// Default returns the settings used before the user has saved anything.
func Default() Record {
	return Record{AccessibilityMode: false, Speed: 1.0}
}

// Repository loads and saves the settings record.
type Repository interface {
	Load() (Record, error)
	Save(Record) error
}

// recordSchema validates settings files on load, so a hand-edited or
// corrupted file is rejected instead of silently producing zero values.
const recordSchema = `{
	"type": "object",
	"required": ["accessibility_mode", "speed"],
	"properties": {
		"accessibility_mode": {"type": "boolean"},
		"speed": {"type": "number", "exclusiveMinimum": 0, "maximum": 4}
	},
	"additionalProperties": false
}`

var compiledSchema = jsonschema.MustCompileString("settings.json", recordSchema)

// FileRepository stores the record as JSON at a fixed path.
type FileRepository struct {
	path string
}

// NewFileRepository creates a repository backed by the given file path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Load reads and validates the settings file. A missing file yields the
// defaults rather than an error.
func (r *FileRepository) Load() (Record, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Record{}, fmt.Errorf("reading settings: %w", err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Record{}, fmt.Errorf("parsing settings: %w", err)
	}
	if err := compiledSchema.Validate(raw); err != nil {
		return Record{}, fmt.Errorf("invalid settings file: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("decoding settings: %w", err)
	}
	return rec, nil
}

// Save writes the record atomically: to a temp file first, then rename.
func (r *FileRepository) Save(rec Record) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replacing settings: %w", err)
	}
	return nil
}

var _ Repository = (*FileRepository)(nil)
