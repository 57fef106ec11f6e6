// Package extract turns uploaded files into raw text for the pipeline.
// The rest of the core never inspects file bytes; it receives one string.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedInput is returned for file types lector cannot read.
	ErrUnsupportedInput = errors.New("unsupported document type")
	// ErrEmptyDocument is returned when extraction yields no text.
	ErrEmptyDocument = errors.New("document contains no text")
)

// Text extracts the raw text of a document file. Plain text and markdown
// are read directly; PDFs go through content-stream extraction.
func Text(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading document: %w", err)
		}
		return fromBytes(data)
	case ".pdf":
		return pdfText(path)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedInput, filepath.Ext(path))
	}
}

// FromBytes extracts raw text from an uploaded payload with a declared
// filename, for callers that never touch the filesystem.
func FromBytes(name string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md", "":
		return fromBytes(data)
	case ".pdf":
		tmp, err := os.CreateTemp("", "lector-*.pdf")
		if err != nil {
			return "", fmt.Errorf("staging pdf upload: %w", err)
		}
		defer os.Remove(tmp.Name())
		if _, err := tmp.Write(data); err != nil {
			tmp.Close()
			return "", fmt.Errorf("staging pdf upload: %w", err)
		}
		tmp.Close()
		return pdfText(tmp.Name())
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedInput, filepath.Ext(name))
	}
}

func fromBytes(data []byte) (string, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}
