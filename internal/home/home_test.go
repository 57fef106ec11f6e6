package home

import (
	"path/filepath"
	"testing"
)

func TestNew_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	h, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	if h.Path() != dir {
		t.Fatalf("expected %s, got %s", dir, h.Path())
	}
	if h.SettingsPath() != filepath.Join(dir, SettingsFileName) {
		t.Fatalf("unexpected settings path: %s", h.SettingsPath())
	}
}

func TestEnsureExists(t *testing.T) {
	h, err := New(filepath.Join(t.TempDir(), "nested"))
	if err != nil {
		t.Fatal(err)
	}
	if h.Exists() {
		t.Fatal("home should not exist yet")
	}
	if err := h.EnsureExists(); err != nil {
		t.Fatal(err)
	}
	if !h.Exists() {
		t.Fatal("home should exist after EnsureExists")
	}
}

func TestNew_DefaultPath(t *testing.T) {
	h, err := New("")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(h.Path()) != DefaultDirName {
		t.Fatalf("default path should end in %s: %s", DefaultDirName, h.Path())
	}
}
