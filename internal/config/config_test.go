package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.Port != "8080" {
		t.Fatalf("unexpected default port: %s", cfg.Server.Port)
	}
	if cfg.Engine.Type != "openai" {
		t.Fatalf("unexpected default engine: %s", cfg.Engine.Type)
	}
	if cfg.Playback.SettleDelayMS != 150 {
		t.Fatalf("unexpected settle delay: %d", cfg.Playback.SettleDelayMS)
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Setenv("LECTOR_TEST_KEY", "secret123")

	tests := []struct {
		input string
		want  string
	}{
		{"${LECTOR_TEST_KEY}", "secret123"},
		{"prefix-${LECTOR_TEST_KEY}", "prefix-secret123"},
		{"plain-value", "plain-value"},
		{"", ""},
		{"${LECTOR_UNSET_VAR}", ""},
	}
	for _, tt := range tests {
		if got := ResolveEnvVars(tt.input); got != tt.want {
			t.Fatalf("ResolveEnvVars(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	body := string(data)
	if !strings.Contains(body, "engine:") {
		t.Fatalf("default config missing engine section:\n%s", body)
	}
	if !strings.Contains(body, "${OPENAI_API_KEY}") {
		t.Fatalf("default config should reference env var:\n%s", body)
	}
}
