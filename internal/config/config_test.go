package config

import (
	"testing"
	"time"

	"taskdeck-cli/internal/store"

	"github.com/spf13/pflag"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TASKDECK_CONFIG_DIR", t.TempDir())

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.BaseURL() != "http://localhost:8080/api/project-0" {
		t.Fatalf("unexpected base url: %q", cfg.Backend.BaseURL())
	}
	if cfg.Backend.Timeout != 0 || cfg.Refresh.MaxAge != 0 {
		t.Fatalf("expected zero durations; got %#v", cfg)
	}
	if cfg.Log.Level != "info" || cfg.TUI.Glyphs != "unicode" {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
}

func TestLoad_FileThenEnvThenFlags(t *testing.T) {
	t.Setenv("TASKDECK_CONFIG_DIR", t.TempDir())

	if err := store.SetConfigValue("backend.url", "http://from-file:1"); err != nil {
		t.Fatalf("SetConfigValue: %v", err)
	}
	if err := store.SetConfigValue("refresh.maxAge", "45s"); err != nil {
		t.Fatalf("SetConfigValue: %v", err)
	}
	if err := store.SetConfigValue("log.level", "warn"); err != nil {
		t.Fatalf("SetConfigValue: %v", err)
	}

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.URL != "http://from-file:1" || cfg.Refresh.MaxAge != 45*time.Second {
		t.Fatalf("expected file values; got %#v", cfg)
	}

	t.Setenv("TASKDECK_BACKEND_URL", "http://from-env:2")
	cfg, err = Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.URL != "http://from-env:2" {
		t.Fatalf("expected env override; got %q", cfg.Backend.URL)
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("backend", "", "")
	fs.String("log-level", "", "")
	if err := fs.Parse([]string{"--backend", "http://from-flag:3"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg, err = Load(fs)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.URL != "http://from-flag:3" {
		t.Fatalf("expected flag override; got %q", cfg.Backend.URL)
	}
	// An unchanged flag does not shadow the file value.
	if cfg.Log.Level != "warn" {
		t.Fatalf("expected file log level; got %q", cfg.Log.Level)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("TASKDECK_CONFIG_DIR", t.TempDir())
	t.Setenv("TASKDECK_BACKEND_TIMEOUT", "soon")

	if _, err := Load(nil); err == nil {
		t.Fatalf("expected error for invalid timeout")
	}
}

func TestBaseURL_Joins(t *testing.T) {
	t.Parallel()

	cases := []struct {
		b    BackendConfig
		want string
	}{
		{BackendConfig{URL: "http://h/", BasePath: "/api/project-0/"}, "http://h/api/project-0"},
		{BackendConfig{URL: "http://h", BasePath: ""}, "http://h"},
	}
	for _, c := range cases {
		if got := c.b.BaseURL(); got != c.want {
			t.Fatalf("BaseURL(%#v)=%q want %q", c.b, got, c.want)
		}
	}
}
