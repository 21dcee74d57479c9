package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shiftgate/shiftgate/internal/config"
)

func TestLoad_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
port: 9999
router_dir: /var/lib/shiftgate/routes
poll_interval: 2s
defaults:
  observation_window: 45s
  max_error_rate: 0.05
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 9999 {
		t.Fatalf("expected port 9999, got %d", cfg.Port)
	}
	if cfg.RouterDir != "/var/lib/shiftgate/routes" {
		t.Fatalf("unexpected router dir %q", cfg.RouterDir)
	}
	if cfg.PollInterval.Std() != 2*time.Second {
		t.Fatalf("expected 2s poll interval, got %v", cfg.PollInterval.Std())
	}
	if cfg.Defaults.ObservationWindow.Std() != 45*time.Second {
		t.Fatalf("expected 45s window, got %v", cfg.Defaults.ObservationWindow.Std())
	}
	if cfg.Defaults.MaxErrorRate != 0.05 {
		t.Fatalf("expected overridden error rate, got %v", cfg.Defaults.MaxErrorRate)
	}
	// Fields the file omits keep their built-in values.
	if cfg.Defaults.Timeout.Std() != 10*time.Minute {
		t.Fatalf("expected default timeout, got %v", cfg.Defaults.Timeout.Std())
	}
	if cfg.Prometheus.URL != "http://localhost:9090" {
		t.Fatalf("expected default prometheus url, got %q", cfg.Prometheus.URL)
	}
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing explicit config file")
	}
}

func TestLoad_MissingDefaultFileFallsBack(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != config.Default().Port {
		t.Fatalf("expected built-in defaults, got port %d", cfg.Port)
	}
}

func TestLoad_BadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("poll_interval: soon\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := config.Load(path); err == nil {
		t.Fatal("expected a parse error for a bad duration")
	}
}
