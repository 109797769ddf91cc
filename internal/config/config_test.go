package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ClipboardInterval() != time.Second {
		t.Errorf("clipboard interval = %v, want 1s", cfg.ClipboardInterval())
	}
	if cfg.DeleteDelay() != 500*time.Millisecond {
		t.Errorf("delete delay = %v, want 500ms", cfg.DeleteDelay())
	}
	if cfg.CacheTTL() != 60*time.Second {
		t.Errorf("cache ttl = %v, want 60s", cfg.CacheTTL())
	}
}

func TestLoadOverridesAndFallbacks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
clipboard_interval_ms: 250
delete_delay_ms: 0
watch_roots:
  - /work/docs
alerts:
  - url: https://hooks.example.test/dlp
    format: slack
    events: ["blocked", "duplicate_removed"]
`
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ClipboardInterval() != 250*time.Millisecond {
		t.Errorf("clipboard interval = %v", cfg.ClipboardInterval())
	}
	// Zero falls back to the default.
	if cfg.DeleteDelay() != 500*time.Millisecond {
		t.Errorf("delete delay = %v, want default", cfg.DeleteDelay())
	}
	if len(cfg.WatchRoots) != 1 || cfg.WatchRoots[0] != "/work/docs" {
		t.Errorf("watch roots = %v", cfg.WatchRoots)
	}
	if len(cfg.Alerts) != 1 || cfg.Alerts[0].Format != "slack" || len(cfg.Alerts[0].Events) != 2 {
		t.Errorf("alerts = %+v", cfg.Alerts)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed config must error")
	}
}
