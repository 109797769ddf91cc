// Package config loads docsentry configuration from YAML. A missing file
// is not an error — defaults apply, and any field left unset in the file
// falls back to its default.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/docsentry/docsentry/internal/alert"
)

// Config is the full docsentry configuration.
type Config struct {
	// ClipboardIntervalMs is the clipboard guard poll period.
	ClipboardIntervalMs int `yaml:"clipboard_interval_ms"`
	// DeleteDelayMs is the duplicate-interdiction deletion delay.
	DeleteDelayMs int `yaml:"delete_delay_ms"`
	// CacheTTLSeconds is the classification read-cache lifetime.
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
	// RescanIntervalSeconds is the monitor daemon's open-set rescan period.
	RescanIntervalSeconds int `yaml:"rescan_interval_seconds"`

	// WatchRoots are the directories the duplication guard watches.
	WatchRoots []string `yaml:"watch_roots"`

	// BackupTempDir and BackupUserDir override the keyed backup locations.
	BackupTempDir string `yaml:"backup_temp_dir"`
	BackupUserDir string `yaml:"backup_user_dir"`
	// NoSidecar disables the adjacent sidecar backup copy.
	NoSidecar bool `yaml:"no_sidecar"`

	// AuditLog is the path of the hash-chained DLP event log.
	AuditLog string `yaml:"audit_log"`

	// Alerts are webhook destinations for interdiction events.
	Alerts []alert.Config `yaml:"alerts"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ClipboardIntervalMs:   1000,
		DeleteDelayMs:         500,
		CacheTTLSeconds:       60,
		RescanIntervalSeconds: 30,
		AuditLog:              filepath.Join(baseDir(), "dlp.jsonl"),
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(baseDir(), "config.yaml")
}

// Load reads the config at path, or the default location when path is
// empty. A nonexistent file yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}

	// Unset or nonsense values fall back to defaults.
	def := Default()
	if cfg.ClipboardIntervalMs <= 0 {
		cfg.ClipboardIntervalMs = def.ClipboardIntervalMs
	}
	if cfg.DeleteDelayMs <= 0 {
		cfg.DeleteDelayMs = def.DeleteDelayMs
	}
	if cfg.CacheTTLSeconds <= 0 {
		cfg.CacheTTLSeconds = def.CacheTTLSeconds
	}
	if cfg.RescanIntervalSeconds <= 0 {
		cfg.RescanIntervalSeconds = def.RescanIntervalSeconds
	}
	if cfg.AuditLog == "" {
		cfg.AuditLog = def.AuditLog
	}
	return cfg, nil
}

// ClipboardInterval returns the poll period as a duration.
func (c Config) ClipboardInterval() time.Duration {
	return time.Duration(c.ClipboardIntervalMs) * time.Millisecond
}

// DeleteDelay returns the deletion delay as a duration.
func (c Config) DeleteDelay() time.Duration {
	return time.Duration(c.DeleteDelayMs) * time.Millisecond
}

// CacheTTL returns the read-cache lifetime as a duration.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// RescanInterval returns the monitor rescan period as a duration.
func (c Config) RescanInterval() time.Duration {
	return time.Duration(c.RescanIntervalSeconds) * time.Second
}

func baseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "docsentry")
	}
	return filepath.Join(home, ".docsentry")
}
