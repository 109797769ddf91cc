package docsentry

import (
	"github.com/docsentry/docsentry/internal/clipguard"
	"github.com/docsentry/docsentry/internal/config"
	"github.com/docsentry/docsentry/internal/store"
)

// Option configures a Core at creation time.
type Option func(*coreConfig)

type coreConfig struct {
	cfg       config.Config
	backend   store.Backend
	clipboard clipguard.Clipboard
	noAudit   bool
	loadErr   error
}

// WithConfig applies a loaded configuration (intervals, watch roots,
// backup locations, audit log path, alert webhooks).
func WithConfig(cfg config.Config) Option {
	return func(c *coreConfig) { c.cfg = cfg }
}

// WithConfigFile loads configuration from a YAML file (empty selects
// ~/.docsentry/config.yaml). A missing file selects the defaults; a
// malformed one is reported when New runs.
func WithConfigFile(path string) Option {
	return func(c *coreConfig) {
		cfg, err := config.Load(path)
		if err != nil {
			c.loadErr = err
			return
		}
		c.cfg = cfg
	}
}

// WithBackend substitutes the attribute persistence backend. The default
// stores records as filesystem extended attributes.
func WithBackend(b store.Backend) Option {
	return func(c *coreConfig) { c.backend = b }
}

// WithClipboard substitutes the system clipboard capability.
func WithClipboard(clip clipguard.Clipboard) Option {
	return func(c *coreConfig) { c.clipboard = clip }
}

// WithWatchRoots sets the directories the duplication guard watches,
// overriding the configured ones.
func WithWatchRoots(roots ...string) Option {
	return func(c *coreConfig) { c.cfg.WatchRoots = roots }
}

// WithoutAudit disables the DLP event log.
func WithoutAudit() Option {
	return func(c *coreConfig) { c.noAudit = true }
}
