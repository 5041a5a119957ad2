package store

import (
	"errors"
	"time"
)

const (
	// DefaultCachePath is the file the document is persisted to.
	DefaultCachePath = "mtx.cache.config"
	// DefaultBaseDir is scanned for fragments when no base is configured.
	DefaultBaseDir = "."
	// DefaultFlushDelay is the quiet period before a scheduled write.
	DefaultFlushDelay = 100 * time.Millisecond
)

// ErrNegativeFlushDelay is returned when FlushDelay is below zero.
var ErrNegativeFlushDelay = errors.New("flush delay must not be negative")

// Config holds the settings of a Store.
type Config struct {
	BaseDir    string        `json:"base_dir"    yaml:"base_dir"`
	CachePath  string        `json:"cache"       yaml:"cache"`
	Debug      bool          `json:"debug"       yaml:"debug"`
	FlushDelay time.Duration `json:"flush_delay" yaml:"flush_delay"`
}

// SetDefaults fills in empty fields.
func (c *Config) SetDefaults() bool {
	changed := false

	if c.BaseDir == "" {
		c.BaseDir = DefaultBaseDir
		changed = true
	}

	if c.CachePath == "" {
		c.CachePath = DefaultCachePath
		changed = true
	}

	if c.FlushDelay == 0 {
		c.FlushDelay = DefaultFlushDelay
		changed = true
	}

	return changed
}

// Validate validates the Config.
func (c *Config) Validate() error {
	if c.FlushDelay < 0 {
		return ErrNegativeFlushDelay
	}

	return nil
}

// Option adjusts a Config.
type Option func(*Config)

// WithBaseDir sets the directory scanned for fragments.
func WithBaseDir(dir string) Option {
	return func(cfg *Config) {
		cfg.BaseDir = dir
	}
}

// WithCachePath sets the file the document is persisted to.
func WithCachePath(fpath string) Option {
	return func(cfg *Config) {
		cfg.CachePath = fpath
	}
}

// WithDebug toggles diagnostic logging. It never changes behavior.
func WithDebug(debug bool) Option {
	return func(cfg *Config) {
		cfg.Debug = debug
	}
}

// WithFlushDelay sets the quiet period before a scheduled write.
func WithFlushDelay(delay time.Duration) Option {
	return func(cfg *Config) {
		cfg.FlushDelay = delay
	}
}
