// Package listener serves the configuration API over HTTP as an Fx module.
package listener

import (
	"errors"
	"time"

	"github.com/0xalexb/mtx-config/listener/middleware"
)

const (
	// DefaultAddress is the default address for the HTTP listener.
	DefaultAddress = ":8080"
	// DefaultReadHeaderTimeout bounds how long a client may take to send headers.
	DefaultReadHeaderTimeout = 10 * time.Second
)

var (
	// ErrEmptyAddress is returned when the address is empty.
	ErrEmptyAddress = errors.New("address must not be empty")
	// ErrListenFailed is returned when the server fails to listen on the configured address.
	ErrListenFailed = errors.New("failed to listen")
	// ErrShutdownFailed is returned when the server fails to shut down gracefully.
	ErrShutdownFailed = errors.New("shutdown failed")
	// ErrEmptyName is returned when the listener name is empty.
	ErrEmptyName = errors.New("listener name must not be empty")
	// ErrNilHandler is returned when a nil http.Handler is provided.
	ErrNilHandler = errors.New("handler must not be nil")
	// ErrNegativeTimeout is returned when ReadHeaderTimeout is negative.
	ErrNegativeTimeout = errors.New("read header timeout must not be negative")
)

// Config holds the configuration for an HTTP listener.
type Config struct {
	Address           string        `json:"address"             yaml:"address"`
	ReadHeaderTimeout time.Duration `json:"read_header_timeout" yaml:"read_header_timeout"`
	MaxBodyBytes      int64         `json:"max_body_bytes"      yaml:"max_body_bytes"`
}

// SetDefaults fills in empty fields and reports whether anything changed.
func (c *Config) SetDefaults() bool {
	changed := false

	if c.Address == "" {
		c.Address = DefaultAddress
		changed = true
	}

	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = DefaultReadHeaderTimeout
		changed = true
	}

	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = middleware.DefaultMaxBodyBytes
		changed = true
	}

	return changed
}

// Validate validates the Config.
func (c *Config) Validate() error {
	if c.Address == "" {
		return ErrEmptyAddress
	}

	if c.ReadHeaderTimeout < 0 {
		return ErrNegativeTimeout
	}

	return nil
}
