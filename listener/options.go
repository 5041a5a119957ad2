package listener

import "time"

// Option defines a function type for configuring an HTTP listener.
type Option func(*Config)

// WithAddress sets the address for the HTTP listener.
func WithAddress(addr string) Option {
	return func(cfg *Config) {
		cfg.Address = addr
	}
}

// WithReadHeaderTimeout sets how long the server waits for request headers.
func WithReadHeaderTimeout(timeout time.Duration) Option {
	return func(cfg *Config) {
		cfg.ReadHeaderTimeout = timeout
	}
}

// WithMaxBodyBytes caps the size of request bodies.
func WithMaxBodyBytes(limit int64) Option {
	return func(cfg *Config) {
		cfg.MaxBodyBytes = limit
	}
}
