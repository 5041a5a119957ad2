package mtx

import (
	"io"

	"github.com/0xalexb/mtx-config/httpapi"
	"github.com/0xalexb/mtx-config/listener"
	"github.com/0xalexb/mtx-config/store"

	"go.uber.org/fx"
)

// Options holds configuration settings for the application.
type Options struct {
	Modules      []fx.Option
	LogLevel     string
	Debug        bool
	Output       io.Writer
	StoreEnabled bool
	StoreOptions []store.Option
}

// Option defines a function type for applying configuration options.
type Option func(*Options)

// WithModules adds Fx modules to the application.
func WithModules(modules ...fx.Option) Option {
	return func(opts *Options) {
		opts.Modules = append(opts.Modules, modules...)
	}
}

// WithStore builds a *store.Store from opts and makes it available both in
// the Fx graph and through App.Store. Repeated calls accumulate options.
func WithStore(opts ...store.Option) Option {
	return func(o *Options) {
		o.StoreEnabled = true
		o.StoreOptions = append(o.StoreOptions, opts...)
	}
}

// WithHTTPListener adds a named HTTP listener module to the application.
// The name is used as both the Fx module name and the DI named tag for http.Handler and Config.
// When options are provided (e.g., WithAddress), Config is supplied to DI automatically.
func WithHTTPListener(name string, opts ...listener.Option) Option {
	return func(o *Options) {
		o.Modules = append(o.Modules, listener.NewModule(name, opts...))
	}
}

// WithHTTPAPI serves the store's REST API on a listener called name.
// It requires WithStore or another module providing *store.Store.
func WithHTTPAPI(name string, opts ...listener.Option) Option {
	return func(o *Options) {
		o.Modules = append(o.Modules, httpapi.NewModule(name), listener.NewModule(name, opts...))
	}
}

// WithLogLevel sets the log level for the application.
// Valid levels are: "debug", "info", "warn", "error".
// If not set or invalid, defaults to "info".
func WithLogLevel(level string) Option {
	return func(opts *Options) {
		opts.LogLevel = level
	}
}

// WithDebug turns on the store's debug diagnostics and forces debug logging.
func WithDebug(debug bool) Option {
	return func(opts *Options) {
		opts.Debug = debug
	}
}

// WithOutput sets where log lines are written. Defaults to os.Stderr.
func WithOutput(w io.Writer) Option {
	return func(opts *Options) {
		opts.Output = w
	}
}
