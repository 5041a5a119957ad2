package loader

import "log/slog"

// Defaults for discovery.
//
//nolint:gochecknoglobals // read-only defaults, copied into options.
var (
	// DefaultTargetDirs are the directory names under the base directory
	// that are scanned for fragments.
	DefaultTargetDirs = []string{"config", "configs", "database", "databaseconfig"}
	// DefaultSkipDirs are never entered while scanning a target directory.
	DefaultSkipDirs = []string{"node_modules", ".git", "dist", "temp"}
)

// DefaultExtension is the file name suffix of a config fragment.
const DefaultExtension = ".config"

type options struct {
	logger     *slog.Logger
	debug      bool
	targetDirs []string
	skipDirs   map[string]struct{}
	extension  string
}

// Option configures Load and Discover.
type Option func(*options)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(opts *options) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

// WithDebug enables diagnostics about skipped directories, precedence and
// empty scans. Parse errors are logged either way.
func WithDebug(debug bool) Option {
	return func(opts *options) {
		opts.debug = debug
	}
}

// WithTargetDirs replaces the directory names scanned under the base
// directory.
func WithTargetDirs(dirs ...string) Option {
	return func(opts *options) {
		opts.targetDirs = append([]string(nil), dirs...)
	}
}

// WithSkipDirs replaces the directory names that are never entered.
func WithSkipDirs(dirs ...string) Option {
	return func(opts *options) {
		opts.skipDirs = toSet(dirs)
	}
}

// WithExtension sets the fragment file suffix.
func WithExtension(ext string) Option {
	return func(opts *options) {
		if ext != "" {
			opts.extension = ext
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:     slog.Default(),
		debug:      false,
		targetDirs: DefaultTargetDirs,
		skipDirs:   toSet(DefaultSkipDirs),
		extension:  DefaultExtension,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}

	return set
}
