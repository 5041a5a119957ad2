package store

import (
	"log/slog"

	"go.uber.org/fx"
)

// NewModule creates an Fx module that provides a *Store.
//
// When options are passed the module supplies its own Config. Otherwise a
// Config must be provided elsewhere, for example through config.Provider.
// The document is loaded when the Store is constructed and flushed one last
// time when the application stops.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func NewModule(opts ...Option) fx.Option {
	moduleOpts := make([]fx.Option, 0, 2)

	if len(opts) > 0 {
		var cfg Config

		for _, apply := range opts {
			apply(&cfg)
		}

		moduleOpts = append(moduleOpts, fx.Supply(cfg))
	}

	moduleOpts = append(moduleOpts, fx.Provide(
		func(lifecycle fx.Lifecycle, cfg Config, logger *slog.Logger) (*Store, error) {
			cfg.SetDefaults()

			err := cfg.Validate()
			if err != nil {
				return nil, err
			}

			st := Open(cfg, logger)

			lifecycle.Append(fx.Hook{
				OnStop: st.Close,
			})

			return st, nil
		},
	))

	return fx.Module("store", moduleOpts...)
}
