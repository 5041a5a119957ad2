package mtx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/0xalexb/mtx-config/logging"
	"github.com/0xalexb/mtx-config/store"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

var errAppNotInitialized = errors.New("app not initialized")

// App wires the configuration store and its optional HTTP surface with Fx.
type App struct {
	app   *fx.App
	store *store.Store
}

// NewApp creates a new instance of App with Fx configured.
func NewApp(opts ...Option) *App {
	var options Options

	for _, apply := range opts {
		apply(&options)
	}

	app := &App{}
	app.app = configure(&options, &app.store)

	return app
}

func configure(options *Options, target **store.Store) *fx.App {
	output := options.Output
	if output == nil {
		output = os.Stderr
	}

	loggerConfig := logging.LoggerConfig{Level: options.LogLevel, Debug: options.Debug}
	logger := createLogger(loggerConfig, output)
	slog.SetDefault(logger)

	modules := make([]fx.Option, 0, len(options.Modules)+2)

	if options.StoreEnabled {
		storeOpts := append([]store.Option{store.WithDebug(options.Debug)}, options.StoreOptions...)
		modules = append(modules, store.NewModule(storeOpts...), fx.Populate(target))
	}

	modules = append(modules, options.Modules...)

	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger}
		}),
		fx.Supply(loggerConfig),
		fx.Supply(logger),
		fx.Options(modules...),
	)
}

func createLogger(config logging.LoggerConfig, w io.Writer) *slog.Logger {
	return logging.NewLogger(config, w)
}

// Err reports a construction error, for example an invalid store config.
func (app *App) Err() error {
	if app == nil || app.app == nil {
		return errAppNotInitialized
	}

	return app.app.Err() //nolint:wrapcheck
}

// Store returns the store built by the App, or nil when the App was created
// without WithStore or failed to build.
func (app *App) Store() *store.Store {
	if app == nil {
		return nil
	}

	return app.store
}

// Start starts the Fx application.
func (app *App) Start() error {
	if app != nil && app.app != nil {
		err := app.app.Start(context.Background())
		if err != nil {
			return fmt.Errorf("failed to start app: %w", err)
		}

		return nil
	}

	return errAppNotInitialized
}

// Run starts the application and blocks until an OS signal is received, then shuts down gracefully.
func (app *App) Run() {
	if app == nil || app.app == nil {
		slog.Error("attempted to run an uninitialized app")

		return
	}

	app.app.Run()
}

// Stop stops the Fx application gracefully. The store's last flush happens here.
func (app *App) Stop() error {
	if app != nil && app.app != nil {
		err := app.app.Stop(context.Background())
		if err != nil {
			return fmt.Errorf("failed to stop app: %w", err)
		}

		return nil
	}

	return errAppNotInitialized
}
