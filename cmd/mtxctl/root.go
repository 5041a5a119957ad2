package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	mtx "github.com/0xalexb/mtx-config"
	"github.com/0xalexb/mtx-config/config"
	filefetcher "github.com/0xalexb/mtx-config/config/fetcher/file"
	yamlparser "github.com/0xalexb/mtx-config/config/parser/yaml"
	"github.com/0xalexb/mtx-config/listener"
	"github.com/0xalexb/mtx-config/logging"
	"github.com/0xalexb/mtx-config/store"

	"github.com/spf13/cobra"
)

const closeTimeout = 5 * time.Second

var (
	errKeyNotFound    = errors.New("key not found")
	errExportNotFound = errors.New("export not found")
	errUnknownFormat  = errors.New("unknown format")
)

type globalFlags struct {
	base       string
	cache      string
	settings   string
	logLevel   string
	debug      bool
	flushDelay time.Duration
}

// settings is the resolved configuration of one invocation.
type settings struct {
	Store    store.Config
	Listener listener.Config
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "mtxctl",
		Short: "Inspect and edit a layered configuration store",
		Long: `mtxctl merges every *.config fragment found under the config, configs,
database and databaseconfig directories of --base and works on the result.

Changes made with set and delete are written to the cache file only; the
fragments themselves are never modified.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", mtx.Version, mtx.Commit, mtx.CompiledAt),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.base, "base", "", `directory scanned for fragments (default ".")`)
	pf.StringVar(&flags.cache, "cache", "", `cache file the document is written to (default "mtx.cache.config")`)
	pf.StringVar(&flags.settings, "settings", "", "YAML file with store and listener sections")
	pf.StringVar(&flags.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	pf.BoolVar(&flags.debug, "debug", os.Getenv("MTX_DEBUG") == "true", "log discovery and persistence diagnostics (env MTX_DEBUG=true)")
	pf.DurationVar(&flags.flushDelay, "flush-delay", 0, "quiet period before a change is written (default 100ms)")

	root.AddCommand(
		newGetCommand(flags),
		newSetCommand(flags),
		newHasCommand(flags),
		newDeleteCommand(flags),
		newExportCommand(flags),
		newDumpCommand(flags),
		newSourcesCommand(flags),
		newDiffCommand(flags),
		newServeCommand(flags),
	)

	return root
}

// resolve merges the settings file with the flags. Flags set on the command
// line win over the file.
func (f *globalFlags) resolve(cmd *cobra.Command) (settings, error) {
	var resolved settings

	if f.settings != "" {
		fetcher, err := filefetcher.NewFetcher(f.settings)()
		if err != nil {
			return resolved, fmt.Errorf("reading settings: %w", err)
		}

		parser := yamlparser.NewParser()

		storeCfg, err := config.Provider(&store.Config{}, "store")(parser, fetcher)

		switch {
		case err == nil:
			resolved.Store = *storeCfg
		case !errors.Is(err, yamlparser.ErrPathNotFound):
			return resolved, err
		}

		listenerCfg, err := config.Provider(&listener.Config{}, "listener")(parser, fetcher)

		switch {
		case err == nil:
			resolved.Listener = *listenerCfg
		case !errors.Is(err, yamlparser.ErrPathNotFound):
			return resolved, err
		}
	}

	changed := cmd.Flags().Changed

	if changed("base") || resolved.Store.BaseDir == "" {
		resolved.Store.BaseDir = f.base
	}

	if changed("cache") || resolved.Store.CachePath == "" {
		resolved.Store.CachePath = f.cache
	}

	if changed("flush-delay") || resolved.Store.FlushDelay == 0 {
		resolved.Store.FlushDelay = f.flushDelay
	}

	if changed("debug") {
		resolved.Store.Debug = f.debug
	} else {
		resolved.Store.Debug = resolved.Store.Debug || f.debug
	}

	resolved.Store.SetDefaults()

	err := resolved.Store.Validate()
	if err != nil {
		return resolved, fmt.Errorf("invalid store settings: %w", err)
	}

	return resolved, nil
}

func (f *globalFlags) logger(cmd *cobra.Command, debug bool) *slog.Logger {
	return logging.NewLogger(logging.LoggerConfig{Level: f.logLevel, Debug: debug}, cmd.ErrOrStderr())
}

// withStore opens the store, runs fn and closes the store, which writes the
// cache file one last time.
func (f *globalFlags) withStore(cmd *cobra.Command, fn func(*store.Store) error) error {
	resolved, err := f.resolve(cmd)
	if err != nil {
		return err
	}

	st := store.Open(resolved.Store, f.logger(cmd, resolved.Store.Debug))

	runErr := fn(st)

	ctx, cancel := context.WithTimeout(cmd.Context(), closeTimeout)
	defer cancel()

	return errors.Join(runErr, st.Close(ctx))
}
