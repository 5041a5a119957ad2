package main

import (
	"fmt"
	"path/filepath"

	mtx "github.com/0xalexb/mtx-config"
	"github.com/0xalexb/mtx-config/listener"
	"github.com/0xalexb/mtx-config/loader"
	"github.com/0xalexb/mtx-config/store"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newGetCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "get KEY",
		Short:   "Print the value stored at KEY as JSON",
		Example: "  mtxctl get 'servers[0].host'",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withStore(cmd, func(st *store.Store) error {
				if !st.Has(args[0]) {
					return fmt.Errorf("%w: %s", errKeyNotFound, args[0])
				}

				return writeJSON(cmd.OutOrStdout(), st.Get(args[0], nil))
			})
		},
	}
}

func newSetCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Store VALUE at KEY and write the cache file",
		Long: `Store VALUE at KEY. VALUE is read as JSON; anything that is not valid JSON
is stored as a plain string. Missing or incompatible intermediate nodes are
replaced.`,
		Example: "  mtxctl set database.port 5432\n  mtxctl set 'servers[1].host' db.internal",
		Args:    cobra.ExactArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withStore(cmd, func(st *store.Store) error {
				st.Set(args[0], parseValue(args[1]))
				status(cmd.ErrOrStderr(), color.FgGreen, "set %s", args[0])

				return nil
			})
		},
	}
}

func newHasCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "has KEY",
		Short: "Print whether a value, null included, is stored at KEY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withStore(cmd, func(st *store.Store) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), st.Has(args[0]))

				return err //nolint:wrapcheck
			})
		},
	}
}

func newDeleteCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "delete KEY",
		Aliases: []string{"rm"},
		Short:   "Remove KEY and write the cache file",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withStore(cmd, func(st *store.Store) error {
				if !st.Delete(args[0]) {
					return fmt.Errorf("%w: %s", errKeyNotFound, args[0])
				}

				status(cmd.ErrOrStderr(), color.FgGreen, "deleted %s", args[0])

				return nil
			})
		},
	}
}

func newExportCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export NAME",
		Short: "Print the value stored under export.NAME",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withStore(cmd, func(st *store.Store) error {
				value, ok := st.Export(args[0])
				if !ok {
					return fmt.Errorf("%w: %s", errExportNotFound, args[0])
				}

				return writeJSON(cmd.OutOrStdout(), value)
			})
		},
	}
}

func newDumpCommand(flags *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the whole merged document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("%w: %q", errUnknownFormat, format)
			}

			return flags.withStore(cmd, func(st *store.Store) error {
				if format == "yaml" {
					return writeYAML(cmd.OutOrStdout(), st.All())
				}

				return writeJSON(cmd.OutOrStdout(), st.All())
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")

	return cmd
}

func newSourcesCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List fragments in merge order, later entries win",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolved, err := flags.resolve(cmd)
			if err != nil {
				return err
			}

			base := resolved.Store.BaseDir

			paths := loader.Discover(base,
				loader.WithLogger(flags.logger(cmd, resolved.Store.Debug)),
				loader.WithDebug(resolved.Store.Debug),
			)

			if len(paths) == 0 {
				status(cmd.ErrOrStderr(), color.FgYellow, "no fragments found under %s", base)

				return nil
			}

			for i, fpath := range paths {
				rel, relErr := filepath.Rel(base, fpath)
				if relErr != nil {
					rel = fpath
				}

				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", i+1, filepath.ToSlash(rel))
				if err != nil {
					return err //nolint:wrapcheck
				}
			}

			return nil
		},
	}
}

func newServeCommand(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the document over HTTP until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolved, err := flags.resolve(cmd)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("addr") || resolved.Listener.Address == "" {
				resolved.Listener.Address = addr
			}

			app := mtx.NewApp(
				mtx.WithOutput(cmd.ErrOrStderr()),
				mtx.WithLogLevel(flags.logLevel),
				mtx.WithDebug(resolved.Store.Debug),
				mtx.WithStore(
					store.WithBaseDir(resolved.Store.BaseDir),
					store.WithCachePath(resolved.Store.CachePath),
					store.WithFlushDelay(resolved.Store.FlushDelay),
				),
				mtx.WithHTTPAPI("api",
					listener.WithAddress(resolved.Listener.Address),
					listener.WithReadHeaderTimeout(resolved.Listener.ReadHeaderTimeout),
					listener.WithMaxBodyBytes(resolved.Listener.MaxBodyBytes),
				),
			)

			err = app.Err()
			if err != nil {
				return err
			}

			app.Run()

			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", listener.DefaultAddress, "address to listen on")

	return cmd
}
