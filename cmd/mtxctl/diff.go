package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/0xalexb/mtx-config/loader"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
)

// cacheIndent matches the layout the store writes.
const cacheIndent = "    "

func newDiffCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Compare the cache file with a fresh merge of the fragments",
		Long: `Compare the cache file with the document the fragments produce right now.
Lines starting with - exist only in the cache, lines starting with + only in
the fragments. The cache file is not modified.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolved, err := flags.resolve(cmd)
			if err != nil {
				return err
			}

			merged := loader.Load(resolved.Store.BaseDir,
				loader.WithLogger(flags.logger(cmd, resolved.Store.Debug)),
				loader.WithDebug(resolved.Store.Debug),
			)

			fresh, err := json.MarshalIndent(merged, "", cacheIndent)
			if err != nil {
				return fmt.Errorf("encoding document: %w", err)
			}

			cached, err := os.ReadFile(resolved.Store.CachePath)
			if err != nil {
				return fmt.Errorf("reading cache: %w", err)
			}

			if !writeLineDiff(cmd.OutOrStdout(), string(cached), string(fresh)) {
				status(cmd.ErrOrStderr(), color.FgGreen, "no differences")
			}

			return nil
		},
	}
}

// writeLineDiff prints a line-oriented diff of from and to and reports
// whether they differ. Nothing is printed for equal inputs.
func writeLineDiff(w io.Writer, from, to string) bool {
	dmp := diffpatch.New()

	fromChars, toChars, lines := dmp.DiffLinesToChars(from+"\n", to+"\n")
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(fromChars, toChars, false), lines)

	if !slices.ContainsFunc(diffs, func(d diffpatch.Diff) bool { return d.Type != diffpatch.DiffEqual }) {
		return false
	}

	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)

	if !isTerminal(w) {
		removed.DisableColor()
		added.DisableColor()
	}

	for _, diff := range diffs {
		for line := range strings.SplitSeq(strings.TrimSuffix(diff.Text, "\n"), "\n") {
			switch diff.Type {
			case diffpatch.DiffDelete:
				_, _ = removed.Fprintf(w, "-%s\n", line)
			case diffpatch.DiffInsert:
				_, _ = added.Fprintf(w, "+%s\n", line)
			case diffpatch.DiffEqual:
				_, _ = fmt.Fprintf(w, " %s\n", line)
			}
		}
	}

	return true
}
