package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// writeJSON prints value as one JSON line, indented when w is a terminal.
func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if isTerminal(w) {
		enc.SetIndent("", "  ")
	}

	err := enc.Encode(value)
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	return nil
}

func writeYAML(w io.Writer, value any) error {
	data, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}

	_, err = w.Write(data)

	return err //nolint:wrapcheck
}

// status prints a short human-readable line, colored only on terminals.
func status(w io.Writer, attr color.Attribute, format string, args ...any) {
	c := color.New(attr)
	if !isTerminal(w) {
		c.DisableColor()
	}

	_, _ = c.Fprintf(w, format+"\n", args...)
}

// parseValue reads raw as JSON and falls back to the plain string.
func parseValue(raw string) any {
	var value any

	err := json.Unmarshal([]byte(raw), &value)
	if err != nil {
		return raw
	}

	return value
}
