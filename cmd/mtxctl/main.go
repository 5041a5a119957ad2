// Command mtxctl inspects and edits a layered configuration store from the
// shell and can serve it over HTTP.
package main

import (
	"os"

	"github.com/fatih/color"
)

func main() {
	err := newRootCommand().Execute()
	if err != nil {
		status(os.Stderr, color.FgRed, "error: %v", err)
		os.Exit(1)
	}
}
