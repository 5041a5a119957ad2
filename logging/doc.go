// Package logging builds the JSON slog loggers shared by the loader, the
// store, the HTTP listener and mtxctl.
package logging
