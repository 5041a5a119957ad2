// Package file provides a file-based DataFetcher for the config package.
//
// The loader reads every discovered fragment through it, and mtxctl uses it
// for --settings files. Contents are read once and served from memory.
//
// Usage:
//
//	fetcher, err := file.Read("configs/01-base.config")
//	if err != nil {
//	    // not found, permission denied, path is a directory, ...
//	}
//	data, _ := fetcher.Fetch()
//
// Errors carry the path; use errors.Is(err, file.ErrPathIsDirectory) to
// detect directories.
package file
