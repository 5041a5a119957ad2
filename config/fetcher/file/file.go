package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrPathIsDirectory is returned when the path points to a directory.
var ErrPathIsDirectory = errors.New("path is a directory, not a file")

// Fetcher implements config.DataFetcher for one file on disk. The file is
// read once, when the Fetcher is built.
type Fetcher struct {
	path string
	data []byte
}

// Read loads the file at fpath.
func Read(fpath string) (*Fetcher, error) {
	cleanPath := filepath.Clean(fpath)

	stat, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("stat file %q: %w", cleanPath, err)
	}

	if stat.IsDir() {
		return nil, fmt.Errorf("path %q: %w", cleanPath, ErrPathIsDirectory)
	}

	data, err := os.ReadFile(cleanPath) // #nosec G304 -- caller controls discovery roots
	if err != nil {
		return nil, fmt.Errorf("reading file %q: %w", cleanPath, err)
	}

	return &Fetcher{path: cleanPath, data: data}, nil
}

// NewFetcher returns a constructor for a Fetcher over fpath, deferring the
// read until the constructor runs. Fx can provide it directly.
func NewFetcher(fpath string) func() (*Fetcher, error) {
	return func() (*Fetcher, error) {
		return Read(fpath)
	}
}

// Path returns the cleaned path the Fetcher was built from.
func (f *Fetcher) Path() string {
	return f.path
}

// Fetch returns a copy of the bytes read at construction time.
func (f *Fetcher) Fetch() ([]byte, error) {
	result := make([]byte, len(f.data))
	copy(result, f.data)

	return result, nil
}
