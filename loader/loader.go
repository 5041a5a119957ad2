package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/0xalexb/mtx-config/config"
	filefetcher "github.com/0xalexb/mtx-config/config/fetcher/file"
	jsonparser "github.com/0xalexb/mtx-config/config/parser/json"
	"github.com/0xalexb/mtx-config/document"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ErrNotObject is returned for fragments whose top-level JSON value is not
// an object.
var ErrNotObject = errors.New("fragment is not a JSON object")

// Load discovers every fragment under baseDir and deep-merges them in
// discovery order into one document. It never fails: missing directories,
// unreadable directories and malformed fragments are skipped. The result is
// an empty mapping when nothing was loaded.
func Load(baseDir string, opts ...Option) map[string]any {
	o := newOptions(opts)

	var parser config.Parser = jsonparser.NewParser()

	aggregated := make(map[string]any)
	loaded := 0

	for _, fpath := range o.discover(baseDir) {
		rel := relative(baseDir, fpath)

		fragment, err := readFragment(parser, fpath)
		if err != nil {
			o.logger.Error("failed to parse fragment", slog.String("path", rel), slog.Any("error", err))

			continue
		}

		document.Merge(aggregated, fragment)
		loaded++

		if o.debug {
			o.logger.Info("fragment loaded", slog.Int("precedence", loaded), slog.String("path", rel))
		}
	}

	if loaded == 0 && o.debug {
		o.logger.Warn("no fragments found", slog.String("base_dir", baseDir), slog.String("extension", o.extension))
	}

	return aggregated
}

// Discover returns the fragment paths under baseDir in merge order, lowest
// precedence first.
func Discover(baseDir string, opts ...Option) []string {
	o := newOptions(opts)

	return o.discover(baseDir)
}

func (o options) discover(baseDir string) []string {
	info, err := os.Stat(baseDir)
	if err != nil || !info.IsDir() {
		if o.debug {
			o.logger.Warn("base directory not found", slog.String("base_dir", baseDir))
		}

		return nil
	}

	queue := make([]string, 0, len(o.targetDirs))

	for _, name := range o.targetDirs {
		dir := filepath.Join(baseDir, name)

		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			if o.debug {
				o.logger.Warn("target directory skipped", slog.String("dir", name))
			}

			continue
		}

		queue = append(queue, dir)
	}

	var found []string

	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		entries, err := os.ReadDir(dir)
		if err != nil {
			if o.debug {
				o.logger.Warn("cannot read directory", slog.String("dir", dir), slog.Any("error", err))
			}

			continue
		}

		for _, entry := range entries {
			name := entry.Name()
			full := filepath.Join(dir, name)

			switch {
			case entry.IsDir():
				if _, skip := o.skipDirs[name]; !skip {
					queue = append(queue, full)
				}
			case strings.HasSuffix(name, o.extension) && isFile(entry, full):
				found = append(found, full)
			}
		}
	}

	sortPaths(found)

	return found
}

// isFile accepts regular files and symlinks that resolve to one. Symlinked
// directories are not followed.
func isFile(entry fs.DirEntry, full string) bool {
	if entry.Type().IsRegular() {
		return true
	}

	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}

	info, err := os.Stat(full)

	return err == nil && info.Mode().IsRegular()
}

// sortPaths orders paths with root-locale collation. Byte order breaks
// ties so the result depends only on the set of paths.
func sortPaths(paths []string) {
	collator := collate.New(language.Und)

	slices.SortFunc(paths, func(a, b string) int {
		if c := collator.CompareString(a, b); c != 0 {
			return c
		}

		return strings.Compare(a, b)
	})
}

func readFragment(parser config.Parser, fpath string) (map[string]any, error) {
	fetcher, err := filefetcher.Read(fpath)
	if err != nil {
		return nil, err
	}

	data, err := fetcher.Fetch()
	if err != nil {
		return nil, fmt.Errorf("fetching %q: %w", fpath, err)
	}

	var fragment any

	err = parser.Parse(data, &fragment, "")
	if err != nil {
		return nil, err
	}

	object, ok := fragment.(map[string]any)
	if !ok || object == nil {
		return nil, fmt.Errorf("%w: got %T", ErrNotObject, fragment)
	}

	return object, nil
}

func relative(baseDir, fpath string) string {
	rel, err := filepath.Rel(baseDir, fpath)
	if err != nil {
		return fpath
	}

	return rel
}
