package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	jsonparser "github.com/0xalexb/mtx-config/config/parser/json"
	"github.com/0xalexb/mtx-config/document"
	"github.com/0xalexb/mtx-config/loader"
)

const (
	indent   = "    "
	filePerm = 0o600
	dirPerm  = 0o755
)

// ErrNotObject is returned when an operation would leave a document that is
// not a JSON object.
var ErrNotObject = errors.New("document root must be a JSON object")

// Store owns one document and persists it to a cache file.
//
// Reads and writes are safe for concurrent use. Every mutation schedules a
// debounced flush; at most one flush is pending at a time and it writes the
// document as it is when the timer fires.
type Store struct {
	mu    sync.RWMutex
	doc   map[string]any
	dirty bool // guarded by mu; set by mutations, cleared by a successful write

	path   string
	debug  bool
	delay  time.Duration
	logger *slog.Logger
	ready  atomic.Bool

	flushMu  sync.Mutex
	pending  *time.Timer
	inflight sync.WaitGroup
	closed   bool

	writeMu sync.Mutex
}

// Open loads the document from cfg.BaseDir and returns a Store over it.
func Open(cfg Config, logger *slog.Logger, opts ...loader.Option) *Store {
	cfg.SetDefaults()

	if logger == nil {
		logger = slog.Default()
	}

	loadOpts := append([]loader.Option{loader.WithLogger(logger), loader.WithDebug(cfg.Debug)}, opts...)

	return New(cfg, loader.Load(cfg.BaseDir, loadOpts...), logger)
}

// New returns a Store backed by initial, which the Store takes ownership of.
//
// If the cache file does not exist it is created immediately. When the file
// or its directory cannot be created the Store is not ready: persistence is
// disabled and every in-memory operation keeps working.
func New(cfg Config, initial map[string]any, logger *slog.Logger) *Store {
	cfg.SetDefaults()

	if logger == nil {
		logger = slog.Default()
	}

	if initial == nil {
		initial = make(map[string]any)
	}

	fpath, err := filepath.Abs(cfg.CachePath)
	if err != nil {
		fpath = filepath.Clean(cfg.CachePath)
	}

	s := &Store{
		doc:    initial,
		path:   fpath,
		debug:  cfg.Debug,
		delay:  cfg.FlushDelay,
		logger: logger,
	}

	s.bootstrap()

	return s
}

func (s *Store) bootstrap() {
	err := os.MkdirAll(filepath.Dir(s.path), dirPerm)
	if err != nil {
		s.logger.Error("cache initialization failed", slog.String("path", s.path), slog.Any("error", err))

		return
	}

	_, err = os.Stat(s.path)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		err = s.write()
		if err != nil {
			s.logger.Error("cache initialization failed", slog.String("path", s.path), slog.Any("error", err))

			return
		}
	case err != nil:
		s.logger.Error("cache initialization failed", slog.String("path", s.path), slog.Any("error", err))

		return
	}

	s.ready.Store(true)

	if s.debug {
		s.logger.Info("cache persistence ready", slog.String("file", filepath.Base(s.path)))
	}
}

// Ready reports whether persistence is enabled.
func (s *Store) Ready() bool {
	return s.ready.Load()
}

// Path returns the absolute path of the cache file.
func (s *Store) Path() string {
	return s.path
}

// Get returns a copy of the value at key, or def when the key is absent.
func (s *Store) Get(key string, def any) any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := document.Lookup(s.doc, document.ParsePath(key))
	if !ok {
		return def
	}

	return document.Clone(value)
}

// Has reports whether a value, null included, is stored at key.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return document.Has(s.doc, document.ParsePath(key))
}

// Set stores value at key, replacing anything in the way. See document.Set.
func (s *Store) Set(key string, value any) {
	path := document.ParsePath(key)

	s.mu.Lock()
	document.Set(s.doc, path, value)
	s.dirty = true
	s.mu.Unlock()

	s.scheduleFlush()
}

// Delete removes key and reports whether anything was removed. A flush is
// scheduled only when the document changed.
func (s *Store) Delete(key string) bool {
	path := document.ParsePath(key)

	s.mu.Lock()
	removed := document.Delete(s.doc, path)
	s.dirty = s.dirty || removed
	s.mu.Unlock()

	if removed {
		s.scheduleFlush()
	}

	return removed
}

// Export returns the value stored under "export.<name>".
func (s *Store) Export(name string) (any, bool) {
	key := "export." + name

	s.mu.RLock()
	value, ok := document.Lookup(s.doc, document.ParsePath(key))
	s.mu.RUnlock()

	if !ok {
		if s.debug {
			s.logger.Warn("export key not found", slog.String("name", name), slog.String("key", key))
		}

		return nil, false
	}

	return document.Clone(value), true
}

// All returns a deep copy of the whole document.
func (s *Store) All() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, _ := document.Clone(s.doc).(map[string]any)

	return all
}

// Bind decodes the value at key into target.
func (s *Store) Bind(key string, target any) error {
	s.mu.RLock()
	value, ok := document.Lookup(s.doc, document.ParsePath(key))
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", jsonparser.ErrPathNotFound, key)
	}

	return jsonparser.Decode(value, target)
}

// Fetch returns the current document as JSON. It makes a Store usable as a
// config.DataFetcher.
func (s *Store) Fetch() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := json.Marshal(s.doc)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}

	return data, nil
}

// Flush writes the document to the cache file now. It is a no-op when the
// Store is not ready.
func (s *Store) Flush() error {
	if !s.Ready() {
		return nil
	}

	return s.write()
}

// Close cancels any pending flush, waits for a running one and writes the
// document a final time if it changed since the last successful write. A
// Store that was only read leaves the cache file as it found it. Mutations
// after Close stay in memory only.
func (s *Store) Close(ctx context.Context) error {
	s.flushMu.Lock()
	s.closed = true

	if s.pending != nil && s.pending.Stop() {
		s.inflight.Done()
	}

	s.pending = nil
	s.flushMu.Unlock()

	done := make(chan struct{})

	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("waiting for pending flush: %w", ctx.Err())
	}

	s.mu.RLock()
	dirty := s.dirty
	s.mu.RUnlock()

	if !dirty {
		return nil
	}

	return s.Flush()
}

func (s *Store) scheduleFlush() {
	if !s.Ready() {
		return
	}

	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	if s.closed || s.pending != nil {
		return
	}

	s.inflight.Add(1)
	s.pending = time.AfterFunc(s.delay, s.flushPending)
}

func (s *Store) flushPending() {
	defer s.inflight.Done()

	s.flushMu.Lock()
	s.pending = nil
	s.flushMu.Unlock()

	err := s.write()
	if err != nil {
		s.logger.Error("cache write failed", slog.String("path", s.path), slog.Any("error", err))
	}
}

// write serializes and stores the document. Writers are serialized so a
// slower, older snapshot can never land after a newer one.
func (s *Store) write() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	data, err := json.MarshalIndent(s.doc, "", indent)
	s.dirty = false
	s.mu.Unlock()

	if err != nil {
		s.markDirty()

		return fmt.Errorf("encoding document: %w", err)
	}

	err = os.WriteFile(s.path, data, filePerm)
	if err != nil {
		s.markDirty()

		return fmt.Errorf("writing %q: %w", s.path, err)
	}

	return nil
}

// markDirty flags the snapshot taken by a failed write as not persisted.
func (s *Store) markDirty() {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
}
