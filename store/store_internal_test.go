package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/0xalexb/mtx-config/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingTimer(s *Store) *time.Timer {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	return s.pending
}

func TestScheduleFlush_SinglePendingSlot(t *testing.T) {
	t.Parallel()

	cfg := Config{CachePath: filepath.Join(t.TempDir(), "cache.config"), FlushDelay: time.Hour}

	s := New(cfg, nil, logging.Discard())
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	require.Nil(t, pendingTimer(s))

	s.Set("a", 1)

	first := pendingTimer(s)
	require.NotNil(t, first)

	s.Set("b", 2)
	s.Delete("a")

	assert.Same(t, first, pendingTimer(s))
}

func TestScheduleFlush_NoopDeleteDoesNotSchedule(t *testing.T) {
	t.Parallel()

	cfg := Config{CachePath: filepath.Join(t.TempDir(), "cache.config"), FlushDelay: time.Hour}

	s := New(cfg, map[string]any{"a": "b"}, logging.Discard())
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	assert.False(t, s.Delete("missing.key"))
	assert.Nil(t, pendingTimer(s))
}

func TestScheduleFlush_NotReady(t *testing.T) {
	t.Parallel()

	s := &Store{doc: map[string]any{}, delay: time.Hour, logger: logging.Discard()}

	s.Set("a", 1)

	assert.Nil(t, pendingTimer(s))
}

func TestFlushPending_ClearsSlot(t *testing.T) {
	t.Parallel()

	cfg := Config{CachePath: filepath.Join(t.TempDir(), "cache.config"), FlushDelay: time.Millisecond}

	s := New(cfg, nil, logging.Discard())
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	s.Set("a", 1)

	require.Eventually(t, func() bool { return pendingTimer(s) == nil }, time.Second, 5*time.Millisecond)
}
