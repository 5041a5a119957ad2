package store

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
)

// Patch applies an RFC 6902 JSON Patch to the document. The document is left
// untouched when any operation fails.
func (s *Store) Patch(patch []byte) error {
	ops, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return fmt.Errorf("decoding patch: %w", err)
	}

	return s.transform(func(current []byte) ([]byte, error) {
		return ops.Apply(current)
	})
}

// MergePatch applies an RFC 7386 JSON Merge Patch to the document.
func (s *Store) MergePatch(patch []byte) error {
	return s.transform(func(current []byte) ([]byte, error) {
		return jsonpatch.MergePatch(current, patch)
	})
}

// transform replaces the document with apply(document) as one mutation.
func (s *Store) transform(apply func([]byte) ([]byte, error)) error {
	s.mu.Lock()

	current, err := json.Marshal(s.doc)
	if err != nil {
		s.mu.Unlock()

		return fmt.Errorf("encoding document: %w", err)
	}

	patched, err := apply(current)
	if err != nil {
		s.mu.Unlock()

		return fmt.Errorf("applying patch: %w", err)
	}

	var next any

	err = json.Unmarshal(patched, &next)
	if err != nil {
		s.mu.Unlock()

		return fmt.Errorf("decoding patched document: %w", err)
	}

	doc, ok := next.(map[string]any)
	if !ok || doc == nil {
		s.mu.Unlock()

		return fmt.Errorf("%w: got %T", ErrNotObject, next)
	}

	s.doc = doc
	s.dirty = true
	s.mu.Unlock()

	s.scheduleFlush()

	return nil
}
