package document

import "slices"

type undefined struct{}

// absent stands in for "no value" in Has. It is unexported, so no stored
// value can ever compare equal to it.
//
//nolint:gochecknoglobals // sentinel.
var absent = &undefined{}

// Lookup walks path from doc and returns the value found there. The walk
// stops at the first segment that is not held by the current container.
// An empty path yields doc itself.
func Lookup(doc any, path Path) (any, bool) {
	current := doc

	for _, segment := range path {
		next, ok := child(current, segment)
		if !ok {
			return nil, false
		}

		current = next
	}

	return current, true
}

// Get returns the value at path, or def when any segment is missing.
func Get(doc any, path Path, def any) any {
	value, ok := Lookup(doc, path)
	if !ok {
		return def
	}

	return value
}

// Has reports whether a value, including null, is stored at path.
func Has(doc any, path Path) bool {
	value := Get(doc, path, absent)

	sentinel, ok := value.(*undefined)

	return !ok || sentinel != absent
}

// Set stores value at path, creating intermediate containers as needed.
//
// An intermediate value that cannot hold the next segment is replaced: a
// sequence is created when the next segment is a non-negative integer,
// otherwise a mapping. Existing scalars, nulls and sequences followed by a
// non-index segment are discarded without notice. Sequences grow to fit the
// index, padding with nil; numbers above MaxIndex are mapping keys, so a
// sequence in their way is replaced too. An empty path is a no-op.
func Set(doc map[string]any, path Path, value any) {
	if doc == nil || len(path) == 0 {
		return
	}

	setIn(doc, path, value)
}

func setIn(node any, path Path, value any) any {
	segment := path[0]
	if len(path) == 1 {
		return assign(node, segment, value)
	}

	next, _ := child(node, segment)
	if !fits(next, path[1]) {
		next = container(path[1])
	}

	return assign(node, segment, setIn(next, path[1:], value))
}

// fits reports whether node can take segment as a key or index.
func fits(node any, segment string) bool {
	switch node.(type) {
	case map[string]any:
		return true
	case []any:
		_, ok := index(segment)

		return ok
	default:
		return false
	}
}

// container returns an empty container suited to be addressed by segment.
func container(segment string) any {
	if _, ok := index(segment); ok {
		return []any{}
	}

	return map[string]any{}
}

// assign stores value under segment and returns the (possibly reallocated)
// container. Callers only pass containers that fit segment.
func assign(node any, segment string, value any) any {
	switch typed := node.(type) {
	case map[string]any:
		typed[segment] = value

		return typed
	case []any:
		i, ok := index(segment)
		if !ok {
			return typed
		}

		if i >= len(typed) {
			typed = append(typed, make([]any, i+1-len(typed))...)
		}

		typed[i] = value

		return typed
	default:
		return node
	}
}

// Delete removes the value at path and reports whether anything was
// removed. It never creates containers: a missing intermediate segment
// aborts the walk. Sequence elements are removed, shifting later elements
// down by one.
func Delete(doc map[string]any, path Path) bool {
	if doc == nil || len(path) == 0 {
		return false
	}

	_, removed := deleteIn(doc, path)

	return removed
}

func deleteIn(node any, path Path) (any, bool) {
	segment := path[0]
	if len(path) == 1 {
		return remove(node, segment)
	}

	next, ok := child(node, segment)
	if !ok {
		return node, false
	}

	updated, removed := deleteIn(next, path[1:])
	if !removed {
		return node, false
	}

	return assign(node, segment, updated), true
}

func remove(node any, segment string) (any, bool) {
	switch typed := node.(type) {
	case map[string]any:
		if _, ok := typed[segment]; !ok {
			return typed, false
		}

		delete(typed, segment)

		return typed, true
	case []any:
		i, ok := index(segment)
		if !ok || i >= len(typed) {
			return typed, false
		}

		return slices.Delete(typed, i, i+1), true
	default:
		return node, false
	}
}
