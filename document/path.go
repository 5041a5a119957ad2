package document

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxIndex is the largest segment treated as a sequence position. Larger
// numeric segments are plain mapping keys, which bounds how far Set can grow
// a sequence.
const MaxIndex = 1<<16 - 1

// Path is an ordered list of key segments.
type Path []string

//nolint:gochecknoglobals // compiled once.
var bracketToken = regexp.MustCompile(`\[(\w+)\]`)

// ParsePath converts a key path such as "a.b[2].c" into its segments.
// Bracket tokens become dotted segments and empty segments are dropped, so
// leading, trailing and repeated dots are harmless.
func ParsePath(keyPath string) Path {
	dotted := bracketToken.ReplaceAllString(keyPath, ".$1")

	parts := strings.Split(dotted, ".")
	path := make(Path, 0, len(parts))

	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}

		path = append(path, part)
	}

	return path
}

// String joins the segments back into dotted form.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// index reports whether segment addresses a sequence position.
func index(segment string) (int, bool) {
	n, err := strconv.Atoi(segment)
	if err != nil || n < 0 || n > MaxIndex {
		return 0, false
	}

	return n, true
}

// child returns the value stored under segment in node, if node is a
// container holding it.
func child(node any, segment string) (any, bool) {
	switch container := node.(type) {
	case map[string]any:
		value, ok := container[segment]

		return value, ok
	case []any:
		i, ok := index(segment)
		if !ok || i >= len(container) {
			return nil, false
		}

		return container[i], true
	default:
		return nil, false
	}
}
