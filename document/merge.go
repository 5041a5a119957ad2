package document

// Merge copies every key of source into target and returns target.
//
// When both sides hold a mapping under the same key the mappings are merged
// recursively, in place. Any other combination, including sequences, nulls
// and type mismatches, replaces the target value with the source value.
// Sequences are never merged element by element.
func Merge(target, source map[string]any) map[string]any {
	if target == nil {
		target = make(map[string]any, len(source))
	}

	for key, incoming := range source {
		incomingMap, incomingIsMap := incoming.(map[string]any)
		existingMap, existingIsMap := target[key].(map[string]any)

		if incomingIsMap && existingIsMap && incomingMap != nil && existingMap != nil {
			Merge(existingMap, incomingMap)

			continue
		}

		target[key] = incoming
	}

	return target
}

// Clone returns a deep copy of value. Mappings and sequences are copied,
// everything else is shared.
func Clone(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		if typed == nil {
			return typed
		}

		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = Clone(item)
		}

		return out
	case []any:
		if typed == nil {
			return typed
		}

		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = Clone(item)
		}

		return out
	default:
		return value
	}
}
