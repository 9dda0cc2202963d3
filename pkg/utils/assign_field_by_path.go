package utils

import "strings"

// AssignFieldByPath sets the value at a dotted path with optional bracket
// indices. Returns false when the path does not resolve to an existing
// location; intermediate containers are never created.
func AssignFieldByPath(obj any, path string, value any) bool {
	cur := obj
	parts := strings.Split(path, SplitToken)

	for i, part := range parts {
		key, idx, hasIdx := parsePart(part)
		last := i == len(parts)-1

		m, ok := cur.(map[string]any)
		if !ok {
			return false
		}

		if last {
			if !hasIdx {
				m[key] = value
				return true
			}
			list, ok := m[key].([]any)
			if !ok || idx < 0 || idx >= len(list) {
				return false
			}
			list[idx] = value
			return true
		}

		next, ok := m[key]
		if !ok {
			return false
		}
		if hasIdx {
			list, ok := next.([]any)
			if !ok || idx < 0 || idx >= len(list) {
				return false
			}
			next = list[idx]
		}
		cur = next
	}
	return false
}

// EnsureFieldByPath sets the value at a dotted path, creating intermediate
// maps for missing segments. Bracket indices are not supported; attachment
// keys are plain nested paths.
func EnsureFieldByPath(obj map[string]any, path string, value any) {
	parts := strings.Split(path, SplitToken)
	cur := obj
	for i, part := range parts {
		if i == len(parts)-1 {
			cur[part] = value
			return
		}
		next, ok := cur[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[part] = next
		}
		cur = next
	}
}
