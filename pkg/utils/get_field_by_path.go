package utils

import (
	"regexp"
	"strconv"
	"strings"
)

const SplitToken = "."

var partRe = regexp.MustCompile(`^([^\[]+)(?:\[(\d+)\])?$`)

// parsePart splits a single path segment into its key and optional index,
// e.g. "items[2]" -> ("items", 2, true).
func parsePart(part string) (string, int, bool) {
	m := partRe.FindStringSubmatch(part)
	if m == nil {
		return part, 0, false
	}
	if m[2] == "" {
		return m[1], 0, false
	}
	idx, err := strconv.Atoi(m[2])
	if err != nil {
		return m[1], 0, false
	}
	return m[1], idx, true
}

// GetFieldByPath returns the value at a dotted path with optional bracket
// indices (e.g. "scopecontent.p", "items[2].ref"). The second return value
// reports whether the full path resolved.
func GetFieldByPath(obj any, path string) (any, bool) {
	cur := obj
	for _, part := range strings.Split(path, SplitToken) {
		key, idx, hasIdx := parsePart(part)

		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}

		if hasIdx {
			list, ok := cur.([]any)
			if !ok || idx < 0 || idx >= len(list) {
				return nil, false
			}
			cur = list[idx]
		}
	}
	return cur, true
}
