package utils

// WalkStrings applies fn to every string value reachable from obj, mutating
// maps and slices in place, and returns the (possibly replaced) value. Used
// by transformers when no target fields are configured.
func WalkStrings(obj any, fn func(string) string) any {
	switch v := obj.(type) {
	case map[string]any:
		for k, val := range v {
			v[k] = WalkStrings(val, fn)
		}
		return v
	case []any:
		for i, val := range v {
			v[i] = WalkStrings(val, fn)
		}
		return v
	case string:
		return fn(v)
	default:
		return obj
	}
}

// ApplyToTargets applies fn to the string values at the given field paths.
// A path pointing at a map or slice applies fn to every string below it.
// Paths that do not resolve are skipped. An empty target list applies fn
// to every string value.
func ApplyToTargets(obj any, targets []string, fn func(string) string) any {
	if len(targets) == 0 {
		return WalkStrings(obj, fn)
	}

	for _, path := range targets {
		val, ok := GetFieldByPath(obj, path)
		if !ok {
			continue
		}
		switch v := val.(type) {
		case string:
			AssignFieldByPath(obj, path, fn(v))
		case map[string]any, []any:
			WalkStrings(v, fn)
		}
	}
	return obj
}
