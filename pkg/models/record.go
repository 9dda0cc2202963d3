package models

import (
	"path"
	"strings"
)

// DefaultLevelField is the record field used to group archives when the
// finalize event does not override it.
const DefaultLevelField = "level"

// DefaultLevel groups records whose level field is missing or not a string.
const DefaultLevel = "default"

// RecordID extracts the stable record identifier from an object key: the
// base file name without its extension ("xml_input/C123.xml" -> "C123").
func RecordID(key string) string {
	base := path.Base(key)
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// RecordLevel returns the archival level of a record for archive grouping.
func RecordLevel(record map[string]any, levelField string) string {
	if levelField == "" {
		levelField = DefaultLevelField
	}
	if level, ok := record[levelField].(string); ok && level != "" {
		return level
	}
	return DefaultLevel
}
