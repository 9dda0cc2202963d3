package models

// LevelFile pairs a record's file name with its finished JSON content, ready
// for archive assembly.
type LevelFile struct {
	Name   string
	Record map[string]any
}

// ArchiveDescriptor describes one uploaded tarball.
type ArchiveDescriptor struct {
	Name       string `json:"name"`
	Level      string `json:"level"`
	FileCount  int    `json:"file_count"`
	SizeBytes  int    `json:"size_bytes"`
	StorageKey string `json:"storage_key"`
}
