package models

import "time"

// RegisterEntry marks one record as delivered downstream.
type RegisterEntry struct {
	RecordID    string    `json:"record_id"`
	ProcessedAt time.Time `json:"processed_at"`
	ExecutionID string    `json:"execution_id"`
}

// RegisterDocument is the persisted transfer register: record id -> entry,
// stored as one JSON object and rewritten whole on every update.
type RegisterDocument struct {
	Records   map[string]RegisterEntry `json:"records"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// NewRegisterDocument returns an empty register document.
func NewRegisterDocument() *RegisterDocument {
	return &RegisterDocument{Records: map[string]RegisterEntry{}}
}
