// Package kafka publishes transfer notifications announcing finished
// tarball batches to downstream ingest consumers.
package kafka

import (
	"encoding/json"
	"time"

	"github.com/Ramsey-B/fern/pkg/models"
)

// TransferNotification announces a completed finalize run: the archives
// created and the records newly registered.
type TransferNotification struct {
	ExecutionID string                     `json:"execution_id"`
	TreeName    string                     `json:"tree_name"`
	RecordCount int                        `json:"record_count"`
	Archives    []models.ArchiveDescriptor `json:"archives"`
	Timestamp   time.Time                  `json:"timestamp"`
}

// NewTransferNotification builds a notification for a finalize run
func NewTransferNotification(executionID, treeName string, recordCount int, archives []models.ArchiveDescriptor) *TransferNotification {
	return &TransferNotification{
		ExecutionID: executionID,
		TreeName:    treeName,
		RecordCount: recordCount,
		Archives:    archives,
		Timestamp:   time.Now().UTC(),
	}
}

// ToJSON serializes the notification
func (n *TransferNotification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}
