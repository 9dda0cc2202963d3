package storage

import "fmt"

// Key namespace shared by every backend. The layout is part of the external
// contract and must stay stable.
const (
	// RegisterKey is the transfer register document.
	RegisterKey = "registers/uploaded_records_transfer_register.json"
	// SuccessMarkerName signals that a step prefix holds complete output.
	SuccessMarkerName = "_SUCCESS"

	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain"
	ContentTypeGzip = "application/gzip"
)

// StepPrefix returns the output prefix for one step of an execution,
// trailing slash included.
func StepPrefix(executionID string, step int) string {
	return fmt.Sprintf("processed/%s/step_%d/", executionID, step)
}

// OutputKey returns the JSON output key for a record within a step.
func OutputKey(executionID string, step int, recordID string) string {
	return StepPrefix(executionID, step) + recordID + ".json"
}

// SuccessMarker returns the completion marker key for a step.
func SuccessMarker(executionID string, step int) string {
	return StepPrefix(executionID, step) + SuccessMarkerName
}

// TarballKey returns the upload key for a named archive of an execution.
func TarballKey(executionID, name string) string {
	return fmt.Sprintf("tarballs/%s/%s", executionID, name)
}
