package models

import (
	"context"

	"github.com/Ramsey-B/fern/pkg/storage"
)

// TransformContext carries the runtime handles a transformer may need for
// external lookups (e.g. attaching stored metadata to a record).
type TransformContext struct {
	Store       storage.ObjectStore
	Bucket      string
	ExecutionID string
	Step        int
}

// Transformer is the single capability every registered operation exposes.
// Data is the record under transformation: an XML string on step 1, a
// decoded JSON document afterwards. Implementations mutate and return it.
type Transformer interface {
	Execute(ctx context.Context, data any, cfg StepConfig, tc *TransformContext) (any, error)
}
