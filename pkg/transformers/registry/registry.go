package registry

import (
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
)

// TransformerFactory builds a transformer for one step from its config.
type TransformerFactory func(cfg models.StepConfig) (models.Transformer, error)

// Transformers maps operation names to factories. Populated once at process
// start (transformers.Register) and treated as immutable afterwards.
var Transformers = map[string]TransformerFactory{}

// GetTransformer resolves the configured operation into a ready transformer.
func GetTransformer(operation string, cfg models.StepConfig) (models.Transformer, error) {
	factory, ok := Transformers[operation]
	if !ok {
		return nil, errors.NewPipelineErrorf(errors.CodeUnknownOperation, "unknown operation '%s'", operation).AddOperation(operation)
	}
	return factory(cfg)
}
