// Package reference implements the reference_affix operation: validated
// rewriting of archival reference codes (e.g. "ADM/123/456" -> "YADM/123/456")
// under syntactic and lexical rules. The rules are supplied per step; see
// Rules for the full surface.
package reference

import (
	"context"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

func NewReferenceTransformer(cfg models.StepConfig) (models.Transformer, error) {
	rules, err := utils.ParseArguments[Rules](cfg.Parameters)
	if err != nil {
		return nil, errors.WrapPipelineError(err).AddOperation("reference_affix")
	}

	engine, err := NewEngine(rules)
	if err != nil {
		return nil, errors.WrapPipelineError(err).AddOperation("reference_affix")
	}

	return &ReferenceTransformer{engine: engine}, nil
}

type ReferenceTransformer struct {
	engine *Engine
}

func (t *ReferenceTransformer) Execute(ctx context.Context, data any, cfg models.StepConfig, tc *models.TransformContext) (any, error) {
	return utils.ApplyToTargets(data, cfg.TargetFields, t.engine.Apply), nil
}
