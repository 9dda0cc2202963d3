// Package affix implements the add_affix operation: unconditional
// prefix/suffix on targeted string fields. For validated reference
// rewriting use the reference package instead.
package affix

import (
	"context"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type AffixArguments struct {
	Prefix string `json:"prefix"`
	Suffix string `json:"suffix"`
}

func NewAffixTransformer(cfg models.StepConfig) (models.Transformer, error) {
	args, err := utils.ParseArguments[AffixArguments](cfg.Parameters)
	if err != nil {
		return nil, errors.WrapPipelineError(err).AddOperation("add_affix")
	}

	if args.Prefix == "" && args.Suffix == "" {
		return nil, errors.NewPipelineError(errors.CodeTransformation, "add_affix requires a prefix and/or suffix parameter").AddOperation("add_affix")
	}

	return &AffixTransformer{
		prefix: args.Prefix,
		suffix: args.Suffix,
	}, nil
}

type AffixTransformer struct {
	prefix string
	suffix string
}

func (t *AffixTransformer) Execute(ctx context.Context, data any, cfg models.StepConfig, tc *models.TransformContext) (any, error) {
	return utils.ApplyToTargets(data, cfg.TargetFields, func(s string) string {
		return t.prefix + s + t.suffix
	}), nil
}
