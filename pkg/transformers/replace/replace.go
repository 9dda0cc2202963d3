// Package replace implements the replace_text operation: regex substitution
// over targeted string fields, with a literal fallback when the match
// parameter is not a valid regex.
package replace

import (
	"context"
	"regexp"
	"strings"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type ReplaceArguments struct {
	Match   string `json:"match" validate:"required"`
	Replace string `json:"replace"`
}

func NewReplaceTransformer(cfg models.StepConfig) (models.Transformer, error) {
	args, err := utils.ValidateArguments[ReplaceArguments](cfg.Parameters)
	if err != nil {
		return nil, errors.WrapPipelineError(err).AddOperation("replace_text")
	}

	t := &ReplaceTransformer{
		match:   args.Match,
		replace: args.Replace,
	}
	// an invalid pattern downgrades to plain string replacement
	if re, reErr := regexp.Compile(args.Match); reErr == nil {
		t.regex = re
	}
	return t, nil
}

type ReplaceTransformer struct {
	match   string
	replace string
	regex   *regexp.Regexp
}

func (t *ReplaceTransformer) Execute(ctx context.Context, data any, cfg models.StepConfig, tc *models.TransformContext) (any, error) {
	return utils.ApplyToTargets(data, cfg.TargetFields, t.transformString), nil
}

func (t *ReplaceTransformer) transformString(s string) string {
	// normalize line endings so \n patterns behave across platforms
	text := strings.ReplaceAll(s, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	if t.regex != nil {
		return t.regex.ReplaceAllString(text, t.replace)
	}
	return strings.ReplaceAll(text, t.match, t.replace)
}
