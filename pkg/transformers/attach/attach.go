// Package attach implements the attach_json operation: fetching an
// externally stored JSON object keyed by a field of the record and merging
// it in. A missing attachment object is a no-op, not an error.
package attach

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/storage"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type PromoteField struct {
	Source      string `json:"source" validate:"required"`
	Destination string `json:"destination" validate:"required"`
}

type AttachArguments struct {
	SourceBucket  string         `json:"source_bucket"`
	SourcePrefix  string         `json:"source_prefix"`
	SourceIDPath  string         `json:"source_id_path" validate:"required"`
	AttachmentKey string         `json:"attachment_key" validate:"required"`
	PromoteFields []PromoteField `json:"promote_fields" validate:"omitempty,dive"`
}

func NewAttachTransformer(cfg models.StepConfig) (models.Transformer, error) {
	args, err := utils.ValidateArguments[AttachArguments](cfg.Parameters)
	if err != nil {
		return nil, errors.WrapPipelineError(err).AddOperation("attach_json")
	}
	return &AttachTransformer{args: args}, nil
}

type AttachTransformer struct {
	args AttachArguments
}

func (t *AttachTransformer) Execute(ctx context.Context, data any, cfg models.StepConfig, tc *models.TransformContext) (any, error) {
	record, ok := data.(map[string]any)
	if !ok {
		return nil, errors.NewPipelineErrorf(errors.CodeTransformation, "attach_json expects a JSON record, got %T", data).AddOperation("attach_json")
	}
	if tc == nil || tc.Store == nil {
		return nil, errors.NewPipelineError(errors.CodeTransformation, "attach_json requires a storage handle in the transform context").AddOperation("attach_json")
	}

	idValue, found := utils.GetFieldByPath(record, t.args.SourceIDPath)
	sourceID, _ := idValue.(string)
	if !found || sourceID == "" {
		// nothing to look up; leave the record untouched
		return record, nil
	}

	bucket := t.args.SourceBucket
	if bucket == "" {
		bucket = tc.Bucket
	}

	body, err := tc.Store.GetObject(ctx, bucket, t.objectKey(sourceID))
	if err != nil {
		if err == storage.ErrObjectNotFound {
			return record, nil
		}
		return nil, errors.NewPipelineErrorf(errors.CodeTransformation, "failed to fetch attachment for '%s': %w", sourceID, err).AddOperation("attach_json")
	}

	var attachment map[string]any
	if err := json.Unmarshal(body, &attachment); err != nil {
		return nil, errors.NewPipelineErrorf(errors.CodeTransformation, "attachment for '%s' is not valid JSON: %w", sourceID, err).AddOperation("attach_json")
	}

	utils.EnsureFieldByPath(record, t.args.AttachmentKey, attachment)

	for _, promote := range t.args.PromoteFields {
		if value, ok := utils.GetFieldByPath(attachment, promote.Source); ok {
			utils.EnsureFieldByPath(record, promote.Destination, value)
		}
	}

	return record, nil
}

func (t *AttachTransformer) objectKey(sourceID string) string {
	key := sourceID + ".json"
	prefix := strings.Trim(t.args.SourcePrefix, "/")
	if prefix != "" {
		return prefix + "/" + key
	}
	return key
}
