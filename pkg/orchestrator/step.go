package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/register"
	"github.com/Ramsey-B/fern/pkg/storage"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/transformers/registry"
	"github.com/Ramsey-B/fern/pkg/utils"
)

// RunStep executes one transformation step for one record. Failures never
// escape as errors: every outcome is a status-coded StepResult so the
// calling workflow can branch on it.
func (o *Orchestrator) RunStep(ctx context.Context, event models.StepEvent) models.StepResult {
	ctx, span := tracing.StartSpan(ctx, fmt.Sprintf("orchestrator.step_%d", event.TransformationIndex))
	defer span.End()

	result, err := o.runStep(ctx, event)
	if err != nil {
		o.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"execution_id": event.ExecutionID,
			"step":         event.TransformationIndex,
			"key":          event.Key,
		}).Error("step failed")
		return models.StepResult{
			StatusCode:          http.StatusInternalServerError,
			ExecutionID:         event.ExecutionID,
			TransformationIndex: event.TransformationIndex,
			Error:               err.Error(),
		}
	}
	return result
}

func (o *Orchestrator) runStep(ctx context.Context, event models.StepEvent) (models.StepResult, error) {
	if _, err := utils.ValidateArguments[models.StepEvent](event); err != nil {
		return models.StepResult{}, err
	}
	if err := event.TransformationConfig.Validate(); err != nil {
		return models.StepResult{}, err
	}

	step := event.TransformationIndex
	stepConfig, ok := event.TransformationConfig.Step(step)
	if !ok {
		return models.StepResult{}, errors.NewPipelineErrorf(errors.CodeUnknownOperation, "no configuration for step %d", step).AddStep(step)
	}

	recordID := models.RecordID(event.Key)

	if step == 1 {
		skip, err := o.alreadyTransferred(ctx, event.Bucket, recordID)
		if err != nil {
			return models.StepResult{}, err
		}
		if skip {
			o.logger.WithContext(ctx).WithField("record_id", recordID).Info("record already transferred, skipping")
			return models.StepResult{
				StatusCode:          http.StatusOK,
				ExecutionID:         event.ExecutionID,
				TransformationIndex: step,
				Operation:           stepConfig.Operation,
				Skipped:             true,
				Reason:              fmt.Sprintf("record '%s' is already in the transfer register", recordID),
			}, nil
		}
	}

	data, err := o.loadInput(ctx, event, recordID)
	if err != nil {
		return models.StepResult{}, err
	}

	transformer, err := registry.GetTransformer(stepConfig.Operation, stepConfig)
	if err != nil {
		return models.StepResult{}, errors.WrapPipelineError(err).AddStep(step)
	}

	transformed, err := transformer.Execute(ctx, data, stepConfig, &models.TransformContext{
		Store:       o.store,
		Bucket:      event.Bucket,
		ExecutionID: event.ExecutionID,
		Step:        step,
	})
	if err != nil {
		return models.StepResult{}, errors.WrapPipelineError(err).AddOperation(stepConfig.Operation).AddStep(step).AddKey(event.Key)
	}

	outputKey, markerKey, err := o.writeOutput(ctx, event, recordID, transformed)
	if err != nil {
		return models.StepResult{}, err
	}

	o.logger.WithContext(ctx).WithFields(map[string]any{
		"execution_id": event.ExecutionID,
		"step":         step,
		"operation":    stepConfig.Operation,
		"output_key":   outputKey,
	}).Info("step completed")

	return models.StepResult{
		StatusCode:          http.StatusOK,
		ExecutionID:         event.ExecutionID,
		TransformationIndex: step,
		Operation:           stepConfig.Operation,
		OutputKey:           outputKey,
		SuccessMarker:       markerKey,
		Message:             fmt.Sprintf("step %d (%s) completed for '%s'", step, stepConfig.Operation, recordID),
	}, nil
}

// alreadyTransferred consults the transfer register. A corrupt register is
// fatal for the whole run, never treated as empty.
func (o *Orchestrator) alreadyTransferred(ctx context.Context, bucket, recordID string) (bool, error) {
	reg := register.New(o.store, bucket, o.registerKey, o.logger)
	if err := reg.Load(ctx); err != nil {
		return false, err
	}
	return reg.Contains(recordID), nil
}

// loadInput reads the record state for a step: the raw XML object on step 1,
// the previous step's JSON output afterwards. Step N requires step N-1 to
// have published its completion marker first.
func (o *Orchestrator) loadInput(ctx context.Context, event models.StepEvent, recordID string) (any, error) {
	step := event.TransformationIndex

	if step == 1 {
		raw, err := o.store.GetObject(ctx, event.Bucket, event.Key)
		if err != nil {
			if err == storage.ErrObjectNotFound {
				return nil, errors.NewPipelineErrorf(errors.CodeInputNotFound, "input object '%s' does not exist", event.Key).AddStep(step).AddKey(event.Key)
			}
			return nil, err
		}
		return string(raw), nil
	}

	markerKey := storage.SuccessMarker(event.ExecutionID, step-1)
	complete, err := o.store.HeadObject(ctx, event.Bucket, markerKey)
	if err != nil {
		return nil, err
	}
	if !complete {
		return nil, errors.NewPipelineErrorf(errors.CodeInputNotFound, "step %d has not completed (missing %s)", step-1, markerKey).AddStep(step)
	}

	inputKey := storage.OutputKey(event.ExecutionID, step-1, recordID)
	raw, err := o.store.GetObject(ctx, event.Bucket, inputKey)
	if err != nil {
		if err == storage.ErrObjectNotFound {
			return nil, errors.NewPipelineErrorf(errors.CodeInputNotFound, "output of step %d for record '%s' does not exist", step-1, recordID).AddStep(step).AddKey(inputKey)
		}
		return nil, err
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.NewPipelineErrorf(errors.CodeTransformation, "output of step %d for record '%s' is not valid JSON: %w", step-1, recordID, err).AddStep(step).AddKey(inputKey)
	}
	return data, nil
}

// writeOutput persists the transformed record, then publishes the step's
// completion marker. The marker is written last so a reader that sees it
// can trust the output object.
func (o *Orchestrator) writeOutput(ctx context.Context, event models.StepEvent, recordID string, data any) (string, string, error) {
	body, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", "", errors.NewPipelineErrorf(errors.CodeTransformation, "failed to serialize output for record '%s': %w", recordID, err).AddStep(event.TransformationIndex)
	}

	outputKey := storage.OutputKey(event.ExecutionID, event.TransformationIndex, recordID)
	if err := o.store.PutObject(ctx, event.Bucket, outputKey, body, storage.ContentTypeJSON); err != nil {
		return "", "", err
	}

	markerKey := storage.SuccessMarker(event.ExecutionID, event.TransformationIndex)
	if err := o.store.PutObject(ctx, event.Bucket, markerKey, []byte{}, storage.ContentTypeText); err != nil {
		return "", "", err
	}

	return outputKey, markerKey, nil
}
