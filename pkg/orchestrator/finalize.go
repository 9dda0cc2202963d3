package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/register"
	"github.com/Ramsey-B/fern/pkg/storage"
	"github.com/Ramsey-B/fern/pkg/tarball"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/utils"
)

// Finalize packs every record that completed the final step into tarballs
// and registers the records as transferred. The register is only updated
// after every archive upload succeeded, so a failed run can be repeated
// without losing records.
func (o *Orchestrator) Finalize(ctx context.Context, event models.FinalizeEvent) models.FinalizeResult {
	ctx, span := tracing.StartSpan(ctx, "orchestrator.finalize")
	defer span.End()

	result, err := o.finalize(ctx, event)
	if err != nil {
		o.logger.WithContext(ctx).WithError(err).WithField("execution_id", event.ExecutionID).Error("finalize failed")
		return models.FinalizeResult{
			StatusCode:  http.StatusInternalServerError,
			Status:      "failed",
			ExecutionID: event.ExecutionID,
			Error:       err.Error(),
		}
	}
	return result
}

func (o *Orchestrator) finalize(ctx context.Context, event models.FinalizeEvent) (models.FinalizeResult, error) {
	if _, err := utils.ValidateArguments[models.FinalizeEvent](event); err != nil {
		return models.FinalizeResult{}, err
	}

	byLevel, recordIDs, err := o.collectRecords(ctx, event)
	if err != nil {
		return models.FinalizeResult{}, err
	}
	if len(recordIDs) == 0 {
		return models.FinalizeResult{}, errors.NewPipelineErrorf(errors.CodeInputNotFound, "no completed records under %s", storage.StepPrefix(event.ExecutionID, event.FinalStep)).AddStep(event.FinalStep)
	}

	builder := tarball.NewBuilder(o.store, event.Bucket, event.TreeName, o.batchSize, o.logger)
	descriptors, err := builder.Create(ctx, event.ExecutionID, byLevel)
	if err != nil {
		return models.FinalizeResult{}, err
	}

	if err := o.registerRecords(ctx, event, recordIDs); err != nil {
		return models.FinalizeResult{}, err
	}

	if o.producer != nil {
		notification := kafka.NewTransferNotification(event.ExecutionID, event.TreeName, len(recordIDs), descriptors)
		if err := o.producer.Publish(ctx, notification); err != nil {
			// Archives are uploaded and records registered; a lost
			// notification is recoverable downstream, a rolled back
			// register is not.
			o.logger.WithContext(ctx).WithError(err).Error("failed to publish transfer notification")
		}
	}

	o.logger.WithContext(ctx).WithFields(map[string]any{
		"execution_id": event.ExecutionID,
		"tarballs":     len(descriptors),
		"records":      len(recordIDs),
	}).Info("finalize completed")

	return models.FinalizeResult{
		StatusCode:        http.StatusOK,
		Status:            "completed",
		ExecutionID:       event.ExecutionID,
		TarballsCreated:   len(descriptors),
		Tarballs:          descriptors,
		RecordsRegistered: len(recordIDs),
		Message:           fmt.Sprintf("created %d tarballs from %d records", len(descriptors), len(recordIDs)),
	}, nil
}

// collectRecords reads every final-step output and groups it by archival
// level. Marker objects are not records.
func (o *Orchestrator) collectRecords(ctx context.Context, event models.FinalizeEvent) (map[string][]models.LevelFile, []string, error) {
	prefix := storage.StepPrefix(event.ExecutionID, event.FinalStep)
	keys, err := o.store.ListObjects(ctx, event.Bucket, prefix)
	if err != nil {
		return nil, nil, err
	}

	byLevel := map[string][]models.LevelFile{}
	var recordIDs []string
	for _, key := range keys {
		if !strings.HasSuffix(key, ".json") {
			continue
		}

		raw, err := o.store.GetObject(ctx, event.Bucket, key)
		if err != nil {
			return nil, nil, err
		}

		var record map[string]any
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, nil, errors.NewPipelineErrorf(errors.CodeTransformation, "record '%s' is not a JSON object: %w", key, err).AddKey(key)
		}

		level := models.RecordLevel(record, event.LevelField)
		byLevel[level] = append(byLevel[level], models.LevelFile{
			Name:   models.RecordID(key) + ".json",
			Record: record,
		})
		recordIDs = append(recordIDs, models.RecordID(key))
	}

	return byLevel, recordIDs, nil
}

// registerRecords adds every transferred record to the register in one
// read-modify-write, under the distributed lock when one is configured.
func (o *Orchestrator) registerRecords(ctx context.Context, event models.FinalizeEvent, recordIDs []string) error {
	update := func() error {
		reg := register.New(o.store, event.Bucket, o.registerKey, o.logger)
		if err := reg.Load(ctx); err != nil {
			return err
		}
		reg.AddAll(recordIDs, event.ExecutionID)
		return reg.Save(ctx)
	}

	if o.locker == nil {
		return update()
	}
	return o.locker.WithLock(ctx, o.registerKey, o.lockTTL, o.lockTimeout, update)
}
