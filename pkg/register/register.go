// Package register maintains the transfer register: the durable set of
// record ids already delivered downstream, used for duplicate suppression
// across pipeline runs. The register is a single JSON document in blob
// storage, read fully, mutated, and written back whole. Only the finalize
// phase writes it (single-writer discipline); step 1 reads it to decide
// skip-vs-process.
package register

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/storage"
)

type Register struct {
	store  storage.ObjectStore
	bucket string
	key    string
	logger ectologger.Logger
	doc    *models.RegisterDocument
}

// New creates a register bound to one storage key. Key defaults to the
// shared register document location.
func New(store storage.ObjectStore, bucket, key string, logger ectologger.Logger) *Register {
	if key == "" {
		key = storage.RegisterKey
	}
	return &Register{
		store:  store,
		bucket: bucket,
		key:    key,
		logger: logger,
	}
}

// Load reads the register document. A missing document is an empty
// register; an unreadable one halts processing with CodeRegisterCorrupt,
// because treating it as empty would let duplicates through.
func (r *Register) Load(ctx context.Context) error {
	body, err := r.store.GetObject(ctx, r.bucket, r.key)
	if err != nil {
		if err == storage.ErrObjectNotFound {
			r.logger.WithContext(ctx).Infof("No transfer register at %s, starting empty", r.key)
			r.doc = models.NewRegisterDocument()
			return nil
		}
		return err
	}

	doc := models.NewRegisterDocument()
	if err := json.Unmarshal(body, doc); err != nil {
		return errors.NewPipelineErrorf(errors.CodeRegisterCorrupt, "transfer register at %s is not valid JSON: %w", r.key, err).AddKey(r.key)
	}
	if doc.Records == nil {
		doc.Records = map[string]models.RegisterEntry{}
	}

	r.doc = doc
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"key":     r.key,
		"records": len(doc.Records),
	}).Info("loaded transfer register")
	return nil
}

// Contains reports whether a record id has already been delivered. Load
// must have been called first.
func (r *Register) Contains(recordID string) bool {
	if r.doc == nil {
		return false
	}
	_, ok := r.doc.Records[recordID]
	return ok
}

// Len returns the number of registered records.
func (r *Register) Len() int {
	if r.doc == nil {
		return 0
	}
	return len(r.doc.Records)
}

// AddAll records every id as delivered by the given execution. Save must
// be called to persist.
func (r *Register) AddAll(recordIDs []string, executionID string) {
	if r.doc == nil {
		r.doc = models.NewRegisterDocument()
	}
	now := time.Now().UTC()
	for _, id := range recordIDs {
		r.doc.Records[id] = models.RegisterEntry{
			RecordID:    id,
			ProcessedAt: now,
			ExecutionID: executionID,
		}
	}
}

// Save writes the document back whole. Callers must serialize Save calls
// per register key.
func (r *Register) Save(ctx context.Context) error {
	if r.doc == nil {
		r.doc = models.NewRegisterDocument()
	}
	r.doc.UpdatedAt = time.Now().UTC()

	body, err := json.MarshalIndent(r.doc, "", "  ")
	if err != nil {
		return err
	}

	if err := r.store.PutObject(ctx, r.bucket, r.key, body, storage.ContentTypeJSON); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to save transfer register")
		return err
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"key":     r.key,
		"records": len(r.doc.Records),
	}).Info("saved transfer register")
	return nil
}
