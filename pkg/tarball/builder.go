// Package tarball packs fully transformed records into size-bounded
// tar.gz archives and uploads them for downstream ingest.
package tarball

import (
	"archive/tar"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/storage"
	"github.com/klauspost/compress/gzip"
)

const DefaultBatchSize = 10000

type Builder struct {
	store     storage.ObjectStore
	bucket    string
	treeName  string
	batchSize int
	logger    ectologger.Logger
}

func NewBuilder(store storage.ObjectStore, bucket, treeName string, batchSize int, logger ectologger.Logger) *Builder {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Builder{
		store:     store,
		bucket:    bucket,
		treeName:  treeName,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Create packs the given records, grouped by level, into archives of at
// most batchSize files each and uploads every archive. Archive names carry
// the cumulative file count within the level, so a level with 25000
// records at batch size 10000 produces archives ending _10000, _20000 and
// _25000. Levels are processed in sorted order so repeated runs over the
// same input produce the same archive set.
func (b *Builder) Create(ctx context.Context, executionID string, byLevel map[string][]models.LevelFile) ([]models.ArchiveDescriptor, error) {
	levels := make([]string, 0, len(byLevel))
	for level := range byLevel {
		levels = append(levels, level)
	}
	sort.Strings(levels)

	var descriptors []models.ArchiveDescriptor
	for _, level := range levels {
		files := byLevel[level]
		cumulative := 0
		for start := 0; start < len(files); start += b.batchSize {
			end := start + b.batchSize
			if end > len(files) {
				end = len(files)
			}
			batch := files[start:end]
			cumulative += len(batch)

			name := fmt.Sprintf("%s_%s_%d.tar.gz", b.treeName, level, cumulative)
			desc, err := b.uploadBatch(ctx, executionID, name, level, batch)
			if err != nil {
				return nil, err
			}
			descriptors = append(descriptors, desc)
		}
	}

	b.logger.WithContext(ctx).WithFields(map[string]any{
		"execution_id": executionID,
		"archives":     len(descriptors),
	}).Info("created tarballs")
	return descriptors, nil
}

func (b *Builder) uploadBatch(ctx context.Context, executionID, name, level string, files []models.LevelFile) (models.ArchiveDescriptor, error) {
	body, err := pack(files)
	if err != nil {
		return models.ArchiveDescriptor{}, errors.NewPipelineErrorf(errors.CodeArchiveUpload, "failed to build archive %s: %w", name, err)
	}

	key := storage.TarballKey(executionID, name)
	if err := b.store.PutObject(ctx, b.bucket, key, body, storage.ContentTypeGzip); err != nil {
		return models.ArchiveDescriptor{}, errors.NewPipelineErrorf(errors.CodeArchiveUpload, "failed to upload archive %s: %w", name, err).AddKey(key)
	}

	b.logger.WithContext(ctx).WithFields(map[string]any{
		"archive": name,
		"level":   level,
		"files":   len(files),
		"bytes":   len(body),
	}).Info("uploaded tarball")

	return models.ArchiveDescriptor{
		Name:       name,
		Level:      level,
		FileCount:  len(files),
		SizeBytes:  len(body),
		StorageKey: key,
	}, nil
}

// pack writes each record as a pretty-printed JSON member of a tar.gz
// stream. Member names are the record file names.
func pack(files []models.LevelFile) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	now := time.Now().UTC()
	for _, file := range files {
		content, err := json.MarshalIndent(file.Record, "", "  ")
		if err != nil {
			return nil, err
		}
		header := &tar.Header{
			Name:    file.Name,
			Mode:    0o644,
			Size:    int64(len(content)),
			ModTime: now,
		}
		if err := tw.WriteHeader(header); err != nil {
			return nil, err
		}
		if _, err := tw.Write(content); err != nil {
			return nil, err
		}
	}

	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
