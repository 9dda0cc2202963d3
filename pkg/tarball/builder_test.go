package tarball

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/storage"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func makeFiles(count int) []models.LevelFile {
	files := make([]models.LevelFile, count)
	for i := range files {
		files[i] = models.LevelFile{
			Name:   fmt.Sprintf("rec-%05d.json", i),
			Record: map[string]any{"id": fmt.Sprintf("rec-%05d", i)},
		}
	}
	return files
}

func TestCreateBatchesByCumulativeCount(t *testing.T) {
	store := storage.NewFilesystemStore(t.TempDir(), testLogger())
	builder := NewBuilder(store, "bucket", "oaktree", 10000, testLogger())

	descriptors, err := builder.Create(context.Background(), "exec-1", map[string][]models.LevelFile{
		"fonds": makeFiles(25000),
	})

	require.NoError(t, err)
	require.Len(t, descriptors, 3)
	assert.Equal(t, "oaktree_fonds_10000.tar.gz", descriptors[0].Name)
	assert.Equal(t, "oaktree_fonds_20000.tar.gz", descriptors[1].Name)
	assert.Equal(t, "oaktree_fonds_25000.tar.gz", descriptors[2].Name)
	assert.Equal(t, 10000, descriptors[0].FileCount)
	assert.Equal(t, 10000, descriptors[1].FileCount)
	assert.Equal(t, 5000, descriptors[2].FileCount)

	for _, desc := range descriptors {
		assert.Equal(t, storage.TarballKey("exec-1", desc.Name), desc.StorageKey)
		exists, err := store.HeadObject(context.Background(), "bucket", desc.StorageKey)
		require.NoError(t, err)
		assert.True(t, exists)
	}
}

func TestCreateGroupsByLevelSorted(t *testing.T) {
	store := storage.NewFilesystemStore(t.TempDir(), testLogger())
	builder := NewBuilder(store, "bucket", "oaktree", 100, testLogger())

	descriptors, err := builder.Create(context.Background(), "exec-2", map[string][]models.LevelFile{
		"series": makeFiles(3),
		"fonds":  makeFiles(2),
	})

	require.NoError(t, err)
	require.Len(t, descriptors, 2)
	assert.Equal(t, "oaktree_fonds_2.tar.gz", descriptors[0].Name)
	assert.Equal(t, "oaktree_series_3.tar.gz", descriptors[1].Name)
}

func TestCreateArchiveContents(t *testing.T) {
	store := storage.NewFilesystemStore(t.TempDir(), testLogger())
	builder := NewBuilder(store, "bucket", "oaktree", 100, testLogger())

	descriptors, err := builder.Create(context.Background(), "exec-3", map[string][]models.LevelFile{
		"item": {
			{Name: "a.json", Record: map[string]any{"id": "a"}},
			{Name: "b.json", Record: map[string]any{"id": "b"}},
		},
	})
	require.NoError(t, err)
	require.Len(t, descriptors, 1)

	body, err := store.GetObject(context.Background(), "bucket", descriptors[0].StorageKey)
	require.NoError(t, err)

	gz, err := gzip.NewReader(bytes.NewReader(body))
	require.NoError(t, err)
	tr := tar.NewReader(gz)

	var names []string
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, header.Name)
		content, err := io.ReadAll(tr)
		require.NoError(t, err)
		assert.Contains(t, string(content), `"id"`)
	}
	assert.Equal(t, []string{"a.json", "b.json"}, names)
}

func TestCreateEmptyInput(t *testing.T) {
	store := storage.NewFilesystemStore(t.TempDir(), testLogger())
	builder := NewBuilder(store, "bucket", "oaktree", 0, testLogger())

	descriptors, err := builder.Create(context.Background(), "exec-4", map[string][]models.LevelFile{})

	require.NoError(t, err)
	assert.Empty(t, descriptors)
}
