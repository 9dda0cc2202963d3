package register

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func newStore(t *testing.T) storage.ObjectStore {
	t.Helper()
	return storage.NewFilesystemStore(t.TempDir(), testLogger())
}

func TestRegisterLoadMissing(t *testing.T) {
	store := newStore(t)
	reg := New(store, "bucket", "", testLogger())

	err := reg.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, reg.Len())
	assert.False(t, reg.Contains("anything"))
}

func TestRegisterLoadCorrupt(t *testing.T) {
	store := newStore(t)
	err := store.PutObject(context.Background(), "bucket", storage.RegisterKey, []byte("{not json"), storage.ContentTypeJSON)
	require.NoError(t, err)

	reg := New(store, "bucket", "", testLogger())
	err = reg.Load(context.Background())

	require.Error(t, err)
	assert.True(t, errors.IsRegisterCorrupt(err))
}

func TestRegisterRoundTrip(t *testing.T) {
	store := newStore(t)
	reg := New(store, "bucket", "", testLogger())
	require.NoError(t, reg.Load(context.Background()))

	reg.AddAll([]string{"rec-1", "rec-2"}, "exec-abc")
	require.NoError(t, reg.Save(context.Background()))

	fresh := New(store, "bucket", "", testLogger())
	require.NoError(t, fresh.Load(context.Background()))

	assert.Equal(t, 2, fresh.Len())
	assert.True(t, fresh.Contains("rec-1"))
	assert.True(t, fresh.Contains("rec-2"))
	assert.False(t, fresh.Contains("rec-3"))
}

func TestRegisterAddAllOverwritesEntry(t *testing.T) {
	store := newStore(t)
	reg := New(store, "bucket", "", testLogger())
	require.NoError(t, reg.Load(context.Background()))

	reg.AddAll([]string{"rec-1"}, "exec-1")
	reg.AddAll([]string{"rec-1"}, "exec-2")
	require.NoError(t, reg.Save(context.Background()))

	body, err := store.GetObject(context.Background(), "bucket", storage.RegisterKey)
	require.NoError(t, err)

	var doc models.RegisterDocument
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Len(t, doc.Records, 1)
	assert.Equal(t, "exec-2", doc.Records["rec-1"].ExecutionID)
}

func TestRegisterCustomKey(t *testing.T) {
	store := newStore(t)
	reg := New(store, "bucket", "registers/other.json", testLogger())
	require.NoError(t, reg.Load(context.Background()))

	reg.AddAll([]string{"rec-9"}, "exec-x")
	require.NoError(t, reg.Save(context.Background()))

	exists, err := store.HeadObject(context.Background(), "bucket", "registers/other.json")
	require.NoError(t, err)
	assert.True(t, exists)
}
