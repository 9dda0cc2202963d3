package kafka

import (
	"encoding/json"
	"testing"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferNotificationToJSON(t *testing.T) {
	msg := NewTransferNotification("exec-1", "oaktree", 12, []models.ArchiveDescriptor{
		{Name: "oaktree_fonds_12.tar.gz", Level: "fonds", FileCount: 12, SizeBytes: 2048, StorageKey: "tarballs/exec-1/oaktree_fonds_12.tar.gz"},
	})

	data, err := msg.ToJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "exec-1", decoded["execution_id"])
	assert.Equal(t, "oaktree", decoded["tree_name"])
	assert.Equal(t, float64(12), decoded["record_count"])

	archives, ok := decoded["archives"].([]any)
	require.True(t, ok)
	require.Len(t, archives, 1)
	archive := archives[0].(map[string]any)
	assert.Equal(t, "oaktree_fonds_12.tar.gz", archive["name"])
	assert.Equal(t, "tarballs/exec-1/oaktree_fonds_12.tar.gz", archive["storage_key"])
	assert.False(t, msg.Timestamp.IsZero())
}
