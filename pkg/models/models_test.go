package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordID(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{"xml_input/C123.xml", "C123"},
		{"processed/exec/step_2/C123.json", "C123"},
		{"C123", "C123"},
		{"dir/name.with.dots.xml", "name.with.dots"},
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, RecordID(test.key), test.key)
	}
}

func TestRecordLevel(t *testing.T) {
	assert.Equal(t, "fonds", RecordLevel(map[string]any{"level": "fonds"}, ""))
	assert.Equal(t, "series", RecordLevel(map[string]any{"tier": "series"}, "tier"))
	assert.Equal(t, DefaultLevel, RecordLevel(map[string]any{}, ""))
	assert.Equal(t, DefaultLevel, RecordLevel(map[string]any{"level": 3}, ""))
	assert.Equal(t, DefaultLevel, RecordLevel(map[string]any{"level": ""}, ""))
}

func TestTransformationConfigValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := TransformationConfig{
			"1": {Operation: "convert"},
			"2": {Operation: "replace_text"},
		}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, 2, cfg.FinalStep())
	})

	t.Run("empty", func(t *testing.T) {
		assert.Error(t, TransformationConfig{}.Validate())
	})

	t.Run("gap in indices", func(t *testing.T) {
		cfg := TransformationConfig{
			"1": {Operation: "convert"},
			"3": {Operation: "replace_text"},
		}
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing operation", func(t *testing.T) {
		cfg := TransformationConfig{
			"1": {},
		}
		assert.Error(t, cfg.Validate())
	})
}

func TestTransformationConfigStep(t *testing.T) {
	cfg := TransformationConfig{"1": {Operation: "convert"}}

	step, ok := cfg.Step(1)
	require.True(t, ok)
	assert.Equal(t, "convert", step.Operation)

	_, ok = cfg.Step(2)
	assert.False(t, ok)
}
