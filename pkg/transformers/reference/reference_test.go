package reference

import (
	"context"
	"testing"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceTransformer(t *testing.T) {
	transformer, err := NewReferenceTransformer(models.StepConfig{
		Operation: "reference_affix",
		Parameters: map[string]any{
			"prefix":          "Y",
			"definitive_refs": []any{"ADM", "WO"},
		},
	})
	require.NoError(t, err)

	record := map[string]any{
		"did": map[string]any{"unitid": "ADM/123/456"},
		"scopecontent": map[string]any{
			"p": []any{"see WO/1 and FO/2", "nothing here"},
		},
	}

	result, err := transformer.Execute(context.Background(), record, models.StepConfig{
		TargetFields: []string{"did.unitid", "scopecontent.p"},
	}, nil)

	require.NoError(t, err)
	out := result.(map[string]any)
	assert.Equal(t, "YADM/123/456", out["did"].(map[string]any)["unitid"])
	p := out["scopecontent"].(map[string]any)["p"].([]any)
	assert.Equal(t, "see YWO/1 and FO/2", p[0])
	assert.Equal(t, "nothing here", p[1])
}

func TestReferenceTransformerAllFields(t *testing.T) {
	transformer, err := NewReferenceTransformer(models.StepConfig{
		Operation:  "reference_affix",
		Parameters: map[string]any{"prefix": "Y"},
	})
	require.NoError(t, err)

	result, err := transformer.Execute(context.Background(), map[string]any{
		"a": "ADM/1",
		"b": map[string]any{"c": "WO/2"},
	}, models.StepConfig{}, nil)

	require.NoError(t, err)
	out := result.(map[string]any)
	assert.Equal(t, "YADM/1", out["a"])
	assert.Equal(t, "YWO/2", out["b"].(map[string]any)["c"])
}

func TestReferenceTransformerInvalidRules(t *testing.T) {
	_, err := NewReferenceTransformer(models.StepConfig{
		Operation: "reference_affix",
		Parameters: map[string]any{
			"exclusion_patterns": []any{"("},
		},
	})
	assert.Error(t, err)
}
