package affix

import (
	"context"
	"testing"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAffix(t *testing.T) {
	transformer, err := NewAffixTransformer(models.StepConfig{
		Operation:  "add_affix",
		Parameters: map[string]any{"prefix": "<p>", "suffix": "</p>"},
	})
	require.NoError(t, err)

	result, err := transformer.Execute(context.Background(), map[string]any{
		"scopecontent": "text",
	}, models.StepConfig{TargetFields: []string{"scopecontent"}}, nil)

	require.NoError(t, err)
	assert.Equal(t, "<p>text</p>", result.(map[string]any)["scopecontent"])
}

func TestAffixPrefixOnly(t *testing.T) {
	transformer, err := NewAffixTransformer(models.StepConfig{
		Operation:  "add_affix",
		Parameters: map[string]any{"prefix": "Y"},
	})
	require.NoError(t, err)

	result, err := transformer.Execute(context.Background(), "ref", models.StepConfig{}, nil)

	require.NoError(t, err)
	assert.Equal(t, "Yref", result)
}

func TestAffixRequiresPrefixOrSuffix(t *testing.T) {
	_, err := NewAffixTransformer(models.StepConfig{
		Operation:  "add_affix",
		Parameters: map[string]any{},
	})
	assert.Error(t, err)
}
