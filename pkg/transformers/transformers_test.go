package transformers

import (
	"testing"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/transformers/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	Register()

	for key := range TransformerDefinitions {
		assert.Contains(t, registry.Transformers, key)
	}

	transformer, err := registry.GetTransformer(ConvertOperation, models.StepConfig{Operation: ConvertOperation})
	require.NoError(t, err)
	assert.NotNil(t, transformer)
}

func TestGetTransformerUnknownOperation(t *testing.T) {
	Register()

	_, err := registry.GetTransformer("frobnicate", models.StepConfig{Operation: "frobnicate"})

	require.Error(t, err)
	assert.True(t, errors.IsUnknownOperation(err))
}

func TestOperations(t *testing.T) {
	ops := Operations()

	assert.Len(t, ops, len(TransformerDefinitions))
	assert.Contains(t, ops, ConvertOperation)
	assert.Contains(t, ops, ReferenceAffixOperation)
}
