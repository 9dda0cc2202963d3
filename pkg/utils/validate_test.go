package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testArgs struct {
	Match   string `json:"match" validate:"required"`
	Replace string `json:"replace"`
}

func TestParseArguments(t *testing.T) {
	t.Run("from map", func(t *testing.T) {
		args, err := ParseArguments[testArgs](map[string]any{"match": "a", "replace": "b"})
		require.NoError(t, err)
		assert.Equal(t, "a", args.Match)
		assert.Equal(t, "b", args.Replace)
	})

	t.Run("already typed", func(t *testing.T) {
		args, err := ParseArguments[testArgs](testArgs{Match: "a"})
		require.NoError(t, err)
		assert.Equal(t, "a", args.Match)
	})

	t.Run("wrong shape", func(t *testing.T) {
		_, err := ParseArguments[testArgs]([]any{"not", "a", "struct"})
		assert.Error(t, err)
	})
}

func TestValidateArguments(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		_, err := ValidateArguments[testArgs](map[string]any{"match": "a"})
		assert.NoError(t, err)
	})

	t.Run("missing required", func(t *testing.T) {
		_, err := ValidateArguments[testArgs](map[string]any{"replace": "b"})
		assert.Error(t, err)
	})
}
