package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWalkStrings(t *testing.T) {
	record := map[string]any{
		"title": "estate",
		"nested": map[string]any{
			"p":     []any{"one", "two", 3},
			"count": 7,
		},
	}

	WalkStrings(record, strings.ToUpper)

	assert.Equal(t, "ESTATE", record["title"])
	nested := record["nested"].(map[string]any)
	assert.Equal(t, []any{"ONE", "TWO", 3}, nested["p"])
	assert.Equal(t, 7, nested["count"])
}

func TestWalkStringsBareString(t *testing.T) {
	assert.Equal(t, "X", WalkStrings("x", strings.ToUpper))
}

func TestApplyToTargetsNilWalksEverything(t *testing.T) {
	record := map[string]any{"a": "x", "b": map[string]any{"c": "y"}}

	ApplyToTargets(record, nil, strings.ToUpper)

	assert.Equal(t, "X", record["a"])
	assert.Equal(t, "Y", record["b"].(map[string]any)["c"])
}

func TestApplyToTargetsEmptyWalksEverything(t *testing.T) {
	record := map[string]any{"a": "x"}

	ApplyToTargets(record, []string{}, strings.ToUpper)

	assert.Equal(t, "X", record["a"])
}

func TestApplyToTargetsSelectedPaths(t *testing.T) {
	record := map[string]any{
		"keep":  "untouched",
		"did":   map[string]any{"unittitle": "estate"},
		"notes": []any{"one", "two"},
	}

	ApplyToTargets(record, []string{"did.unittitle", "notes", "missing.path"}, strings.ToUpper)

	assert.Equal(t, "untouched", record["keep"])
	assert.Equal(t, "ESTATE", record["did"].(map[string]any)["unittitle"])
	assert.Equal(t, []any{"ONE", "TWO"}, record["notes"])
}
