package convert

import (
	"context"
	"testing"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		xml      string
		expected map[string]any
	}{
		{
			name:     "leaf element",
			xml:      `<unittitle>Estate papers</unittitle>`,
			expected: map[string]any{"unittitle": "Estate papers"},
		},
		{
			name: "nested elements",
			xml:  `<did><unittitle>Estate papers</unittitle><unitid>ADM/123</unitid></did>`,
			expected: map[string]any{
				"did": map[string]any{
					"unittitle": "Estate papers",
					"unitid":    "ADM/123",
				},
			},
		},
		{
			name: "attributes",
			xml:  `<c level="fonds"><head>Papers</head></c>`,
			expected: map[string]any{
				"c": map[string]any{
					"@level": "fonds",
					"head":   "Papers",
				},
			},
		},
		{
			name: "repeated elements become arrays",
			xml:  `<scopecontent><p>one</p><p>two</p><p>three</p></scopecontent>`,
			expected: map[string]any{
				"scopecontent": map[string]any{
					"p": []any{"one", "two", "three"},
				},
			},
		},
		{
			name: "mixed content",
			xml:  `<p>intro <emph>word</emph></p>`,
			expected: map[string]any{
				"p": map[string]any{
					"emph":  "word",
					"#text": "intro",
				},
			},
		},
		{
			name: "attribute on leaf keeps element as object",
			xml:  `<unitid type="reference">ADM/123</unitid>`,
			expected: map[string]any{
				"unitid": map[string]any{
					"@type": "reference",
					"#text": "ADM/123",
				},
			},
		},
		{
			name:     "whitespace trimmed",
			xml:      "<unittitle>\n  Estate papers\n</unittitle>",
			expected: map[string]any{"unittitle": "Estate papers"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			doc, err := Parse(test.xml)
			require.NoError(t, err)
			assert.Equal(t, test.expected, doc)
		})
	}
}

func TestParseInvalidXML(t *testing.T) {
	_, err := Parse(`<unclosed>`)
	assert.Error(t, err)
}

func TestExecute(t *testing.T) {
	transformer, err := NewConvertTransformer(models.StepConfig{Operation: "convert"})
	require.NoError(t, err)

	t.Run("string input", func(t *testing.T) {
		result, err := transformer.Execute(context.Background(), `<c><head>x</head></c>`, models.StepConfig{}, nil)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"c": map[string]any{"head": "x"}}, result)
	})

	t.Run("byte input", func(t *testing.T) {
		result, err := transformer.Execute(context.Background(), []byte(`<head>x</head>`), models.StepConfig{}, nil)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"head": "x"}, result)
	})

	t.Run("non-string input", func(t *testing.T) {
		_, err := transformer.Execute(context.Background(), 42, models.StepConfig{}, nil)
		assert.Error(t, err)
	})
}
