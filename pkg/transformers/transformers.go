package transformers

import (
	"github.com/Gobusters/ectolinq"
	"github.com/Ramsey-B/fern/pkg/transformers/affix"
	"github.com/Ramsey-B/fern/pkg/transformers/attach"
	"github.com/Ramsey-B/fern/pkg/transformers/convert"
	"github.com/Ramsey-B/fern/pkg/transformers/reference"
	"github.com/Ramsey-B/fern/pkg/transformers/registry"
	"github.com/Ramsey-B/fern/pkg/transformers/replace"
)

const (
	ConvertOperation        = "convert"
	ReplaceTextOperation    = "replace_text"
	AddAffixOperation       = "add_affix"
	ReferenceAffixOperation = "reference_affix"
	AttachJSONOperation     = "attach_json"
)

type TransformerDefinition struct {
	Key         string                      `json:"key" validate:"required"`
	Name        string                      `json:"name" validate:"required"`
	Description string                      `json:"description" validate:"required"`
	Factory     registry.TransformerFactory `json:"-"`
}

var TransformerDefinitions = map[string]TransformerDefinition{
	ConvertOperation: {
		Key:         ConvertOperation,
		Name:        "XML Converter",
		Description: "Converts an XML document into its JSON representation",
		Factory:     convert.NewConvertTransformer,
	},
	ReplaceTextOperation: {
		Key:         ReplaceTextOperation,
		Name:        "Text Replace",
		Description: "Replaces regex matches in the targeted string fields",
		Factory:     replace.NewReplaceTransformer,
	},
	AddAffixOperation: {
		Key:         AddAffixOperation,
		Name:        "Simple Affix",
		Description: "Prepends and/or appends fixed text to the targeted string fields",
		Factory:     affix.NewAffixTransformer,
	},
	ReferenceAffixOperation: {
		Key:         ReferenceAffixOperation,
		Name:        "Reference Affix",
		Description: "Rewrites validated archival reference codes with a prefix/suffix",
		Factory:     reference.NewReferenceTransformer,
	},
	AttachJSONOperation: {
		Key:         AttachJSONOperation,
		Name:        "JSON Attachment",
		Description: "Attaches an externally stored JSON object to the record",
		Factory:     attach.NewAttachTransformer,
	},
}

// Register installs every definition into the registry. Call once at
// process start before resolving operations.
func Register() {
	for _, def := range TransformerDefinitions {
		registry.Transformers[def.Key] = def.Factory
	}
}

// Operations returns the registered operation keys.
func Operations() []string {
	keys := make([]string, 0, len(TransformerDefinitions))
	for _, def := range ectolinq.Values(TransformerDefinitions) {
		keys = append(keys, def.Key)
	}
	return keys
}
