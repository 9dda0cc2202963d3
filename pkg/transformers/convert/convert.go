// Package convert turns an XML catalogue document into the generic JSON
// shape the rest of the transformation chain operates on: elements become
// keys, repeated elements become arrays, attributes are stored under
// "@name" and mixed text content under "#text".
package convert

import (
	"context"
	"encoding/xml"
	"strings"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
)

func NewConvertTransformer(cfg models.StepConfig) (models.Transformer, error) {
	return &ConvertTransformer{}, nil
}

type ConvertTransformer struct{}

func (t *ConvertTransformer) Execute(ctx context.Context, data any, cfg models.StepConfig, tc *models.TransformContext) (any, error) {
	var raw string
	switch v := data.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return nil, errors.NewPipelineErrorf(errors.CodeTransformation, "convert expects an XML string, got %T", data)
	}

	doc, err := Parse(raw)
	if err != nil {
		return nil, errors.NewPipelineErrorf(errors.CodeTransformation, "failed to parse XML: %w", err)
	}
	return doc, nil
}

// Parse decodes an XML document into a map keyed by the root element name.
func Parse(raw string) (map[string]any, error) {
	decoder := xml.NewDecoder(strings.NewReader(raw))

	for {
		tok, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			value, err := parseElement(decoder, start)
			if err != nil {
				return nil, err
			}
			return map[string]any{start.Name.Local: value}, nil
		}
	}
}

func parseElement(decoder *xml.Decoder, start xml.StartElement) (any, error) {
	obj := map[string]any{}
	for _, attr := range start.Attr {
		obj["@"+attr.Name.Local] = attr.Value
	}

	var text strings.Builder
	for {
		tok, err := decoder.Token()
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			child, err := parseElement(decoder, t)
			if err != nil {
				return nil, err
			}
			appendChild(obj, t.Name.Local, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			content := strings.TrimSpace(text.String())
			if len(obj) == 0 {
				// leaf element: plain string value
				return content, nil
			}
			if content != "" {
				obj["#text"] = content
			}
			return obj, nil
		}
	}
}

// appendChild adds a child value under name, promoting to an array on the
// second occurrence.
func appendChild(obj map[string]any, name string, child any) {
	existing, ok := obj[name]
	if !ok {
		obj[name] = child
		return
	}
	if list, ok := existing.([]any); ok {
		obj[name] = append(list, child)
		return
	}
	obj[name] = []any{existing, child}
}
