package kintone

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoProperties reports a fields document without a properties object.
var ErrNoProperties = errors.New("kintone: fields document has no properties")

// DecodeFields parses an app_form_fields.json payload.
func DecodeFields(data []byte) (FieldsDocument, error) {
	var raw struct {
		Properties *Properties `json:"properties"`
		Revision   string      `json:"revision"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return FieldsDocument{}, fmt.Errorf("kintone: decode fields: %w", err)
	}
	if raw.Properties == nil {
		return FieldsDocument{}, ErrNoProperties
	}
	return FieldsDocument{Properties: *raw.Properties, Revision: raw.Revision}, nil
}

// DecodeLayout parses an app_form_layout.json payload. A document without a
// layout list decodes to a nil Layout so callers can fall back to property
// order.
func DecodeLayout(data []byte) (LayoutDocument, error) {
	var doc LayoutDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return LayoutDocument{}, fmt.Errorf("kintone: decode layout: %w", err)
	}
	return doc, nil
}
