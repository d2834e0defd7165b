package kintone

import (
	"bytes"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Properties is an insertion-ordered map of field code to definition.
type Properties struct {
	m *orderedmap.OrderedMap[string, FieldProperty]
}

// NewProperties builds an ordered map from the provided definitions. The
// property Code is used as key; later duplicates replace earlier values but
// keep the first position.
func NewProperties(props ...FieldProperty) *Properties {
	out := &Properties{}
	for _, prop := range props {
		out.Set(prop.Code, prop)
	}
	return out
}

// Set stores a definition under code, appending new codes at the end.
func (p *Properties) Set(code string, prop FieldProperty) {
	if p.m == nil {
		p.m = orderedmap.New[string, FieldProperty]()
	}
	if prop.Code == "" {
		prop.Code = code
	}
	p.m.Set(code, prop)
}

// Get looks up a definition by field code.
func (p *Properties) Get(code string) (FieldProperty, bool) {
	if p == nil || p.m == nil || code == "" {
		return FieldProperty{}, false
	}
	return p.m.Get(code)
}

// Keys returns the field codes in document order.
func (p *Properties) Keys() []string {
	if p.Len() == 0 {
		return nil
	}
	keys := make([]string, 0, p.m.Len())
	for pair := p.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Len reports the number of definitions.
func (p *Properties) Len() int {
	if p == nil || p.m == nil {
		return 0
	}
	return p.m.Len()
}

// Each visits definitions in document order until fn returns false.
func (p *Properties) Each(fn func(code string, prop FieldProperty) bool) {
	if p.Len() == 0 {
		return
	}
	for pair := p.m.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// UnmarshalJSON decodes a JSON object while recording key order. Entries
// without an explicit code take their key.
func (p *Properties) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = Properties{}
		return nil
	}
	m := orderedmap.New[string, FieldProperty]()
	if err := m.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("kintone: properties: %w", err)
	}
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.Code == "" {
			pair.Value.Code = pair.Key
		}
	}
	*p = Properties{m: m}
	return nil
}

// MarshalJSON encodes the definitions as an object in document order.
func (p Properties) MarshalJSON() ([]byte, error) {
	if p.m == nil {
		return []byte("{}"), nil
	}
	return p.m.MarshalJSON()
}
