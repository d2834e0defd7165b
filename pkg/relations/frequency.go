package relations

import (
	"sort"

	"github.com/goliatone/go-kintone-schema/pkg/extract"
	"github.com/goliatone/go-kintone-schema/pkg/kintone"
)

// Occurrence records one app declaring a field code.
type Occurrence struct {
	App      string            `json:"app"`
	Type     kintone.FieldType `json:"type"`
	Required bool              `json:"required"`
}

// FieldFrequency pairs a field code with every app declaring it.
type FieldFrequency struct {
	Code        string       `json:"code"`
	Occurrences []Occurrence `json:"occurrences"`
}

// Count is the number of apps declaring the field.
func (f FieldFrequency) Count() int {
	return len(f.Occurrences)
}

// FrequencyTable aggregates field occurrences across apps. Codes keep the
// order in which they were first seen.
type FrequencyTable struct {
	order []string
	byKey map[string][]Occurrence
}

// NewFrequencyTable returns an empty table.
func NewFrequencyTable() *FrequencyTable {
	return &FrequencyTable{byKey: make(map[string][]Occurrence)}
}

// Add records every field of app.
func (t *FrequencyTable) Add(app string, fields []extract.Field) {
	for _, field := range fields {
		t.Record(field.Code, Occurrence{App: app, Type: field.Type, Required: field.Required})
	}
}

// Record appends a single occurrence for code.
func (t *FrequencyTable) Record(code string, occ Occurrence) {
	if t.byKey == nil {
		t.byKey = make(map[string][]Occurrence)
	}
	if _, seen := t.byKey[code]; !seen {
		t.order = append(t.order, code)
	}
	t.byKey[code] = append(t.byKey[code], occ)
}

// Get returns the occurrences recorded for code.
func (t *FrequencyTable) Get(code string) []Occurrence {
	if t == nil {
		return nil
	}
	return t.byKey[code]
}

// Len reports the number of distinct field codes.
func (t *FrequencyTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Entries lists every field in first-seen order.
func (t *FrequencyTable) Entries() []FieldFrequency {
	if t == nil {
		return nil
	}
	out := make([]FieldFrequency, 0, len(t.order))
	for _, code := range t.order {
		out = append(out, FieldFrequency{Code: code, Occurrences: t.byKey[code]})
	}
	return out
}

// Common lists fields declared by more than one app, most shared first. Ties
// keep first-seen order.
func (t *FrequencyTable) Common() []FieldFrequency {
	var out []FieldFrequency
	for _, entry := range t.Entries() {
		if entry.Count() > 1 {
			out = append(out, entry)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count() > out[j].Count()
	})
	return out
}
