package extract

import "github.com/goliatone/go-kintone-schema/pkg/kintone"

// Policy decides what happens to definitions the layout never references.
type Policy string

const (
	// PolicyLayoutAuthoritative omits fields that are not placed on the
	// layout. This matches what a user of the form can actually see.
	PolicyLayoutAuthoritative Policy = "layout-authoritative"
	// PolicyUnionWithDefinitions appends unplaced definitions as a trailing
	// group so newly added fields still show up in documentation.
	PolicyUnionWithDefinitions Policy = "union-with-definitions"
)

// ParsePolicy maps configuration strings onto a Policy. Empty input yields
// the default.
func ParsePolicy(raw string) (Policy, bool) {
	switch Policy(raw) {
	case "", PolicyLayoutAuthoritative:
		return PolicyLayoutAuthoritative, true
	case PolicyUnionWithDefinitions:
		return PolicyUnionWithDefinitions, true
	default:
		return "", false
	}
}

// Grouping decides where a run of ROW nodes is split into display groups.
type Grouping string

const (
	// GroupByRow closes a group at the end of every ROW, so a multi-field
	// group means "fields sharing a row".
	GroupByRow Grouping = "row"
	// GroupBySection keeps adjacent rows in one group until a GROUP or
	// SUBTABLE boundary, or the end of the enclosing level.
	GroupBySection Grouping = "section"
)

// ParseGrouping maps configuration strings onto a Grouping. Empty input
// yields the default.
func ParseGrouping(raw string) (Grouping, bool) {
	switch Grouping(raw) {
	case "", GroupByRow:
		return GroupByRow, true
	case GroupBySection:
		return GroupBySection, true
	default:
		return "", false
	}
}

// Field is a definition positioned by the extraction pass.
type Field struct {
	Code       string            `json:"code"`
	Label      string            `json:"label"`
	Type       kintone.FieldType `json:"type"`
	Required   bool              `json:"required"`
	Unique     bool              `json:"unique"`
	GroupIndex int               `json:"groupIndex"`
	GroupName  string            `json:"groupName,omitempty"`
	IsSubtable bool              `json:"isSubtable,omitempty"`
	// Columns lists the inner fields of a subtable in layout order. Columns
	// never appear in Result.Fields.
	Columns []Field `json:"columns,omitempty"`
}

// Group is a display cluster of fields. GroupName is empty for fields that
// sit at the top level of the form.
type Group struct {
	Index        int     `json:"index"`
	Fields       []Field `json:"fields"`
	IsMultiField bool    `json:"isMultiField"`
	IsSubtable   bool    `json:"isSubtable"`
	GroupName    string  `json:"groupName,omitempty"`
}

// DiagnosticKind classifies non-fatal findings.
type DiagnosticKind string

const (
	DanglingReference DiagnosticKind = "dangling_reference"
	UnplacedField     DiagnosticKind = "unplaced_field"
)

// Diagnostic records a data inconsistency found while walking the layout.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Code    string         `json:"code"`
	Group   string         `json:"group,omitempty"`
	Message string         `json:"message"`
}

// Result is the outcome of a single extraction pass.
type Result struct {
	Fields      []Field      `json:"fields"`
	Groups      []Group      `json:"layoutGroups"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}
