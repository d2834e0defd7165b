package kintone

// FieldType enumerates the kintone field kinds reported in form documents.
type FieldType string

const (
	FieldTypeSingleLineText     FieldType = "SINGLE_LINE_TEXT"
	FieldTypeMultiLineText      FieldType = "MULTI_LINE_TEXT"
	FieldTypeRichText           FieldType = "RICH_TEXT"
	FieldTypeNumber             FieldType = "NUMBER"
	FieldTypeDecimal            FieldType = "DECIMAL"
	FieldTypeCalc               FieldType = "CALC"
	FieldTypeDate               FieldType = "DATE"
	FieldTypeTime               FieldType = "TIME"
	FieldTypeDateTime           FieldType = "DATETIME"
	FieldTypeDropDown           FieldType = "DROP_DOWN"
	FieldTypeRadioButton        FieldType = "RADIO_BUTTON"
	FieldTypeCheckBox           FieldType = "CHECK_BOX"
	FieldTypeMultiSelect        FieldType = "MULTI_SELECT"
	FieldTypeUserSelect         FieldType = "USER_SELECT"
	FieldTypeOrganizationSelect FieldType = "ORGANIZATION_SELECT"
	FieldTypeGroupSelect        FieldType = "GROUP_SELECT"
	FieldTypeFile               FieldType = "FILE"
	FieldTypeLink               FieldType = "LINK"
	FieldTypeRecordNumber       FieldType = "RECORD_NUMBER"
	FieldTypeCreator            FieldType = "CREATOR"
	FieldTypeCreatedTime        FieldType = "CREATED_TIME"
	FieldTypeModifier           FieldType = "MODIFIER"
	FieldTypeUpdatedTime        FieldType = "UPDATED_TIME"
	FieldTypeStatus             FieldType = "STATUS"
	FieldTypeStatusAssignee     FieldType = "STATUS_ASSIGNEE"
	FieldTypeCategory           FieldType = "CATEGORY"
	FieldTypeLookup             FieldType = "LOOKUP"
	FieldTypeSubtable           FieldType = "SUBTABLE"
	FieldTypeReferenceTable     FieldType = "REFERENCE_TABLE"
	FieldTypeGroup              FieldType = "GROUP"
)

// FieldProperty is a single entry of the properties map.
type FieldProperty struct {
	Code     string    `json:"code"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
	Unique   bool      `json:"unique"`
	// Fields holds the column definitions of a SUBTABLE property.
	Fields *Properties `json:"fields,omitempty"`
}

// DisplayLabel returns the label, falling back to the field code.
func (p FieldProperty) DisplayLabel(code string) string {
	if p.Label != "" {
		return p.Label
	}
	if p.Code != "" {
		return p.Code
	}
	return code
}

// NodeKind tags layout entries.
type NodeKind string

const (
	NodeRow      NodeKind = "ROW"
	NodeGroup    NodeKind = "GROUP"
	NodeSubtable NodeKind = "SUBTABLE"
)

// LayoutNode is one entry of a form layout. ROW and SUBTABLE nodes reference
// fields through Fields; GROUP nodes nest further nodes under Layout. A nil
// Layout on a GROUP means the document omitted the list entirely.
type LayoutNode struct {
	Type   NodeKind     `json:"type"`
	Code   string       `json:"code,omitempty"`
	Fields []FieldRef   `json:"fields,omitempty"`
	Layout []LayoutNode `json:"layout,omitempty"`
}

// FieldRef points at a field from within a ROW or SUBTABLE node. Decorative
// elements (LABEL, SPACER, HR) carry no code.
type FieldRef struct {
	Type  string `json:"type"`
	Code  string `json:"code,omitempty"`
	Label string `json:"label,omitempty"`
}

// FieldsDocument mirrors app_form_fields.json.
type FieldsDocument struct {
	Properties Properties `json:"properties"`
	Revision   string     `json:"revision,omitempty"`
}

// LayoutDocument mirrors app_form_layout.json.
type LayoutDocument struct {
	Layout   []LayoutNode `json:"layout"`
	Revision string       `json:"revision,omitempty"`
}
