package render

import (
	"fmt"

	"github.com/goliatone/go-kintone-schema/pkg/kintone"
)

// FieldBadge is the presentation of one field: its icon and CSS class.
type FieldBadge struct {
	Icon  string
	Class string
}

// Badge picks the icon and class for a field. Required and unique flags win
// over the type icon.
func Badge(fieldType kintone.FieldType, required, unique bool) FieldBadge {
	switch {
	case required && unique:
		return FieldBadge{Icon: "🔑", Class: "field key"}
	case required:
		return FieldBadge{Icon: "🔴", Class: "field required"}
	case unique:
		return FieldBadge{Icon: "💎", Class: "field unique"}
	}
	return FieldBadge{Icon: TypeIcon(fieldType), Class: "field"}
}

// TypeIcon maps a field type onto its legend icon.
func TypeIcon(fieldType kintone.FieldType) string {
	switch fieldType {
	case kintone.FieldTypeNumber, kintone.FieldTypeCalc:
		return "🔢"
	case kintone.FieldTypeDate, kintone.FieldTypeTime, kintone.FieldTypeDateTime:
		return "📅"
	case kintone.FieldTypeCheckBox:
		return "✅️"
	case kintone.FieldTypeDropDown, kintone.FieldTypeRadioButton, kintone.FieldTypeMultiSelect:
		return "📋"
	case kintone.FieldTypeFile:
		return "📎"
	case kintone.FieldTypeLink:
		return "🔗"
	case kintone.FieldTypeUserSelect:
		return "👤"
	case kintone.FieldTypeOrganizationSelect:
		return "🏢"
	case kintone.FieldTypeGroupSelect:
		return "👥"
	case kintone.FieldTypeSubtable:
		return "📊"
	case kintone.FieldTypeReferenceTable:
		return "🔍"
	default:
		return "📝"
	}
}

// DisplayName shows the label alone when it equals the code, otherwise
// "label (code)".
func DisplayName(code, label string) string {
	if label == "" || label == code {
		return code
	}
	return fmt.Sprintf("%s (%s)", label, code)
}
