package gotemplate

import (
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-kintone-schema/pkg/kintone"
	"github.com/goliatone/go-kintone-schema/pkg/render"
)

func registerFieldFilters() {
	filters := map[string]pongo2.FilterFunction{
		"trim":         filterTrim,
		"fieldicon":    filterFieldIcon,
		"fieldclass":   filterFieldClass,
		"fielddisplay": filterFieldDisplay,
		"typelabel":    filterTypeLabel,
	}
	for name, fn := range filters {
		if !pongo2.FilterExists(name) {
			_ = pongo2.RegisterFilter(name, fn)
		}
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

func filterFieldIcon(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	f := fieldFromValue(in.Interface())
	return pongo2.AsValue(render.Badge(f.typ, f.required, f.unique).Icon), nil
}

func filterFieldClass(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	f := fieldFromValue(in.Interface())
	return pongo2.AsValue(render.Badge(f.typ, f.required, f.unique).Class), nil
}

func filterFieldDisplay(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	f := fieldFromValue(in.Interface())
	return pongo2.AsValue(render.DisplayName(f.code, f.label)), nil
}

// typelabel accepts either a field or a bare type string.
func filterTypeLabel(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.IsString() {
		return pongo2.AsValue(kintone.FieldType(in.String()).Label()), nil
	}
	return pongo2.AsValue(fieldFromValue(in.Interface()).typ.Label()), nil
}

type fieldValue struct {
	code     string
	label    string
	typ      kintone.FieldType
	required bool
	unique   bool
}

// fieldFromValue reads the JSON shape of extract.Field as seen by templates.
func fieldFromValue(v any) fieldValue {
	m, ok := v.(map[string]any)
	if !ok {
		return fieldValue{}
	}
	str := func(key string) string {
		s, _ := m[key].(string)
		return s
	}
	flag := func(key string) bool {
		b, _ := m[key].(bool)
		return b
	}
	return fieldValue{
		code:     str("code"),
		label:    str("label"),
		typ:      kintone.FieldType(str("type")),
		required: flag("required"),
		unique:   flag("unique"),
	}
}
