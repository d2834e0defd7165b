package ginue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/goliatone/go-kintone-schema/pkg/kintone"
)

const (
	fieldsFileName = "app_form_fields.json"
	formFileName   = "form.json"
)

// pathEscaper escapes the characters gjson and sjson treat as path syntax.
var pathEscaper = strings.NewReplacer(
	`\`, `\\`,
	`.`, `\.`,
	`*`, `\*`,
	`?`, `\?`,
	`|`, `\|`,
	`#`, `\#`,
	`@`, `\@`,
	`!`, `\!`,
	`=`, `\=`,
	`<`, `\<`,
	`>`, `\>`,
	`%`, `\%`,
	`:`, `\:`,
)

func memberPath(parent, key string) string {
	return parent + "." + pathEscaper.Replace(key)
}

func isReferenceTable(item gjson.Result) bool {
	return item.Get("type").String() == string(kintone.FieldTypeReferenceTable)
}

func parseObject(name string, data []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("ginue: decode %s: invalid json", name)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return gjson.Result{}, fmt.Errorf("ginue: decode %s: expected object", name)
	}
	return doc, nil
}

// FilterFields removes REFERENCE_TABLE entries from the properties of an
// app_form_fields.json document. It returns the rewritten document and the
// codes that were dropped.
func FilterFields(data []byte) ([]byte, []string, error) {
	doc, err := parseObject(fieldsFileName, data)
	if err != nil {
		return nil, nil, err
	}
	props := doc.Get("properties")
	if !props.Exists() {
		return encode(data, nil)
	}
	if !props.IsObject() {
		return nil, nil, fmt.Errorf("ginue: decode %s properties: expected object", fieldsFileName)
	}

	var dropped []string
	props.ForEach(func(key, value gjson.Result) bool {
		if isReferenceTable(value) {
			dropped = append(dropped, key.String())
		}
		return true
	})

	out := data
	for _, code := range dropped {
		if out, err = sjson.DeleteBytes(out, memberPath("properties", code)); err != nil {
			return nil, nil, fmt.Errorf("ginue: drop %q from %s: %w", code, fieldsFileName, err)
		}
	}
	return encode(out, dropped)
}

// FilterForm removes REFERENCE_TABLE items from the properties array of a
// form.json document.
func FilterForm(data []byte) ([]byte, []string, error) {
	doc, err := parseObject(formFileName, data)
	if err != nil {
		return nil, nil, err
	}
	props := doc.Get("properties")
	if !props.IsArray() {
		// missing or not an array, leave the document untouched
		return encode(data, nil)
	}

	var (
		dropped []string
		indexes []int
	)
	idx := 0
	props.ForEach(func(_, item gjson.Result) bool {
		if isReferenceTable(item) {
			dropped = append(dropped, item.Get("code").String())
			indexes = append(indexes, idx)
		}
		idx++
		return true
	})

	out := data
	for i := len(indexes) - 1; i >= 0; i-- {
		if out, err = sjson.DeleteBytes(out, "properties."+strconv.Itoa(indexes[i])); err != nil {
			return nil, nil, fmt.Errorf("ginue: drop item %d from %s: %w", indexes[i], formFileName, err)
		}
	}
	return encode(out, dropped)
}

func encode(doc []byte, dropped []string) ([]byte, []string, error) {
	var out bytes.Buffer
	if err := json.Indent(&out, bytes.TrimSpace(doc), "", "  "); err != nil {
		return nil, nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), dropped, nil
}

// stage returns the payload pushed for a design file.
func stage(name string, data []byte) ([]byte, []string, error) {
	switch name {
	case fieldsFileName:
		return FilterFields(data)
	case formFileName:
		return FilterForm(data)
	default:
		return data, nil, nil
	}
}
