package extract

import (
	"fmt"
	"log/slog"

	"github.com/goliatone/go-kintone-schema/pkg/kintone"
)

// Extract positions every field of props according to layout. A nil layout
// means the app has no layout document: fields are returned in property
// order with group index 0 and no groups. A non-nil, empty layout is a
// layout that places nothing.
func Extract(props *kintone.Properties, layout []kintone.LayoutNode, options ...Option) Result {
	cfg := newConfig(options)

	if layout == nil {
		cfg.logger.Debug("no layout available, using definition order", "fields", props.Len())
		return Result{Fields: flatFields(props), Groups: []Group{}}
	}

	w := walker{props: props, grouping: cfg.grouping, logger: cfg.logger}
	state := w.walk(walkState{}, layout, "")

	if cfg.policy == PolicyUnionWithDefinitions {
		state = w.appendUnplaced(state)
	}

	cfg.logger.Debug("layout groups created",
		"groups", len(state.groups),
		"fields", len(state.fields),
		"diagnostics", len(state.diags),
	)

	if state.fields == nil {
		state.fields = []Field{}
	}
	if state.groups == nil {
		state.groups = []Group{}
	}
	return Result{Fields: state.fields, Groups: state.groups, Diagnostics: state.diags}
}

// walkState is threaded through every level of the walk.
type walkState struct {
	fields []Field
	groups []Group
	diags  []Diagnostic
	next   int
}

type walker struct {
	props    *kintone.Properties
	grouping Grouping
	logger   *slog.Logger
}

func (w walker) walk(state walkState, nodes []kintone.LayoutNode, groupName string) walkState {
	var pending []Field

	for _, node := range nodes {
		switch node.Type {
		case kintone.NodeRow:
			for _, ref := range node.Fields {
				if ref.Code == "" {
					continue
				}
				prop, ok := w.props.Get(ref.Code)
				if !ok {
					state = w.dangling(state, ref.Code, groupName)
					continue
				}
				field := newField(ref.Code, prop, state.next, groupName)
				pending = append(pending, field)
				state.fields = append(state.fields, field)
			}
			if w.grouping == GroupByRow {
				state = flush(state, pending, groupName)
				pending = nil
			}

		case kintone.NodeGroup:
			if node.Layout == nil {
				continue
			}
			state = flush(state, pending, groupName)
			pending = nil
			state = w.walk(state, node.Layout, node.Code)

		case kintone.NodeSubtable:
			if node.Code == "" {
				continue
			}
			prop, ok := w.props.Get(node.Code)
			if !ok {
				state = w.dangling(state, node.Code, groupName)
				continue
			}
			state = flush(state, pending, groupName)
			pending = nil

			field := newField(node.Code, prop, state.next, groupName)
			field.IsSubtable = true
			field.Columns = w.columns(node, prop, state.next, groupName)

			state.fields = append(state.fields, field)
			state.groups = append(state.groups, Group{
				Index:      state.next,
				Fields:     []Field{field},
				IsSubtable: true,
				GroupName:  groupName,
			})
			state.next++
		}
	}

	return flush(state, pending, groupName)
}

// flush closes the pending buffer as a group when it holds any field.
func flush(state walkState, pending []Field, groupName string) walkState {
	if len(pending) == 0 {
		return state
	}
	state.groups = append(state.groups, Group{
		Index:        state.next,
		Fields:       pending,
		IsMultiField: len(pending) > 1,
		GroupName:    groupName,
	})
	state.next++
	return state
}

func (w walker) dangling(state walkState, code, groupName string) walkState {
	msg := fmt.Sprintf("field %q found in layout but not in field definitions", code)
	w.logger.Warn(msg, "code", code, "group", groupName)
	state.diags = append(state.diags, Diagnostic{
		Kind:    DanglingReference,
		Code:    code,
		Group:   groupName,
		Message: msg,
	})
	return state
}

func (w walker) columns(node kintone.LayoutNode, table kintone.FieldProperty, index int, groupName string) []Field {
	if table.Fields == nil {
		return nil
	}
	var out []Field
	if len(node.Fields) == 0 {
		table.Fields.Each(func(code string, prop kintone.FieldProperty) bool {
			out = append(out, newField(code, prop, index, groupName))
			return true
		})
		return out
	}
	for _, ref := range node.Fields {
		if ref.Code == "" {
			continue
		}
		prop, ok := table.Fields.Get(ref.Code)
		if !ok {
			w.logger.Warn("subtable column found in layout but not in definitions",
				"subtable", node.Code, "code", ref.Code)
			continue
		}
		out = append(out, newField(ref.Code, prop, index, groupName))
	}
	return out
}

func (w walker) appendUnplaced(state walkState) walkState {
	placed := make(map[string]struct{}, len(state.fields))
	for _, field := range state.fields {
		placed[field.Code] = struct{}{}
	}

	var pending []Field
	w.props.Each(func(code string, prop kintone.FieldProperty) bool {
		if _, ok := placed[code]; ok {
			return true
		}
		field := newField(code, prop, state.next, "")
		if prop.Type == kintone.FieldTypeSubtable {
			field.IsSubtable = true
			field.Columns = w.columns(kintone.LayoutNode{Code: code}, prop, state.next, "")
		}
		pending = append(pending, field)
		state.fields = append(state.fields, field)
		state.diags = append(state.diags, Diagnostic{
			Kind:    UnplacedField,
			Code:    code,
			Message: fmt.Sprintf("field %q is defined but not placed on the layout", code),
		})
		return true
	})

	return flush(state, pending, "")
}

func flatFields(props *kintone.Properties) []Field {
	out := make([]Field, 0, props.Len())
	props.Each(func(code string, prop kintone.FieldProperty) bool {
		field := newField(code, prop, 0, "")
		if prop.Type == kintone.FieldTypeSubtable {
			field.IsSubtable = true
			if prop.Fields != nil {
				prop.Fields.Each(func(colCode string, col kintone.FieldProperty) bool {
					field.Columns = append(field.Columns, newField(colCode, col, 0, ""))
					return true
				})
			}
		}
		out = append(out, field)
		return true
	})
	return out
}

func newField(code string, prop kintone.FieldProperty, index int, groupName string) Field {
	return Field{
		Code:       code,
		Label:      prop.DisplayLabel(code),
		Type:       prop.Type,
		Required:   prop.Required,
		Unique:     prop.Unique,
		GroupIndex: index,
		GroupName:  groupName,
	}
}
