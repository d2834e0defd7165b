package extract

import (
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-kintone-schema/pkg/kintone"
)

func quietLogger() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func text(code string) kintone.FieldProperty {
	return kintone.FieldProperty{Code: code, Label: code, Type: kintone.FieldTypeSingleLineText}
}

func row(codes ...string) kintone.LayoutNode {
	refs := make([]kintone.FieldRef, 0, len(codes))
	for _, code := range codes {
		refs = append(refs, kintone.FieldRef{Type: "SINGLE_LINE_TEXT", Code: code})
	}
	return kintone.LayoutNode{Type: kintone.NodeRow, Fields: refs}
}

func group(name string, nodes ...kintone.LayoutNode) kintone.LayoutNode {
	if nodes == nil {
		nodes = []kintone.LayoutNode{}
	}
	return kintone.LayoutNode{Type: kintone.NodeGroup, Code: name, Layout: nodes}
}

func codes(fields []Field) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Code)
	}
	return out
}

func groupIndexes(fields []Field) []int {
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.GroupIndex)
	}
	return out
}

func TestExtract_PreservesRowOrder(t *testing.T) {
	props := kintone.NewProperties(text("A"), text("B"), text("C"))
	layout := []kintone.LayoutNode{row("A", "B"), row("C")}

	result := Extract(props, layout, quietLogger())

	if diff := cmp.Diff([]string{"A", "B", "C"}, codes(result.Fields)); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 0, 1}, groupIndexes(result.Fields)); diff != "" {
		t.Fatalf("group index mismatch (-want +got):\n%s", diff)
	}
	if len(result.Groups) != 2 || !result.Groups[0].IsMultiField || result.Groups[1].IsMultiField {
		t.Fatalf("unexpected groups: %+v", result.Groups)
	}
}

func TestExtract_SectionGroupingMergesAdjacentRows(t *testing.T) {
	props := kintone.NewProperties(text("A"), text("B"), text("C"))
	layout := []kintone.LayoutNode{row("A", "B"), row("C")}

	result := Extract(props, layout, WithGrouping(GroupBySection), quietLogger())

	if diff := cmp.Diff([]int{0, 0, 0}, groupIndexes(result.Fields)); diff != "" {
		t.Fatalf("group index mismatch (-want +got):\n%s", diff)
	}
	if len(result.Groups) != 1 || !result.Groups[0].IsMultiField {
		t.Fatalf("expected a single multi-field group, got %+v", result.Groups)
	}
}

func TestExtract_SectionGroupingSplitsOnGroupBoundary(t *testing.T) {
	props := kintone.NewProperties(text("A"), text("B"), text("C"))
	layout := []kintone.LayoutNode{
		row("A"),
		row("B"),
		group("empty"),
		row("C"),
	}

	result := Extract(props, layout, WithGrouping(GroupBySection), quietLogger())

	if diff := cmp.Diff([]string{"A", "B", "C"}, codes(result.Fields)); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 0, 1}, groupIndexes(result.Fields)); diff != "" {
		t.Fatalf("group index mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_GroupNodeClosesPendingFields(t *testing.T) {
	props := kintone.NewProperties(text("A"), text("B"), text("C"))
	layout := []kintone.LayoutNode{
		row("A"),
		group("G", row("B")),
		row("C"),
	}

	result := Extract(props, layout, quietLogger())

	type view struct {
		Index     int
		Codes     []string
		Multi     bool
		GroupName string
	}
	got := make([]view, 0, len(result.Groups))
	for _, g := range result.Groups {
		got = append(got, view{Index: g.Index, Codes: codes(g.Fields), Multi: g.IsMultiField, GroupName: g.GroupName})
	}
	want := []view{
		{Index: 0, Codes: []string{"A"}},
		{Index: 1, Codes: []string{"B"}, GroupName: "G"},
		{Index: 2, Codes: []string{"C"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}

	if result.Fields[1].GroupName != "G" {
		t.Fatalf("expected field B to carry enclosing group name, got %q", result.Fields[1].GroupName)
	}
	if result.Fields[2].GroupName != "" {
		t.Fatalf("expected field C at top level, got %q", result.Fields[2].GroupName)
	}
}

func TestExtract_NestedGroupsUseInnermostName(t *testing.T) {
	props := kintone.NewProperties(text("A"), text("B"), text("C"))
	layout := []kintone.LayoutNode{
		group("outer", row("A"), group("inner", row("B")), row("C")),
	}

	result := Extract(props, layout, quietLogger())

	want := []string{"outer", "inner", "outer"}
	got := make([]string, 0, len(result.Fields))
	for _, f := range result.Fields {
		got = append(got, f.GroupName)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("group names mismatch (-want +got):\n%s", diff)
	}
	if len(result.Groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(result.Groups))
	}
	for i, g := range result.Groups {
		if g.Index != i {
			t.Fatalf("group %d has index %d", i, g.Index)
		}
	}
}

func TestExtract_SubtableIsolation(t *testing.T) {
	table := kintone.FieldProperty{
		Code:   "明細",
		Label:  "明細",
		Type:   kintone.FieldTypeSubtable,
		Fields: kintone.NewProperties(text("品名"), kintone.FieldProperty{Code: "数量", Type: kintone.FieldTypeNumber}),
	}
	props := kintone.NewProperties(text("A"), text("B"), table, text("C"))
	layout := []kintone.LayoutNode{
		row("A", "B"),
		{
			Type: kintone.NodeSubtable,
			Code: "明細",
			Fields: []kintone.FieldRef{
				{Type: "NUMBER", Code: "数量"},
				{Type: "SINGLE_LINE_TEXT", Code: "品名"},
			},
		},
		row("C"),
	}

	result := Extract(props, layout, quietLogger())

	if len(result.Groups) != 3 {
		t.Fatalf("expected 3 groups, got %d: %+v", len(result.Groups), result.Groups)
	}
	first, sub, last := result.Groups[0], result.Groups[1], result.Groups[2]
	if diff := cmp.Diff([]string{"A", "B"}, codes(first.Fields)); diff != "" {
		t.Fatalf("pending fields not flushed before subtable (-want +got):\n%s", diff)
	}
	if !sub.IsSubtable || sub.IsMultiField || len(sub.Fields) != 1 || sub.Fields[0].Code != "明細" {
		t.Fatalf("unexpected subtable group: %+v", sub)
	}
	if !sub.Fields[0].IsSubtable {
		t.Fatalf("expected subtable field flag")
	}
	if diff := cmp.Diff([]string{"数量", "品名"}, codes(sub.Fields[0].Columns)); diff != "" {
		t.Fatalf("column order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"C"}, codes(last.Fields)); diff != "" {
		t.Fatalf("trailing group mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A", "B", "明細", "C"}, codes(result.Fields)); diff != "" {
		t.Fatalf("flat field list must not include columns (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 0, 1, 2}, groupIndexes(result.Fields)); diff != "" {
		t.Fatalf("group index mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_DanglingReferenceIsSkipped(t *testing.T) {
	props := kintone.NewProperties(text("A"))
	layout := []kintone.LayoutNode{
		row("A", "ghost"),
		{Type: kintone.NodeRow, Fields: []kintone.FieldRef{{Type: "LABEL", Label: "見出し"}}},
		{Type: kintone.NodeSubtable, Code: "missingTable"},
	}

	result := Extract(props, layout, quietLogger())

	if diff := cmp.Diff([]string{"A"}, codes(result.Fields)); diff != "" {
		t.Fatalf("unexpected fields (-want +got):\n%s", diff)
	}
	if len(result.Diagnostics) != 2 {
		t.Fatalf("expected 2 diagnostics, got %+v", result.Diagnostics)
	}
	for _, d := range result.Diagnostics {
		if d.Kind != DanglingReference {
			t.Fatalf("unexpected diagnostic kind %q", d.Kind)
		}
	}
	if result.Diagnostics[0].Code != "ghost" || result.Diagnostics[1].Code != "missingTable" {
		t.Fatalf("unexpected diagnostic codes: %+v", result.Diagnostics)
	}
}

func TestExtract_NoLayoutFallsBackToDefinitionOrder(t *testing.T) {
	props := kintone.NewProperties(text("Z"), text("A"), kintone.FieldProperty{Code: "T", Type: kintone.FieldTypeSubtable})

	result := Extract(props, nil, quietLogger())

	if len(result.Groups) != 0 {
		t.Fatalf("expected no groups, got %d", len(result.Groups))
	}
	if diff := cmp.Diff([]string{"Z", "A", "T"}, codes(result.Fields)); diff != "" {
		t.Fatalf("fallback order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 0, 0}, groupIndexes(result.Fields)); diff != "" {
		t.Fatalf("fallback indexes mismatch (-want +got):\n%s", diff)
	}
	if !result.Fields[2].IsSubtable {
		t.Fatalf("expected subtable-typed definition to be flagged")
	}
}

func TestExtract_LayoutAuthoritativeDropsUnplacedFields(t *testing.T) {
	props := kintone.NewProperties(text("A"), text("B"))
	layout := []kintone.LayoutNode{row("A")}

	result := Extract(props, layout, quietLogger())

	if diff := cmp.Diff([]string{"A"}, codes(result.Fields)); diff != "" {
		t.Fatalf("unexpected fields (-want +got):\n%s", diff)
	}
	if len(result.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got %+v", result.Diagnostics)
	}
}

func TestExtract_UnionPolicyAppendsUnplacedFields(t *testing.T) {
	props := kintone.NewProperties(text("A"), text("B"), text("C"))
	layout := []kintone.LayoutNode{group("G", row("B"))}

	result := Extract(props, layout, WithPolicy(PolicyUnionWithDefinitions), quietLogger())

	if diff := cmp.Diff([]string{"B", "A", "C"}, codes(result.Fields)); diff != "" {
		t.Fatalf("unexpected fields (-want +got):\n%s", diff)
	}
	if len(result.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %+v", result.Groups)
	}
	trailing := result.Groups[1]
	if trailing.Index != 1 || trailing.GroupName != "" || !trailing.IsMultiField {
		t.Fatalf("unexpected trailing group: %+v", trailing)
	}
	if len(result.Diagnostics) != 2 || result.Diagnostics[0].Kind != UnplacedField {
		t.Fatalf("expected unplaced diagnostics, got %+v", result.Diagnostics)
	}
}

func TestExtract_EmptyLayoutPlacesNothing(t *testing.T) {
	props := kintone.NewProperties(text("A"))

	result := Extract(props, []kintone.LayoutNode{}, quietLogger())

	if len(result.Fields) != 0 || len(result.Groups) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestParseGrouping(t *testing.T) {
	if got, ok := ParseGrouping(""); !ok || got != GroupByRow {
		t.Fatalf("expected default row grouping, got %q", got)
	}
	if got, ok := ParseGrouping("section"); !ok || got != GroupBySection {
		t.Fatalf("expected section grouping, got %q", got)
	}
	if _, ok := ParseGrouping("column"); ok {
		t.Fatalf("expected unknown grouping to be rejected")
	}
}

func TestParsePolicy(t *testing.T) {
	cases := map[string]Policy{
		"":                       PolicyLayoutAuthoritative,
		"layout-authoritative":   PolicyLayoutAuthoritative,
		"union-with-definitions": PolicyUnionWithDefinitions,
	}
	for raw, want := range cases {
		got, ok := ParsePolicy(raw)
		if !ok || got != want {
			t.Fatalf("ParsePolicy(%q) = %q, %v", raw, got, ok)
		}
	}
	if _, ok := ParsePolicy("bogus"); ok {
		t.Fatalf("expected bogus policy to be rejected")
	}
}
