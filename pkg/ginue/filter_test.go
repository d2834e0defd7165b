package ginue

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFilterFields_KeepsOrderAndUnknownMembers(t *testing.T) {
	in := []byte(`{"revision":"9","properties":{"z":{"type":"NUMBER","code":"z","options":{"a":1}},"ref":{"type":"REFERENCE_TABLE","code":"ref"},"a":{"type":"DATE","code":"a"}}}`)

	out, dropped, err := FilterFields(in)
	if err != nil {
		t.Fatalf("FilterFields: %v", err)
	}
	want := `{
  "revision": "9",
  "properties": {
    "z": {
      "type": "NUMBER",
      "code": "z",
      "options": {
        "a": 1
      }
    },
    "a": {
      "type": "DATE",
      "code": "a"
    }
  }
}
`
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"ref"}, dropped); diff != "" {
		t.Fatalf("dropped mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterForm_DropsReferenceItems(t *testing.T) {
	in := []byte(`{"properties":[{"code":"a","type":"LINK"},{"code":"r","type":"REFERENCE_TABLE"}],"layout":[]}`)

	out, dropped, err := FilterForm(in)
	if err != nil {
		t.Fatalf("FilterForm: %v", err)
	}
	want := `{
  "properties": [
    {
      "code": "a",
      "type": "LINK"
    }
  ],
  "layout": []
}
`
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"r"}, dropped); diff != "" {
		t.Fatalf("dropped mismatch (-want +got):\n%s", diff)
	}
}

func TestStage_PassesOtherFilesThrough(t *testing.T) {
	in := []byte("{\"x\":  1}")
	out, dropped, err := stage("app_acl.json", in)
	if err != nil || dropped != nil || string(out) != string(in) {
		t.Fatalf("stage altered passthrough file: %q %v %v", out, dropped, err)
	}
}

func TestFilterFields_Malformed(t *testing.T) {
	if _, _, err := FilterFields([]byte(`[1,2]`)); err == nil {
		t.Fatal("expected error for non-object document")
	}
}

func TestFilterFields_CodesWithPathCharacters(t *testing.T) {
	in := []byte(`{"properties":{"明細.参照":{"type":"REFERENCE_TABLE"},"a*b":{"type":"TEXT","code":"a*b"},"c#1":{"type":"REFERENCE_TABLE"},"<&>":{"type":"LINK"}}}`)

	out, dropped, err := FilterFields(in)
	if err != nil {
		t.Fatalf("FilterFields: %v", err)
	}
	want := `{
  "properties": {
    "a*b": {
      "type": "TEXT",
      "code": "a*b"
    },
    "<&>": {
      "type": "LINK"
    }
  }
}
`
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"明細.参照", "c#1"}, dropped); diff != "" {
		t.Fatalf("dropped mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterForm_DropsEveryReferenceItemInOrder(t *testing.T) {
	in := []byte(`{"properties":[{"code":"r1","type":"REFERENCE_TABLE"},{"code":"a","type":"NUMBER"},{"code":"r2","type":"REFERENCE_TABLE"},{"code":"b","type":"DATE"}]}`)

	out, dropped, err := FilterForm(in)
	if err != nil {
		t.Fatalf("FilterForm: %v", err)
	}
	want := `{
  "properties": [
    {
      "code": "a",
      "type": "NUMBER"
    },
    {
      "code": "b",
      "type": "DATE"
    }
  ]
}
`
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"r1", "r2"}, dropped); diff != "" {
		t.Fatalf("dropped mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterFields_WithoutPropertiesReindents(t *testing.T) {
	out, dropped, err := FilterFields([]byte(`{"revision":"3"}`))
	if err != nil {
		t.Fatalf("FilterFields: %v", err)
	}
	if dropped != nil {
		t.Fatalf("expected nothing dropped, got %v", dropped)
	}
	if diff := cmp.Diff("{\n  \"revision\": \"3\"\n}\n", string(out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}
