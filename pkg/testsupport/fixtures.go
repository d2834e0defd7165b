// Package testsupport holds fixture and golden-file helpers shared by tests.
package testsupport

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

// DesignFS builds an in-memory design tree. Keys of docs are paths relative
// to the apps directory, for example "customers/dev/app_form_fields.json".
func DesignFS(docs map[string]string) fstest.MapFS {
	fsys := make(fstest.MapFS, len(docs))
	for path, content := range docs {
		fsys[path] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

// AssertGolden compares got with the golden file at path. With
// UPDATE_GOLDENS set the file is rewritten instead.
func AssertGolden(t *testing.T, path, got string) {
	t.Helper()
	if writeGolden(t, path, []byte(got)) {
		return
	}
	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	if diff := cmp.Diff(string(want), got); diff != "" {
		t.Fatalf("%s mismatch (-want +got):\n%s", filepath.Base(path), diff)
	}
}

func writeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CaptureTemplateOutput runs render against a buffer and returns both the
// returned string and what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
