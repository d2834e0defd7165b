package kintoneschema_test

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	kintoneschema "github.com/goliatone/go-kintone-schema"
	"github.com/goliatone/go-kintone-schema/pkg/renderers/html"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func seedDesign(t *testing.T) string {
	t.Helper()
	apps := filepath.Join(t.TempDir(), "apps")
	writeFile(t, filepath.Join(apps, "orderReport", "app_form_fields.json"),
		`{"properties":{"order_id":{"type":"NUMBER","code":"order_id","label":"注文ID"}}}`)
	writeFile(t, filepath.Join(apps, "orderReport", "app_form_layout.json"),
		`{"layout":[{"type":"ROW","fields":[{"type":"NUMBER","code":"order_id"}]}]}`)
	return apps
}

func TestGenerateDocs(t *testing.T) {
	apps := seedDesign(t)
	out := filepath.Join(t.TempDir(), "docs")

	written, err := kintoneschema.GenerateDocs(context.Background(), kintoneschema.Paths{AppsDir: apps, Output: out}, "注文管理")
	if err != nil {
		t.Fatalf("GenerateDocs: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("expected html and markdown output, got %v", written)
	}
	page, err := os.ReadFile(filepath.Join(out, html.FileName))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(page), "注文管理") || !strings.Contains(string(page), "order_id") {
		t.Fatalf("page misses title or field:\n%s", page)
	}
}

type fixedSelector struct{ calls int }

func (s *fixedSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls++
	return &theme.Selection{Theme: name, Variant: variant, Manifest: html.DefaultManifest()}, nil
}

func TestWithThemeSelector(t *testing.T) {
	selector := &fixedSelector{}
	opt, err := kintoneschema.WithThemeSelector(selector, "corporate")
	if err != nil {
		t.Fatalf("WithThemeSelector: %v", err)
	}

	out := filepath.Join(t.TempDir(), "docs")
	paths := kintoneschema.Paths{AppsDir: seedDesign(t), Output: out}
	if _, err := kintoneschema.GenerateDocs(context.Background(), paths, "", opt); err != nil {
		t.Fatalf("GenerateDocs: %v", err)
	}
	if selector.calls != 1 {
		t.Fatalf("selector called %d times, want 1", selector.calls)
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	if _, err := fs.Stat(kintoneschema.EmbeddedTemplates(), "templates/page.tmpl"); err != nil {
		t.Fatalf("page template missing: %v", err)
	}
}
