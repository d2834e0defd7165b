package render

import (
	"context"

	"github.com/goliatone/go-kintone-schema/pkg/model"
)

// Renderer converts a Document into one output file (HTML, Markdown, ...).
type Renderer interface {
	Name() string
	// FileName is the default output file name relative to the output dir.
	FileName() string
	ContentType() string
	Render(ctx context.Context, doc model.Document, options RenderOptions) ([]byte, error)
}
