// Package markdown renders expanded post bodies to HTML for the delivery layer.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts markdown prose to HTML. Expanded bodies already contain
// raw HTML code containers, so raw HTML passthrough is enabled; directive
// expansion is responsible for escaping code content before it gets here.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer constructs the shared goldmark instance.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Render converts an expanded body to HTML.
func (r *Renderer) Render(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return buf.Bytes(), nil
}
