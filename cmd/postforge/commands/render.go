package commands

import (
	"context"
	"fmt"
	"os"

	"git.home.luguber.info/inful/postforge/internal/corpus"
	"git.home.luguber.info/inful/postforge/internal/markdown"
	"git.home.luguber.info/inful/postforge/internal/pipeline"
)

// RenderCmd implements the 'render' command: one source in, expanded body on
// stdout. The index is untouched; this is a preview tool.
type RenderCmd struct {
	Path string `arg:"" help:"Post source file to render"`
	HTML bool   `help:"Also render the expanded body from Markdown to HTML"`
}

func (r *RenderCmd) Run(_ *Global, root *CLI) error {
	cfg, err := LoadConfig(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	content, err := os.ReadFile(r.Path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", r.Path, err)
	}

	p := pipeline.New(corpus.New(), pipeline.WithCategoryOrder(cfg.CategoryOrder()))
	res, err := p.Render(context.Background(), pipeline.Source{Name: r.Path, Content: content})
	if err != nil {
		return err
	}

	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %v\n", w)
	}

	doc := res.Document
	fmt.Fprintf(os.Stderr, "%s  %s\n", doc.Identifier, doc.Title)

	if r.HTML {
		out, err := markdown.NewRenderer().Render([]byte(doc.RenderedBody))
		if err != nil {
			return fmt.Errorf("markdown render: %w", err)
		}
		_, err = os.Stdout.Write(out)
		return err
	}
	fmt.Print(doc.RenderedBody)
	return nil
}
