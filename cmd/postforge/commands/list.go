package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"git.home.luguber.info/inful/postforge/internal/document"
)

// ListCmd implements the 'list' command over the persisted index.
type ListCmd struct {
	Category string `short:"C" help:"Only list documents in this category"`
	JSON     bool   `help:"Emit JSON instead of a table"`
}

func (l *ListCmd) Run(_ *Global, root *CLI) error {
	cfg, err := LoadConfig(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Index.Path == "" {
		return fmt.Errorf("no index configured (set index.path and run 'postforge build' first)")
	}

	p, cleanup, err := NewPipeline(cfg, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := p.Restore(context.Background()); err != nil {
		return err
	}

	var summaries []document.Summary
	if l.Category != "" {
		summaries = p.ListByCategory(l.Category)
	} else {
		summaries = p.ListAll()
	}

	if l.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	for _, s := range summaries {
		fmt.Printf("%s  %-40s  %s\n",
			s.PublishedAt.Format("2006-01-02"),
			s.Title,
			strings.Join(s.Categories, ","))
		fmt.Printf("            %s\n", s.Identifier)
	}
	fmt.Printf("%d documents\n", len(summaries))
	return nil
}
