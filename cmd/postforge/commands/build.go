package commands

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/postforge/internal/pipeline"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Dir string `short:"d" help:"Content directory to render (overrides config)"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := LoadConfig(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if b.Dir != "" {
		cfg.Content.Dir = b.Dir
	}

	p, cleanup, err := NewPipeline(cfg, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	if restored, err := p.Restore(ctx); err != nil {
		return err
	} else if restored > 0 {
		slog.Info("Restored index", "documents", restored)
	}

	sources, err := pipeline.DiscoverSources(cfg.Content.Dir, cfg.Content.Extensions)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		slog.Warn("No post sources found", "dir", cfg.Content.Dir)
		return nil
	}

	report := p.RenderBatch(ctx, sources)

	fmt.Printf("Rendered %d documents (%d warnings)\n", report.Rendered, report.Warnings)
	for _, f := range report.Failures {
		fmt.Printf("  FAILED %s: %v\n", f.Source, f.Err)
	}
	if report.Failed > 0 {
		return fmt.Errorf("%d of %d sources failed", report.Failed, len(sources))
	}
	return nil
}
