package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/postforge/internal/config"
	"git.home.luguber.info/inful/postforge/internal/corpus"
	"git.home.luguber.info/inful/postforge/internal/metrics"
	"git.home.luguber.info/inful/postforge/internal/pipeline"
)

// DefaultConfigPath is used when no --config flag is given.
const DefaultConfigPath = "postforge.yaml"

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"postforge.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build  BuildCmd  `cmd:"" help:"Render every post source in the content directory into the index"`
	Render RenderCmd `cmd:"" help:"Render a single post source and print the expanded body"`
	List   ListCmd   `cmd:"" help:"List indexed documents"`
	Init   InitCmd   `cmd:"" help:"Initialize a new configuration file"`
	Watch  WatchCmd  `cmd:"" help:"Watch the content directory and re-render on change"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// LoadConfig loads the configuration file, falling back to built-in defaults
// when the default path does not exist. An explicitly given path must exist.
func LoadConfig(root *CLI) (*config.Config, error) {
	if _, err := os.Stat(root.Config); os.IsNotExist(err) && root.Config == DefaultConfigPath {
		slog.Debug("No configuration file found, using defaults")
		return config.Default(), nil
	}
	return config.Load(root.Config)
}

// NewPipeline builds a pipeline from config. The returned cleanup closes the
// store; callers must invoke it.
func NewPipeline(cfg *config.Config, rec metrics.Recorder) (*pipeline.Pipeline, func(), error) {
	opts := []pipeline.Option{
		pipeline.WithCategoryOrder(cfg.CategoryOrder()),
		pipeline.WithWorkers(cfg.Content.Workers),
	}
	if rec != nil {
		opts = append(opts, pipeline.WithRecorder(rec))
	}

	cleanup := func() {}
	if cfg.Index.Path != "" {
		store, err := corpus.NewSQLiteStore(cfg.Index.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open index store: %w", err)
		}
		opts = append(opts, pipeline.WithStore(store))
		cleanup = func() {
			if err := store.Close(); err != nil {
				slog.Warn("Failed to close index store", "error", err)
			}
		}
	}

	return pipeline.New(corpus.New(), opts...), cleanup, nil
}
