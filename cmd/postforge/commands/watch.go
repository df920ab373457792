package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/postforge/internal/metrics"
	"git.home.luguber.info/inful/postforge/internal/pipeline"
	"git.home.luguber.info/inful/postforge/internal/watch"
)

// WatchCmd implements the 'watch' command: an initial full build, then
// continuous re-rendering driven by file events plus periodic rescans.
type WatchCmd struct {
	Dir string `short:"d" help:"Content directory to watch (overrides config)"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := LoadConfig(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if w.Dir != "" {
		cfg.Content.Dir = w.Dir
	}

	var rec metrics.Recorder
	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		reg := prom.NewRegistry()
		rec = metrics.NewPrometheusRecorder(reg)

		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.HTTPHandler(reg))
		metricsSrv = &http.Server{Addr: cfg.Metrics.Listen, Handler: mux}
		go func() {
			slog.Info("Metrics listener started", "listen", cfg.Metrics.Listen)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Metrics listener failed", "error", err)
			}
		}()
	}

	p, cleanup, err := NewPipeline(cfg, rec)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if restored, err := p.Restore(ctx); err != nil {
		return err
	} else if restored > 0 {
		slog.Info("Restored index", "documents", restored)
	}

	rescan := func(ctx context.Context) {
		sources, err := pipeline.DiscoverSources(cfg.Content.Dir, cfg.Content.Extensions)
		if err != nil {
			slog.Error("Content rescan failed", "error", err)
			return
		}
		report := p.RenderBatch(ctx, sources)
		if report.Failed > 0 {
			slog.Warn("Rescan completed with failures",
				"rendered", report.Rendered, "failed", report.Failed)
		}
	}
	rescan(ctx)

	watcher, err := watch.NewWatcher(cfg.Content.Dir, cfg.Content.Extensions, p, cfg.Watch.Debounce.Std())
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := watcher.Stop(); err != nil {
			slog.Warn("Failed to stop watcher", "error", err)
		}
	}()

	if interval := cfg.Watch.RescanInterval.Std(); interval > 0 {
		scheduler, err := watch.NewScheduler()
		if err != nil {
			return err
		}
		if _, err := scheduler.ScheduleRescan(interval, rescan); err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				slog.Warn("Failed to stop scheduler", "error", err)
			}
		}()
	}

	slog.Info("Watching for changes, press Ctrl+C to stop")
	<-ctx.Done()

	if metricsSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Metrics listener shutdown failed", "error", err)
		}
	}
	slog.Info("Watch stopped")
	return nil
}
