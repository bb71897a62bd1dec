package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mshivam2409/rustduino/internal/build"
	"github.com/Mshivam2409/rustduino/internal/config"
	"github.com/Mshivam2409/rustduino/internal/logfields"
	"github.com/Mshivam2409/rustduino/internal/report"
	"github.com/Mshivam2409/rustduino/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Debounce time.Duration `help:"Override the configured debounce window"`
	Recheck  time.Duration `help:"Override the configured oracle recheck interval"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	f, err := report.NewFormatter(root.OutputFormat)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := openService(ctx, cfg, build.Needs{Oracle: true, Events: true})
	if err != nil {
		return err
	}
	defer closeService(svc)

	out := g.out()
	opts := watch.Options{
		SidebarFile: cfg.Sidebar.File,
		Debounce:    cfg.Watch.DebounceDuration(),
		Recheck:     cfg.Watch.RecheckInterval(),
		Logger:      slog.Default(),
		OnPass: func(p *build.Pass, err error) {
			if err != nil {
				slog.Error("Watch pass failed", logfields.Error(err))
			}
			if p == nil {
				return
			}
			if ferr := f.Passes(out, []*build.Pass{p}); ferr != nil {
				slog.Warn("Failed to write report", logfields.Error(ferr))
			}
		},
	}
	if cfg.Oracle.Type == config.OracleFS {
		opts.DocsDir = cfg.Docs.Path
	}
	if w.Debounce > 0 {
		opts.Debounce = w.Debounce
	}
	if w.Recheck > 0 {
		opts.Recheck = w.Recheck
	}

	watcher, err := watch.New(svc, opts)
	if err != nil {
		return err
	}
	err = watcher.Run(ctx)
	slog.Info("Watch stopped")
	return err
}
