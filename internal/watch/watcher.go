package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Mshivam2409/rustduino/internal/build"
	"github.com/Mshivam2409/rustduino/internal/logfields"
	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"
)

// Runner performs validation passes.
type Runner interface {
	Validate(ctx context.Context, src build.Source) (*build.Pass, error)
	RefreshOracle(ctx context.Context) error
}

// Options configures a Watcher.
type Options struct {
	SidebarFile string
	// DocsDir is watched recursively; empty watches the sidebar file only.
	DocsDir  string
	Debounce time.Duration
	// Recheck schedules a periodic oracle refresh and pass; zero disables it.
	Recheck time.Duration
	// OnPass receives every pass result.
	OnPass func(p *build.Pass, err error)
	Logger *slog.Logger
}

// Watcher drives passes from filesystem events and a recheck schedule.
type Watcher struct {
	runner  Runner
	opts    Options
	file    string
	fsw     *fsnotify.Watcher
	sched   gocron.Scheduler
	logger  *slog.Logger
	runReq  chan struct{}
	mu      sync.Mutex
	timer   *time.Timer
	refresh bool
}

// New prepares a watcher. Nothing is watched until Run.
func New(runner Runner, opts Options) (*Watcher, error) {
	absFile, err := filepath.Abs(opts.SidebarFile)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sidebar path: %w", err)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Watcher{
		runner: runner,
		opts:   opts,
		file:   absFile,
		fsw:    fsw,
		sched:  sched,
		logger: logger,
		runReq: make(chan struct{}, 1),
	}, nil
}

// Run performs an initial pass and then watches until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fsw.Close() }()

	// the directory is watched because editors replace files on save
	if err := w.fsw.Add(filepath.Dir(w.file)); err != nil {
		return fmt.Errorf("failed to watch sidebar directory: %w", err)
	}
	if w.opts.DocsDir != "" {
		if err := addDirsRecursive(w.fsw, w.opts.DocsDir, w.logger); err != nil {
			return err
		}
	}

	if w.opts.Recheck > 0 {
		_, err := w.sched.NewJob(
			gocron.DurationJob(w.opts.Recheck),
			gocron.NewTask(func() { w.request(true) }),
			gocron.WithName("oracle-recheck"),
		)
		if err != nil {
			return fmt.Errorf("failed to schedule recheck: %w", err)
		}
	}
	w.sched.Start()
	defer func() { _ = w.sched.Shutdown() }()

	w.logger.Info("Watching sidebar",
		logfields.File(w.file),
		logfields.Path(w.opts.DocsDir),
		slog.Duration("debounce", w.opts.Debounce),
		slog.Duration("recheck", w.opts.Recheck))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.worker(ctx)
	}()
	w.request(false)

	err := w.loop(ctx)
	w.stopTimer()
	wg.Wait()
	return err
}

func (w *Watcher) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if shouldIgnoreEvent(ev.Name) || ev.Op == fsnotify.Chmod {
		return
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}
	if abs == w.file {
		w.logger.Debug("Sidebar change detected", logfields.File(ev.Name), slog.String("op", ev.Op.String()))
		w.debounce(false)
		return
	}
	if w.opts.DocsDir == "" || !within(w.opts.DocsDir, abs) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(w.fsw, ev.Name, w.logger)
		}
	}
	w.logger.Debug("Documentation change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	w.debounce(true)
}

// debounce coalesces bursts of events into one pass after the quiet period.
func (w *Watcher) debounce(refresh bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.refresh = w.refresh || refresh
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.Debounce, func() { w.request(false) })
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

// request queues a pass; at most one is pending at a time.
func (w *Watcher) request(refresh bool) {
	w.mu.Lock()
	w.refresh = w.refresh || refresh
	w.mu.Unlock()
	select {
	case w.runReq <- struct{}{}:
	default:
	}
}

func (w *Watcher) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.runReq:
			w.mu.Lock()
			refresh := w.refresh
			w.refresh = false
			w.mu.Unlock()
			w.pass(ctx, refresh)
		}
	}
}

func (w *Watcher) pass(ctx context.Context, refresh bool) {
	if refresh {
		if err := w.runner.RefreshOracle(ctx); err != nil {
			w.logger.Warn("Oracle refresh failed", logfields.Error(err))
		}
	}
	p, err := w.runner.Validate(ctx, build.FileSource(w.file))
	if w.opts.OnPass != nil {
		w.opts.OnPass(p, err)
	}
}

func addDirsRecursive(w *fsnotify.Watcher, root string, logger *slog.Logger) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

func within(dir, path string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// shouldIgnoreEvent returns true for filesystem events that should not trigger passes.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	return strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")
}
