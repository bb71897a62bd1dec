package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/Mshivam2409/rustduino/internal/build"
	"github.com/Mshivam2409/rustduino/internal/config"
	ferrors "github.com/Mshivam2409/rustduino/internal/foundation/errors"
	"github.com/Mshivam2409/rustduino/internal/ingest"
	"github.com/Mshivam2409/rustduino/internal/logfields"
	"github.com/Mshivam2409/rustduino/internal/validation"
	"github.com/alecthomas/kong"
)

// Global carries state shared by all subcommands.
type Global struct {
	// Out receives command output; nil means stdout.
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config       string           `short:"c" help:"Configuration file path" default:"navbuilder.yaml"`
	Verbose      bool             `short:"v" help:"Enable verbose logging"`
	Sidebar      string           `short:"s" help:"Sidebar to operate on (default: configured, else the first one)"`
	OutputFormat string           `name:"output-format" short:"f" help:"Report format (text, json)" default:"text" enum:"text,json"`
	Version      kong.VersionFlag `name:"version" help:"Show version and exit"`

	Validate ValidateCmd `cmd:"" help:"Normalize and validate sidebar sources"`
	Merge    MergeCmd    `cmd:"" help:"Merge an incoming sidebar revision into a base"`
	Resolve  ResolveCmd  `cmd:"" help:"Resolve a sidebars file left with git conflict markers"`
	Commit   CommitCmd   `cmd:"" help:"Validate a sidebar and store it as the next revision"`
	History  HistoryCmd  `cmd:"" help:"List stored revisions, newest first"`
	Show     ShowCmd     `cmd:"" help:"Show a stored revision and its change log"`
	Render   RenderCmd   `cmd:"" help:"Render a sidebar as site renderer input"`
	Watch    WatchCmd    `cmd:"" help:"Re-validate on sidebar and docs changes"`
	Catalog  CatalogCmd  `cmd:"" help:"List the documents known to the docs directory"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
	Info     VersionCmd  `cmd:"" name:"version" help:"Print version information"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig reads the configuration file and applies global overrides.
// A missing file at the default path falls back to built-in defaults.
func loadConfig(root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		if root.Config != config.DefaultPath || !ferrors.HasCategory(err, ferrors.CategoryNotFound) {
			return nil, err
		}
		slog.Debug("No configuration file, using defaults", logfields.File(root.Config))
		cfg = config.Default()
	}
	if root.Sidebar != "" {
		cfg.Sidebar.Name = root.Sidebar
	}
	configureLogging(cfg.Logging, root.Verbose)
	return cfg, nil
}

func configureLogging(lc config.LoggingConfig, verbose bool) {
	opts := &slog.HandlerOptions{Level: lc.Level.SlogLevel()}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	var h slog.Handler
	if lc.Format == config.LogFormatJSON {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

func openService(ctx context.Context, cfg *config.Config, needs build.Needs) (*build.Service, error) {
	return build.FromConfig(ctx, cfg, needs, build.WithLogger(slog.Default()))
}

func closeService(svc *build.Service) {
	if err := svc.Close(); err != nil {
		slog.Warn("Failed to release resources", logfields.Error(err))
	}
}

// sourceOrDefault parses raw, or the configured sidebar file when raw is empty.
func sourceOrDefault(raw string, cfg *config.Config) (build.Source, error) {
	if raw == "" {
		return build.FileSource(cfg.Sidebar.File), nil
	}
	return build.ParseSource(raw)
}

func writeSidebars(path string, trees ...ingest.NamedTree) error {
	data, err := ingest.Marshal(trees...)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write sidebars file").
			WithContext("path", path).Build()
	}
	slog.Info("Sidebars written", logfields.File(path), slog.Int("sidebars", len(trees)))
	return nil
}

// Classify gives unclassified failures a category so they exit with a
// meaningful code.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var unavailable *validation.OracleUnavailableError
	if errors.As(err, &unavailable) && !ferrors.HasCategory(err, ferrors.CategoryOracle) {
		return ferrors.WrapError(err, ferrors.CategoryOracle, "document oracle unavailable").Build()
	}
	return err
}
