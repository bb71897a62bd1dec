package commands

import (
	"context"
	"io"
	"os"

	"github.com/Mshivam2409/rustduino/internal/build"
	ferrors "github.com/Mshivam2409/rustduino/internal/foundation/errors"
	"github.com/Mshivam2409/rustduino/internal/render"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	Source string `arg:"" optional:"" help:"Sidebar source: a file, REF:PATH, or @N / @latest (default: the configured sidebar file)"`
	Format string `help:"Output format (json, yaml)" default:"json" enum:"json,yaml,yml"`
	Output string `short:"o" help:"Write to this file instead of stdout"`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	src, err := sourceOrDefault(r.Source, cfg)
	if err != nil {
		return err
	}
	format, err := render.ParseFormat(r.Format)
	if err != nil {
		return err
	}

	ctx := context.Background()
	svc, err := openService(ctx, cfg, build.Needs{Oracle: true, Store: src.Kind == build.SourceRevision})
	if err != nil {
		return err
	}
	defer closeService(svc)

	sb, err := svc.Render(ctx, src, cfg.Site)
	if err != nil {
		return err
	}

	var w io.Writer = g.out()
	if r.Output != "" {
		file, err := os.Create(r.Output)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create output file").
				WithContext("path", r.Output).Build()
		}
		defer func() {
			_ = file.Close()
		}()
		w = file
	}
	return render.Encode(w, sb, format)
}
