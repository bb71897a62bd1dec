package commands

import (
	"context"
	"log/slog"

	"github.com/Mshivam2409/rustduino/internal/build"
	ferrors "github.com/Mshivam2409/rustduino/internal/foundation/errors"
	"github.com/Mshivam2409/rustduino/internal/logfields"
	"github.com/Mshivam2409/rustduino/internal/report"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct {
	Sources []string `arg:"" optional:"" help:"Sidebar sources: a file, REF:PATH in the repository, or @N / @latest for a stored revision (default: the configured sidebar file)"`
}

func (v *ValidateCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	raw := v.Sources
	if len(raw) == 0 {
		raw = []string{cfg.Sidebar.File}
	}
	srcs := make([]build.Source, 0, len(raw))
	needs := build.Needs{Oracle: true, Events: true}
	for _, r := range raw {
		src, err := build.ParseSource(r)
		if err != nil {
			return err
		}
		if src.Kind == build.SourceRevision {
			needs.Store = true
		}
		srcs = append(srcs, src)
	}
	f, err := report.NewFormatter(root.OutputFormat)
	if err != nil {
		return err
	}

	ctx := context.Background()
	svc, err := openService(ctx, cfg, needs)
	if err != nil {
		return err
	}
	defer closeService(svc)

	var passes []*build.Pass
	var firstErr error
	for _, o := range svc.ValidateAll(ctx, srcs) {
		if o.Err != nil {
			slog.Error("Validation pass failed", slog.String("source", o.Source.String()), logfields.Error(o.Err))
			if firstErr == nil {
				firstErr = o.Err
			}
		}
		if o.Pass != nil {
			passes = append(passes, o.Pass)
		}
	}
	if err := f.Passes(g.out(), passes); err != nil {
		return err
	}
	if firstErr != nil {
		return firstErr
	}
	return passesErr(passes)
}

// passesErr fails when any pass found issues.
func passesErr(passes []*build.Pass) error {
	var failing, issues int
	for _, p := range passes {
		if p.Report != nil && !p.Report.OK() {
			failing++
			issues += len(p.Report.Issues)
		}
	}
	if failing == 0 {
		return nil
	}
	return ferrors.ValidationErrorf("%d of %d sidebars failed validation", failing, len(passes)).
		WithContext("issues", issues).
		Build()
}
