package commands

import (
	"context"

	"github.com/Mshivam2409/rustduino/internal/build"
	"github.com/Mshivam2409/rustduino/internal/ingest"
	"github.com/Mshivam2409/rustduino/internal/report"
)

// MergeCmd implements the 'merge' command.
type MergeCmd struct {
	Base     string `arg:"" help:"Base sidebar source (file, REF:PATH or @N)"`
	Incoming string `arg:"" help:"Incoming sidebar source (file, REF:PATH or @N)"`
	Strict   bool   `help:"Fail when the merge logs conflicts"`
	Commit   bool   `help:"Store the merged tree as the next revision"`
	Note     string `short:"m" help:"Revision note (with --commit)"`
	Output   string `short:"o" help:"Write the merged sidebar to this file"`
}

func (m *MergeCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	base, err := build.ParseSource(m.Base)
	if err != nil {
		return err
	}
	incoming, err := build.ParseSource(m.Incoming)
	if err != nil {
		return err
	}
	f, err := report.NewFormatter(root.OutputFormat)
	if err != nil {
		return err
	}

	needs := build.Needs{
		Oracle: true,
		Store:  m.Commit || base.Kind == build.SourceRevision || incoming.Kind == build.SourceRevision,
		Events: true,
	}
	ctx := context.Background()
	svc, err := openService(ctx, cfg, needs)
	if err != nil {
		return err
	}
	defer closeService(svc)

	p, err := svc.Merge(ctx, base, incoming)
	if err != nil {
		return err
	}
	if err := f.Passes(g.out(), []*build.Pass{p}); err != nil {
		return err
	}
	if err := p.Report.Err(); err != nil {
		return err
	}
	if m.Strict && len(p.Conflicts) > 0 {
		return build.ErrUnresolvedConflicts.WithContext("conflicts", len(p.Conflicts))
	}

	if m.Output != "" {
		if err := writeSidebars(m.Output, ingest.NamedTree{Name: p.Sidebar, Tree: p.Tree}); err != nil {
			return err
		}
	}
	if !m.Commit {
		return nil
	}
	res, err := svc.Commit(ctx, p, build.CommitOptions{Note: m.Note, Strict: m.Strict})
	if err != nil {
		return err
	}
	return f.Commit(g.out(), res)
}
