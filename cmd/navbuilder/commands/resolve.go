package commands

import (
	"context"

	"github.com/Mshivam2409/rustduino/internal/build"
	"github.com/Mshivam2409/rustduino/internal/ingest"
	"github.com/Mshivam2409/rustduino/internal/report"
)

// ResolveCmd implements the 'resolve' command.
type ResolveCmd struct {
	File   string `arg:"" type:"existingfile" help:"Sidebars file containing git conflict markers"`
	Write  bool   `short:"w" help:"Replace the file with the resolved sidebars"`
	Strict bool   `help:"Fail when the resolution logs conflicts"`
}

func (r *ResolveCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	f, err := report.NewFormatter(root.OutputFormat)
	if err != nil {
		return err
	}

	ctx := context.Background()
	svc, err := openService(ctx, cfg, build.Needs{Oracle: true, Events: true})
	if err != nil {
		return err
	}
	defer closeService(svc)

	passes, err := svc.Resolve(ctx, r.File)
	if err != nil {
		return err
	}
	if err := f.Passes(g.out(), passes); err != nil {
		return err
	}
	if err := passesErr(passes); err != nil {
		return err
	}

	trees := make([]ingest.NamedTree, 0, len(passes))
	conflicts := 0
	for _, p := range passes {
		conflicts += len(p.Conflicts)
		trees = append(trees, ingest.NamedTree{Name: p.Sidebar, Tree: p.Tree})
	}
	if r.Strict && conflicts > 0 {
		return build.ErrUnresolvedConflicts.WithContext("conflicts", conflicts)
	}
	if !r.Write {
		return nil
	}
	return writeSidebars(r.File, trees...)
}
