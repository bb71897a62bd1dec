package commands

import (
	"context"

	"github.com/Mshivam2409/rustduino/internal/build"
	"github.com/Mshivam2409/rustduino/internal/report"
)

// CommitCmd implements the 'commit' command.
type CommitCmd struct {
	Source string `arg:"" optional:"" help:"Sidebar source to commit (default: the configured sidebar file)"`
	Note   string `short:"m" help:"Revision note"`
}

func (c *CommitCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	src, err := sourceOrDefault(c.Source, cfg)
	if err != nil {
		return err
	}
	f, err := report.NewFormatter(root.OutputFormat)
	if err != nil {
		return err
	}

	ctx := context.Background()
	svc, err := openService(ctx, cfg, build.Needs{Oracle: true, Store: true, Events: true})
	if err != nil {
		return err
	}
	defer closeService(svc)

	p, err := svc.Validate(ctx, src)
	if err != nil {
		return err
	}
	if err := f.Passes(g.out(), []*build.Pass{p}); err != nil {
		return err
	}
	res, err := svc.Commit(ctx, p, build.CommitOptions{Note: c.Note})
	if err != nil {
		return err
	}
	return f.Commit(g.out(), res)
}
