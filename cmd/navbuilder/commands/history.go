package commands

import (
	"context"

	"github.com/Mshivam2409/rustduino/internal/build"
	"github.com/Mshivam2409/rustduino/internal/report"
	"github.com/Mshivam2409/rustduino/internal/revision"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" help:"Show at most this many revisions (0 for all)" default:"20"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	f, st, done, err := openStore(root)
	if err != nil {
		return err
	}
	defer done()

	ctx := context.Background()
	name, err := storedSidebar(ctx, st, root)
	if err != nil {
		return err
	}
	revs, err := st.History(ctx, name, h.Limit)
	if err != nil {
		return err
	}
	return f.History(g.out(), revs)
}

// ShowCmd implements the 'show' command.
type ShowCmd struct {
	Number int `arg:"" name:"revision" help:"Revision number"`
}

func (s *ShowCmd) Run(g *Global, root *CLI) error {
	f, st, done, err := openStore(root)
	if err != nil {
		return err
	}
	defer done()

	ctx := context.Background()
	name, err := storedSidebar(ctx, st, root)
	if err != nil {
		return err
	}
	rev, err := st.Get(ctx, name, s.Number)
	if err != nil {
		return err
	}
	changes, err := st.Changes(ctx, rev.ID)
	if err != nil {
		return err
	}
	return f.Commit(g.out(), &revision.CommitResult{Revision: rev, Changes: changes})
}

func openStore(root *CLI) (report.Formatter, revision.Store, func(), error) {
	cfg, err := loadConfig(root)
	if err != nil {
		return nil, nil, nil, err
	}
	f, err := report.NewFormatter(root.OutputFormat)
	if err != nil {
		return nil, nil, nil, err
	}
	svc, err := openService(context.Background(), cfg, build.Needs{Store: true})
	if err != nil {
		return nil, nil, nil, err
	}
	root.Sidebar = cfg.Sidebar.Name
	return f, svc.Store(), func() { closeService(svc) }, nil
}

// storedSidebar returns the selected sidebar, or the first one in the store.
func storedSidebar(ctx context.Context, st revision.Store, root *CLI) (string, error) {
	if root.Sidebar != "" {
		return root.Sidebar, nil
	}
	names, err := st.Sidebars(ctx)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", revision.ErrRevisionNotFound
	}
	return names[0], nil
}
