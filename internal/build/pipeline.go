package build

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"time"

	"github.com/Mshivam2409/rustduino/internal/config"
	"github.com/Mshivam2409/rustduino/internal/foundation/errors"
	"github.com/Mshivam2409/rustduino/internal/git"
	"github.com/Mshivam2409/rustduino/internal/ingest"
	"github.com/Mshivam2409/rustduino/internal/logfields"
	"github.com/Mshivam2409/rustduino/internal/merge"
	"github.com/Mshivam2409/rustduino/internal/metrics"
	"github.com/Mshivam2409/rustduino/internal/natsbus"
	"github.com/Mshivam2409/rustduino/internal/navtree"
	"github.com/Mshivam2409/rustduino/internal/observability"
	"github.com/Mshivam2409/rustduino/internal/render"
	"github.com/Mshivam2409/rustduino/internal/revision"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Stage names used for metrics and logs.
const (
	StageLoad     = "load"
	StageValidate = "validate"
	StageMerge    = "merge"
	StageCommit   = "commit"
	StageRender   = "render"
)

// loaded is one normalized sidebar.
type loaded struct {
	name     string
	tree     *navtree.Tree
	warnings []ingest.Warning
}

func (s *Service) begin(ctx context.Context, source string) (context.Context, *Pass) {
	p := &Pass{ID: uuid.NewString(), Source: source, StartTime: time.Now()}
	ctx = observability.WithLogger(ctx, s.logger)
	ctx = observability.WithPassID(ctx, p.ID)
	return ctx, p
}

// stage runs fn with the stage name attached to ctx and records its timing
// and result.
func (s *Service) stage(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	start := time.Now()
	ctx = observability.WithStage(ctx, name)
	err := fn(ctx)
	d := time.Since(start)

	s.recorder.ObserveStageDuration(name, d)
	switch {
	case err == nil:
		s.recorder.IncStageResult(name, metrics.ResultSuccess)
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		s.recorder.IncStageResult(name, metrics.ResultCanceled)
	default:
		s.recorder.IncStageResult(name, metrics.ResultFatal)
	}
	observability.DebugContext(ctx, "Stage finished", logfields.DurationMS(float64(d.Microseconds())/1000))
	return err
}

// finish settles the pass status and records pass-level metrics.
func (s *Service) finish(ctx context.Context, p *Pass, err error) {
	p.Duration = time.Since(p.StartTime)
	switch {
	case err != nil:
		p.Status = StatusFailed
	case !p.Report.OK():
		p.Status = StatusIssues
	case len(p.Conflicts) > 0:
		p.Status = StatusConflicts
	default:
		p.Status = StatusClean
	}

	s.recorder.ObservePassDuration(p.Duration)
	s.recorder.IncPassOutcome(string(p.Status))
	if p.Report != nil {
		for kind, n := range p.Report.Counts() {
			s.recorder.AddIssues(kind, n)
		}
		st := p.Report.Stats
		s.recorder.SetTreeSize(p.Sidebar, st.Docs, st.Categories, st.MaxDepth)
	}
	s.recorder.AddConflicts(len(p.Conflicts))

	attrs := []slog.Attr{
		slog.String("status", string(p.Status)),
		logfields.DurationMS(float64(p.Duration.Microseconds()) / 1000),
		logfields.Conflicts(len(p.Conflicts)),
	}
	if p.Report != nil {
		attrs = append(attrs, logfields.Issues(len(p.Report.Issues)))
	}
	if err != nil {
		observability.ErrorContext(ctx, "Pass failed", append(attrs, logfields.Error(err))...)
		return
	}
	observability.InfoContext(ctx, "Pass complete", attrs...)
}

// Validate loads, normalizes and validates one sidebar. Issues are reported
// in the pass; the error is reserved for load failures and an unavailable
// oracle.
func (s *Service) Validate(ctx context.Context, src Source) (*Pass, error) {
	ctx, p := s.begin(ctx, src.String())
	err := s.validate(ctx, p, src)
	s.finish(ctx, p, err)
	if err != nil {
		return p, err
	}
	s.publish(ctx, natsbus.ValidationEvent(p.Sidebar, p.Report))
	return p, nil
}

func (s *Service) validate(ctx context.Context, p *Pass, src Source) error {
	var l *loaded
	err := s.stage(ctx, StageLoad, func(ctx context.Context) error {
		var err error
		l, err = s.load(ctx, src)
		return err
	})
	if err != nil {
		return err
	}
	p.Sidebar, p.Tree, p.Warnings = l.name, l.tree, l.warnings

	return s.stage(observability.WithSidebar(ctx, p.Sidebar), StageValidate, func(ctx context.Context) error {
		v, _ := s.current()
		report, err := v.Validate(ctx, p.Tree)
		p.Report = report
		return err
	})
}

// ValidateAll validates independent sources concurrently. Outcomes are
// index-aligned with srcs; one failure does not stop the others.
func (s *Service) ValidateAll(ctx context.Context, srcs []Source) []Outcome {
	outcomes := make([]Outcome, len(srcs))
	g, gctx := errgroup.WithContext(ctx)
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}
	for i, src := range srcs {
		g.Go(func() error {
			p, err := s.Validate(gctx, src)
			outcomes[i] = Outcome{Source: src, Pass: p, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// Merge merges incoming into base and re-validates the result. The merged
// pass carries the conflict log.
func (s *Service) Merge(ctx context.Context, base, incoming Source) (*Pass, error) {
	ctx, p := s.begin(ctx, base.String()+" <- "+incoming.String())

	var b, in *loaded
	err := s.stage(ctx, StageLoad, func(ctx context.Context) error {
		var err error
		if b, err = s.load(ctx, base); err != nil {
			return err
		}
		in, err = s.load(ctx, incoming)
		return err
	})
	if err == nil {
		p.Sidebar = b.name
		p.Warnings = append(append(p.Warnings, b.warnings...), in.warnings...)
		err = s.merge(observability.WithSidebar(ctx, p.Sidebar), p, b.tree, in.tree)
	}
	s.finish(ctx, p, err)
	if err != nil {
		return p, err
	}
	s.publish(ctx, natsbus.ValidationEvent(p.Sidebar, p.Report))
	return p, nil
}

func (s *Service) merge(ctx context.Context, p *Pass, base, incoming *navtree.Tree) error {
	return s.stage(ctx, StageMerge, func(ctx context.Context) error {
		v, _ := s.current()
		res, err := merge.NewResolver(v, s.logger).Merge(ctx, base, incoming)
		if err != nil {
			return err
		}
		p.Tree, p.Conflicts, p.Report = res.Tree, res.Conflicts, res.Report
		return nil
	})
}

// Resolve reads a sidebars file left with git conflict markers and merges
// the incoming side into ours, sidebar by sidebar. Sidebars present on only
// one side are carried over as they are.
func (s *Service) Resolve(ctx context.Context, path string) ([]*Pass, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read conflicted file").
			WithContext("file", path).Build()
	}
	if !ingest.HasConflictMarkers(data) {
		return nil, ErrNoConflictMarkers.WithContext("file", path)
	}
	split, err := ingest.SplitConflicts(data)
	if err != nil {
		return nil, err
	}
	ours, err := ingest.Parse(split.Ours)
	if err != nil {
		return nil, err
	}
	theirs, err := ingest.Parse(split.Theirs)
	if err != nil {
		return nil, err
	}

	names := ours.Names()
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	for _, n := range theirs.Names() {
		if !seen[n] {
			names = append(names, n)
		}
	}

	passes := make([]*Pass, 0, len(names))
	for _, name := range names {
		pctx, p := s.begin(ctx, path)
		p.Sidebar = name
		base := normalizeNamed(ours, name, p)
		incoming := normalizeNamed(theirs, name, p)
		err := s.merge(observability.WithSidebar(pctx, name), p, base, incoming)
		s.finish(pctx, p, err)
		if err != nil {
			return passes, err
		}
		passes = append(passes, p)
	}
	return passes, nil
}

func normalizeNamed(doc *ingest.Document, name string, p *Pass) *navtree.Tree {
	for _, sb := range doc.Sidebars {
		if sb.Name == name {
			res := sb.Normalize()
			p.Warnings = append(p.Warnings, res.Warnings...)
			return res.Tree
		}
	}
	return navtree.NewTree()
}

// CommitOptions controls Commit.
type CommitOptions struct {
	Note string
	// Strict refuses passes whose merge logged conflicts.
	Strict bool
}

// Commit stores a clean pass as the next revision of its sidebar.
func (s *Service) Commit(ctx context.Context, p *Pass, opts CommitOptions) (*revision.CommitResult, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	if err := p.Report.Err(); err != nil {
		return nil, err
	}
	if opts.Strict && len(p.Conflicts) > 0 {
		return nil, ErrUnresolvedConflicts.WithContext("conflicts", len(p.Conflicts))
	}

	ctx = observability.WithLogger(ctx, s.logger)
	ctx = observability.WithPassID(ctx, p.ID)
	ctx = observability.WithSidebar(ctx, p.Sidebar)

	var res *revision.CommitResult
	err := s.stage(ctx, StageCommit, func(ctx context.Context) error {
		var err error
		res, err = s.store.Commit(ctx, p.Sidebar, p.Tree, revision.CommitOptions{Note: opts.Note, Conflicts: p.Conflicts})
		return err
	})
	if err != nil {
		return nil, err
	}
	if res.Unchanged {
		observability.InfoContext(ctx, "Sidebar unchanged, no revision written", logfields.Revision(res.Revision.Number))
		return res, nil
	}
	observability.InfoContext(ctx, "Revision committed",
		logfields.Revision(res.Revision.Number),
		slog.String("revision_id", res.Revision.ID),
		slog.Int("changes", len(res.Changes)))
	s.publish(ctx, natsbus.CommitEvent(p.Sidebar, res.Revision.Number, res.Revision.ID, p.Conflicts))
	return res, nil
}

// Render projects a source for the site renderer. Stored revisions render
// as they are; other sources must validate cleanly first and render as
// revision 0.
func (s *Service) Render(ctx context.Context, src Source, site config.Site) (*render.Sidebar, error) {
	var tree *navtree.Tree
	var name string
	if src.Kind == SourceRevision {
		ctx = observability.WithLogger(ctx, s.logger)
		err := s.stage(ctx, StageLoad, func(ctx context.Context) error {
			l, err := s.load(ctx, src)
			if err == nil {
				tree, name = l.tree, l.name
			}
			return err
		})
		if err != nil {
			return nil, err
		}
	} else {
		p, err := s.Validate(ctx, src)
		if err != nil {
			return nil, err
		}
		if err := p.Report.Err(); err != nil {
			return nil, err
		}
		tree, name = p.Tree.Freeze(0), p.Sidebar
	}

	var out *render.Sidebar
	err := s.stage(observability.WithSidebar(ctx, name), StageRender, func(ctx context.Context) error {
		var err error
		out, err = render.NewAdapter(site, render.WithTitles(s.Titles()), render.WithLogger(s.logger)).Render(name, tree)
		return err
	})
	return out, err
}

func (s *Service) publish(ctx context.Context, ev natsbus.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		observability.WarnContext(ctx, "Failed to publish event", slog.String("type", string(ev.Type)), logfields.Error(err))
	}
}

// load reads and normalizes the selected sidebar of src. Stored revisions
// load as frozen trees.
func (s *Service) load(ctx context.Context, src Source) (*loaded, error) {
	if src.Kind == SourceRevision {
		return s.loadRevision(ctx, src)
	}

	var doc *ingest.Document
	var err error
	switch src.Kind {
	case SourceGit:
		repo, oerr := git.Open(s.repoPath)
		if oerr != nil {
			return nil, oerr
		}
		data, rerr := repo.ReadFile(src.Ref, src.Path)
		if rerr != nil {
			return nil, rerr
		}
		doc, err = ingest.Parse(data)
	default:
		doc, err = ingest.ParseFile(src.Path)
	}
	if err != nil {
		return nil, err
	}

	sb, err := doc.Sidebar(s.sidebar)
	if err != nil {
		return nil, err
	}
	res := sb.Normalize()
	for _, w := range res.Warnings {
		observability.WarnContext(ctx, "Normalization warning",
			logfields.Sidebar(res.Name),
			logfields.Path(w.Path.String()),
			slog.Int("line", w.Line),
			slog.String("message", w.Message))
	}
	return &loaded{name: res.Name, tree: res.Tree, warnings: res.Warnings}, nil
}

func (s *Service) loadRevision(ctx context.Context, src Source) (*loaded, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	name := s.sidebar
	if name == "" {
		names, err := s.store.Sidebars(ctx)
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			return nil, revision.ErrRevisionNotFound
		}
		name = names[0]
	}

	var rev *revision.Revision
	var err error
	if src.Number == 0 {
		rev, err = s.store.Latest(ctx, name)
	} else {
		rev, err = s.store.Get(ctx, name, src.Number)
	}
	if err != nil {
		return nil, err
	}
	tree, err := rev.Tree()
	if err != nil {
		return nil, err
	}
	return &loaded{name: name, tree: tree}, nil
}
