package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Mshivam2409/rustduino/internal/config"
	"github.com/Mshivam2409/rustduino/internal/metrics"
	"github.com/Mshivam2409/rustduino/internal/natsbus"
	"github.com/Mshivam2409/rustduino/internal/navtree"
	"github.com/Mshivam2409/rustduino/internal/oracle"
	"github.com/Mshivam2409/rustduino/internal/render"
	"github.com/Mshivam2409/rustduino/internal/revision"
	"github.com/Mshivam2409/rustduino/internal/validation"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseSidebar = `docs:
  - index
  - type: category
    label: Communication
    items:
      - usart
      - i2c
`

const incomingSidebar = `docs:
  - index
  - type: category
    label: Communication
    items:
      - usart
  - type: category
    label: Sensors
    items:
      - i2c
      - aht10
`

var knownDocs = []string{"index", "usart", "i2c", "aht10"}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []natsbus.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev natsbus.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

type recordingRecorder struct {
	metrics.NoopRecorder
	mu       sync.Mutex
	outcomes []string
	stages   map[string]metrics.ResultLabel
}

func (r *recordingRecorder) IncPassOutcome(o string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

func (r *recordingRecorder) IncStageResult(stage string, result metrics.ResultLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stages == nil {
		r.stages = make(map[string]metrics.ResultLabel)
	}
	r.stages[stage] = result
}

type downOracle struct{}

func (downOracle) Exists(context.Context, string) (bool, error) {
	return false, errors.New("connection refused")
}

func newStore(t *testing.T) *revision.SQLiteStore {
	t.Helper()
	st, err := revision.NewSQLiteStore(filepath.Join(t.TempDir(), "revisions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestParseSource(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "HEAD:odd.yaml", "- index\n")
	t.Chdir(dir)

	tests := []struct {
		raw  string
		want Source
	}{
		{"sidebars.yaml", Source{Kind: SourceFile, Path: "sidebars.yaml"}},
		{"HEAD~1:docs/sidebars.yaml", Source{Kind: SourceGit, Ref: "HEAD~1", Path: "docs/sidebars.yaml"}},
		{"HEAD:odd.yaml", Source{Kind: SourceFile, Path: "HEAD:odd.yaml"}},
		{"@latest", Source{Kind: SourceRevision}},
		{"@3", Source{Kind: SourceRevision, Number: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseSource(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.raw, got.String())
		})
	}

	for _, bad := range []string{"@0", "@-2", "@tip"} {
		_, err := ParseSource(bad)
		assert.ErrorIs(t, err, ErrInvalidRevision, bad)
	}
}

func TestValidate_CleanAndDangling(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "sidebars.yaml", baseSidebar)
	pub := &recordingPublisher{}
	rec := &recordingRecorder{}

	svc := NewService(WithOracle(oracle.NewStatic(knownDocs...)), WithPublisher(pub), WithRecorder(rec))
	p, err := svc.Validate(context.Background(), FileSource(file))
	require.NoError(t, err)
	assert.True(t, p.OK())
	assert.Equal(t, "docs", p.Sidebar)
	assert.NotEmpty(t, p.ID)

	svc = NewService(WithOracle(oracle.NewStatic("index", "usart")), WithPublisher(pub), WithRecorder(rec))
	p, err = svc.Validate(context.Background(), FileSource(file))
	require.NoError(t, err)
	assert.Equal(t, StatusIssues, p.Status)
	require.Len(t, p.Report.Issues, 1)
	var dangling *validation.DanglingReferenceError
	require.ErrorAs(t, p.Report.Issues[0], &dangling)
	assert.Equal(t, "i2c", dangling.ID)

	require.Len(t, pub.events, 2)
	assert.True(t, pub.events[0].OK)
	assert.False(t, pub.events[1].OK)
	assert.Equal(t, []string{metrics.OutcomeClean, metrics.OutcomeIssues}, rec.outcomes)
	assert.Equal(t, metrics.ResultSuccess, rec.stages[StageValidate])
}

func TestValidate_OracleUnavailableFailsPass(t *testing.T) {
	file := writeFile(t, t.TempDir(), "sidebars.yaml", baseSidebar)
	pub := &recordingPublisher{}
	rec := &recordingRecorder{}

	svc := NewService(WithOracle(downOracle{}), WithPublisher(pub), WithRecorder(rec))
	p, err := svc.Validate(context.Background(), FileSource(file))

	var unavailable *validation.OracleUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, StatusFailed, p.Status)
	assert.Empty(t, pub.events)
	assert.Equal(t, metrics.ResultFatal, rec.stages[StageValidate])
}

func TestValidate_MissingFile(t *testing.T) {
	svc := NewService()
	p, err := svc.Validate(context.Background(), FileSource(filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, err)
	assert.Equal(t, StatusFailed, p.Status)
}

func TestValidateAll_IndependentOutcomes(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", baseSidebar)
	missing := filepath.Join(dir, "missing.yaml")
	dup := writeFile(t, dir, "dup.yaml", "- index\n- type: category\n  label: Again\n  items: [index]\n")

	svc := NewService(WithOracle(oracle.NewStatic(knownDocs...)), WithConcurrency(2))
	outcomes := svc.ValidateAll(context.Background(), []Source{FileSource(good), FileSource(missing), FileSource(dup)})
	require.Len(t, outcomes, 3)

	assert.NoError(t, outcomes[0].Err)
	assert.True(t, outcomes[0].Pass.OK())
	assert.Error(t, outcomes[1].Err)
	require.NoError(t, outcomes[2].Err)
	assert.Equal(t, map[string]int{"duplicate": 1}, outcomes[2].Pass.Report.Counts())
}

func TestMergeAndCommit(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.yaml", baseSidebar)
	incoming := writeFile(t, dir, "incoming.yaml", incomingSidebar)
	pub := &recordingPublisher{}
	st := newStore(t)
	ctx := context.Background()

	svc := NewService(WithOracle(oracle.NewStatic(knownDocs...)), WithStore(st), WithPublisher(pub))

	p, err := svc.Merge(ctx, FileSource(base), FileSource(incoming))
	require.NoError(t, err)
	assert.Equal(t, StatusConflicts, p.Status)
	require.Len(t, p.Conflicts, 1)
	assert.Equal(t, "i2c", p.Conflicts[0].ID)
	assert.True(t, p.Report.OK())

	_, err = svc.Commit(ctx, p, CommitOptions{Strict: true})
	assert.ErrorIs(t, err, ErrUnresolvedConflicts)

	res, err := svc.Commit(ctx, p, CommitOptions{Note: "sensors"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Revision.Number)
	assert.Contains(t, res.Changes, revision.Change{
		Kind: revision.ChangeConflict, DocID: "i2c", From: "Communication > i2c", To: "Sensors > i2c",
	})

	again, err := svc.Commit(ctx, p, CommitOptions{})
	require.NoError(t, err)
	assert.True(t, again.Unchanged)

	last := pub.events[len(pub.events)-1]
	assert.Equal(t, natsbus.EventCommitted, last.Type)
	assert.Equal(t, 1, last.Revision)
	assert.Len(t, last.Conflicts, 1)
}

func TestCommit_RejectsInvalidPassAndMissingStore(t *testing.T) {
	file := writeFile(t, t.TempDir(), "sidebars.yaml", baseSidebar)
	ctx := context.Background()

	svc := NewService(WithOracle(oracle.NewStatic("index")))
	p, err := svc.Validate(ctx, FileSource(file))
	require.NoError(t, err)

	_, err = svc.Commit(ctx, p, CommitOptions{})
	assert.ErrorIs(t, err, ErrNoStore)

	svc = NewService(WithOracle(oracle.NewStatic("index")), WithStore(newStore(t)))
	_, err = svc.Commit(ctx, p, CommitOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed validation")
}

func TestResolve_ConflictedFile(t *testing.T) {
	conflicted := `docs:
  - index
<<<<<<< HEAD
  - type: category
    label: Communication
    items:
      - usart
      - i2c
=======
  - type: category
    label: Communication
    items:
      - usart
  - type: category
    label: Sensors
    items:
      - i2c
>>>>>>> feature/sensors
api:
  - api/index
`
	file := writeFile(t, t.TempDir(), "sidebars.yaml", conflicted)
	svc := NewService()

	passes, err := svc.Resolve(context.Background(), file)
	require.NoError(t, err)
	require.Len(t, passes, 2)

	docs := passes[0]
	assert.Equal(t, "docs", docs.Sidebar)
	require.Len(t, docs.Conflicts, 1)
	want := navtree.NewTree(
		navtree.DocRef{ID: "index"},
		navtree.Category{Label: "Communication", Children: []navtree.Node{navtree.DocRef{ID: "usart"}}},
		navtree.Category{Label: "Sensors", Children: []navtree.Node{navtree.DocRef{ID: "i2c"}}},
	)
	assert.True(t, docs.Tree.Equal(want))

	assert.Equal(t, "api", passes[1].Sidebar)
	assert.True(t, passes[1].OK())
}

func TestResolve_RequiresMarkers(t *testing.T) {
	file := writeFile(t, t.TempDir(), "sidebars.yaml", baseSidebar)
	_, err := NewService().Resolve(context.Background(), file)
	assert.ErrorIs(t, err, ErrNoConflictMarkers)
}

func TestRender_FileAndStoredRevision(t *testing.T) {
	file := writeFile(t, t.TempDir(), "sidebars.yaml", baseSidebar)
	st := newStore(t)
	ctx := context.Background()
	site := config.DefaultSite()

	svc := NewService(WithOracle(oracle.NewStatic(knownDocs...)), WithStore(st))
	out, err := svc.Render(ctx, FileSource(file), site)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Revision)
	assert.Equal(t, render.Instruction{Depth: 1, Kind: render.KindDoc, ID: "i2c", IsLeaf: true}, out.Items[3])

	p, err := svc.Validate(ctx, FileSource(file))
	require.NoError(t, err)
	_, err = svc.Commit(ctx, p, CommitOptions{})
	require.NoError(t, err)

	out, err = svc.Render(ctx, Source{Kind: SourceRevision}, site)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Revision)
	assert.Equal(t, "docs", out.Name)
	assert.Len(t, out.Items, 4)
}

func TestRender_RefusesInvalidTree(t *testing.T) {
	file := writeFile(t, t.TempDir(), "sidebars.yaml", baseSidebar)
	svc := NewService(WithOracle(oracle.NewStatic("index")))
	_, err := svc.Render(context.Background(), FileSource(file), config.DefaultSite())
	require.Error(t, err)
}

func TestValidate_GitSource(t *testing.T) {
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	w, err := repo.Worktree()
	require.NoError(t, err)
	writeFile(t, dir, "sidebars.yaml", baseSidebar)
	_, err = w.Add("sidebars.yaml")
	require.NoError(t, err)
	_, err = w.Commit("add sidebar", &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Unix(1700000000, 0)},
	})
	require.NoError(t, err)

	// the working copy diverges from the committed file
	writeFile(t, dir, "sidebars.yaml", "docs:\n  - missing\n")

	svc := NewService(WithRepo(dir), WithOracle(oracle.NewStatic(knownDocs...)))
	p, err := svc.Validate(context.Background(), Source{Kind: SourceGit, Ref: "HEAD", Path: "sidebars.yaml"})
	require.NoError(t, err)
	assert.True(t, p.OK())
	assert.Equal(t, "HEAD:sidebars.yaml", p.Source)
}

func TestFromConfig(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "sidebars.yaml", baseSidebar)

	cfg := config.Default()
	cfg.Oracle.Type = config.OracleStatic
	cfg.Oracle.Static = knownDocs
	cfg.Store.Path = filepath.Join(dir, "state", "revisions.db")
	cfg.Metrics.Textfile = filepath.Join(dir, "navbuilder.prom")

	svc, err := FromConfig(context.Background(), cfg, Needs{Oracle: true, Store: true})
	require.NoError(t, err)
	require.NotNil(t, svc.Store())
	assert.Nil(t, svc.Titles())

	p, err := svc.Validate(context.Background(), FileSource(file))
	require.NoError(t, err)
	assert.True(t, p.OK())

	require.NoError(t, svc.Close())
	data, err := os.ReadFile(cfg.Metrics.Textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "navbuilder_pass_outcomes_total")
}

func TestFromConfig_FilesystemOracleRefresh(t *testing.T) {
	dir := t.TempDir()
	docsDir := filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(docsDir, 0o750))
	writeFile(t, docsDir, "index.md", "# Welcome\n")
	file := writeFile(t, dir, "sidebars.yaml", "docs:\n  - index\n  - gpio\n")

	cfg := config.Default()
	cfg.Docs.Path = docsDir
	svc, err := FromConfig(context.Background(), cfg, Needs{Oracle: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	assert.Equal(t, "Welcome", svc.Titles()("index"))

	p, err := svc.Validate(context.Background(), FileSource(file))
	require.NoError(t, err)
	assert.Equal(t, StatusIssues, p.Status)

	writeFile(t, docsDir, "gpio.md", "# GPIO\n")
	require.NoError(t, svc.RefreshOracle(context.Background()))

	p, err = svc.Validate(context.Background(), FileSource(file))
	require.NoError(t, err)
	assert.True(t, p.OK())
}
