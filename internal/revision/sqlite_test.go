package revision

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Mshivam2409/rustduino/internal/foundation/errors"
	"github.com/Mshivam2409/rustduino/internal/merge"
	"github.com/Mshivam2409/rustduino/internal/navtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cat(label string, children ...navtree.Node) navtree.Category {
	return navtree.Category{Label: label, Children: children}
}

func doc(id string) navtree.DocRef { return navtree.DocRef{ID: id} }

func tree(nodes ...navtree.Node) *navtree.Tree { return navtree.NewTree(nodes...) }

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "state", "revisions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	store.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return store
}

func TestSQLiteStore_CommitNumbersPerSidebar(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	r1, err := store.Commit(ctx, "docs", tree(cat("Core", doc("power"))), CommitOptions{Note: "initial"})
	require.NoError(t, err)
	assert.Equal(t, 1, r1.Revision.Number)
	assert.False(t, r1.Unchanged)
	assert.NotEmpty(t, r1.Revision.ID)
	assert.NotEmpty(t, r1.Revision.Fingerprint)

	r2, err := store.Commit(ctx, "docs", tree(cat("Core", doc("power"), doc("gpio"))), CommitOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, r2.Revision.Number)

	other, err := store.Commit(ctx, "api", tree(doc("api/index")), CommitOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, other.Revision.Number)

	sidebars, err := store.Sidebars(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"api", "docs"}, sidebars)

	latest, err := store.Latest(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, r2.Revision.ID, latest.ID)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), latest.CreatedAt)

	first, err := store.Get(ctx, "docs", 1)
	require.NoError(t, err)
	assert.Equal(t, "initial", first.Note)
}

func TestSQLiteStore_UnchangedCommitIsSkipped(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first, err := store.Commit(ctx, "docs", tree(cat("Core", doc("power"))), CommitOptions{})
	require.NoError(t, err)

	again, err := store.Commit(ctx, "docs", tree(cat("Core", doc("power"))), CommitOptions{Note: "noop"})
	require.NoError(t, err)
	assert.True(t, again.Unchanged)
	assert.Equal(t, first.Revision.ID, again.Revision.ID)
	assert.Empty(t, again.Changes)

	history, err := store.History(ctx, "docs", 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestSQLiteStore_RecordsChangesAndConflicts(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Commit(ctx, "docs", tree(
		cat("Communication", doc("usart"), doc("i2c")),
		doc("legacy"),
	), CommitOptions{})
	require.NoError(t, err)

	next := tree(
		cat("Communication", doc("usart")),
		cat("Sensors", doc("i2c"), doc("aht10")),
	)
	conflicts := merge.ConflictLog{{
		ID:           "i2c",
		BasePath:     navtree.Path{"Communication", "i2c"},
		IncomingPath: navtree.Path{"Sensors", "i2c"},
		Resolution:   merge.ResolutionIncoming,
	}}
	res, err := store.Commit(ctx, "docs", next, CommitOptions{Conflicts: conflicts})
	require.NoError(t, err)

	want := []Change{
		{Kind: ChangeConflict, DocID: "i2c", From: "Communication > i2c", To: "Sensors > i2c"},
		{Kind: ChangeMoved, DocID: "i2c", From: "Communication > i2c", To: "Sensors > i2c"},
		{Kind: ChangeAdded, DocID: "aht10", To: "Sensors > aht10"},
		{Kind: ChangeRemoved, DocID: "legacy", From: "legacy"},
	}
	assert.Equal(t, want, res.Changes)

	stored, err := store.Changes(ctx, res.Revision.ID)
	require.NoError(t, err)
	assert.Equal(t, want, stored)
}

func TestSQLiteStore_FirstCommitLogsAdditions(t *testing.T) {
	store := newTestStore(t)

	res, err := store.Commit(context.Background(), "docs", tree(doc("index"), cat("Core", doc("gpio"))), CommitOptions{})
	require.NoError(t, err)
	assert.Equal(t, []Change{
		{Kind: ChangeAdded, DocID: "index", To: "index"},
		{Kind: ChangeAdded, DocID: "gpio", To: "Core > gpio"},
	}, res.Changes)
}

func TestRevision_TreeRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	original := tree(
		doc("index"),
		cat("Arduino", doc("arduino/index"), cat("Peripherals", doc("arduino/gpio"))),
		cat("Empty"),
	)
	_, err := store.Commit(ctx, "docs", original, CommitOptions{})
	require.NoError(t, err)

	rev, err := store.Latest(ctx, "docs")
	require.NoError(t, err)
	restored, err := rev.Tree()
	require.NoError(t, err)
	assert.True(t, restored.Equal(original))
	assert.True(t, restored.Frozen())
	assert.Equal(t, 1, restored.Revision())
}

func TestSQLiteStore_RejectsUnresolvedTree(t *testing.T) {
	store := newTestStore(t)

	bad := tree(navtree.Unresolved{RawType: "html", Reason: "unsupported item type"})
	_, err := store.Commit(context.Background(), "docs", bad, CommitOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnresolvedTree)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestSQLiteStore_NotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Latest(ctx, "docs")
	assert.ErrorIs(t, err, ErrRevisionNotFound)

	_, err = store.Get(ctx, "docs", 3)
	assert.ErrorIs(t, err, ErrRevisionNotFound)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))

	history, err := store.History(ctx, "docs", 5)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSQLiteStore_HistoryNewestFirstWithLimit(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, ids := range [][]string{{"a"}, {"a", "b"}, {"a", "b", "c"}} {
		nodes := make([]navtree.Node, 0, len(ids))
		for _, id := range ids {
			nodes = append(nodes, doc(id))
		}
		_, err := store.Commit(ctx, "docs", tree(nodes...), CommitOptions{})
		require.NoError(t, err)
	}

	history, err := store.History(ctx, "docs", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 3, history[0].Number)
	assert.Equal(t, 2, history[1].Number)
}

func TestRevision_TreeCorruptContent(t *testing.T) {
	rev := &Revision{ID: "x", Sidebar: "docs", Number: 1, Content: []byte("other:\n  - a\n")}
	_, err := rev.Tree()
	assert.ErrorIs(t, err, ErrCorruptRevision)
}
