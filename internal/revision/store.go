// Package revision persists committed navigation trees and their change logs.
//
// Each sidebar has its own numbered revision sequence. A revision stores the
// canonical YAML of one sidebar, so any revision can be loaded back into a
// frozen tree. Committing content identical to the latest revision is a
// no-op; otherwise the placement diff against the latest revision, plus any
// merge conflicts resolved on the way, is recorded as the change log.
package revision

import (
	"context"
	"time"

	"github.com/Mshivam2409/rustduino/internal/ingest"
	"github.com/Mshivam2409/rustduino/internal/merge"
	"github.com/Mshivam2409/rustduino/internal/navtree"
)

// Store defines persistence of navigation revisions.
type Store interface {
	// Commit stores tree as the next revision of sidebar.
	Commit(ctx context.Context, sidebar string, tree *navtree.Tree, opts CommitOptions) (*CommitResult, error)

	// Latest returns the newest revision of sidebar.
	Latest(ctx context.Context, sidebar string) (*Revision, error)

	// Get returns revision number of sidebar.
	Get(ctx context.Context, sidebar string, number int) (*Revision, error)

	// History returns up to limit revisions of sidebar, newest first. limit <= 0 means all.
	History(ctx context.Context, sidebar string, limit int) ([]Revision, error)

	// Changes returns the change log recorded with a revision.
	Changes(ctx context.Context, revisionID string) ([]Change, error)

	// Sidebars lists sidebar names with at least one revision.
	Sidebars(ctx context.Context) ([]string, error)

	// Close closes the store and releases resources.
	Close() error
}

// Revision is one stored snapshot of a sidebar.
type Revision struct {
	ID          string
	Sidebar     string
	Number      int
	Fingerprint string
	Content     []byte
	Note        string
	CreatedAt   time.Time
}

// Tree decodes the stored content into a tree frozen at the revision number.
func (r *Revision) Tree() (*navtree.Tree, error) {
	doc, err := ingest.Parse(r.Content)
	if err != nil {
		return nil, corrupt(err, r.ID)
	}
	sb, err := doc.Sidebar(r.Sidebar)
	if err != nil {
		return nil, corrupt(err, r.ID)
	}
	return sb.Normalize().Tree.Freeze(r.Number), nil
}

// ChangeKind extends the placement diff kinds with resolved conflicts.
type ChangeKind string

const (
	ChangeAdded    = ChangeKind(navtree.ChangeAdded)
	ChangeRemoved  = ChangeKind(navtree.ChangeRemoved)
	ChangeMoved    = ChangeKind(navtree.ChangeMoved)
	ChangeConflict ChangeKind = "conflict"
)

// Change is one change-log entry. Paths use navtree.PathSeparator.
type Change struct {
	Kind  ChangeKind
	DocID string
	From  string
	To    string
}

// CommitOptions carries commit metadata.
type CommitOptions struct {
	Note      string
	Conflicts merge.ConflictLog
}

// CommitResult reports the outcome of Commit. When Unchanged is true,
// Revision is the existing latest revision and nothing was written.
type CommitResult struct {
	Revision  *Revision
	Changes   []Change
	Unchanged bool
}

func changesFrom(diff []navtree.Change, conflicts merge.ConflictLog) []Change {
	out := make([]Change, 0, len(diff)+len(conflicts))
	for _, c := range conflicts {
		out = append(out, Change{Kind: ChangeConflict, DocID: c.ID, From: c.BasePath.String(), To: c.IncomingPath.String()})
	}
	for _, d := range diff {
		ch := Change{Kind: ChangeKind(d.Kind), DocID: d.ID}
		if len(d.From) > 0 {
			ch.From = d.From.String()
		}
		if len(d.To) > 0 {
			ch.To = d.To.String()
		}
		out = append(out, ch)
	}
	return out
}
