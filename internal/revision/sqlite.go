package revision

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Mshivam2409/rustduino/internal/ingest"
	"github.com/Mshivam2409/rustduino/internal/navtree"
	"github.com/google/uuid"
	"github.com/inful/mdfp"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// NewSQLiteStore opens (creating if needed) a revision database. Use
// ":memory:" for an in-memory store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, storeErr(err, "mkdir")
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, storeErr(err, "open")
	}
	// a single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, now: time.Now}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, storeErr(err, "initialize schema")
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS revisions (
		id TEXT PRIMARY KEY,
		sidebar TEXT NOT NULL,
		number INTEGER NOT NULL,
		fingerprint TEXT NOT NULL,
		content BLOB NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		UNIQUE (sidebar, number)
	);
	CREATE TABLE IF NOT EXISTS changes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		revision_id TEXT NOT NULL REFERENCES revisions(id),
		kind TEXT NOT NULL,
		doc_id TEXT NOT NULL,
		from_path TEXT NOT NULL DEFAULT '',
		to_path TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_changes_revision ON changes(revision_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Fingerprint returns the content fingerprint used to detect unchanged commits.
func Fingerprint(sidebar string, content []byte) string {
	return mdfp.CalculateFingerprintFromParts("sidebar: "+sidebar, string(content))
}

// Commit implements Store.
func (s *SQLiteStore) Commit(ctx context.Context, sidebar string, tree *navtree.Tree, opts CommitOptions) (*CommitResult, error) {
	content, err := ingest.Marshal(ingest.NamedTree{Name: sidebar, Tree: tree})
	if err != nil {
		if stderrors.Is(err, ingest.ErrUnresolvedNode) {
			return nil, ErrUnresolvedTree.WithContext("sidebar", sidebar)
		}
		return nil, storeErr(err, "marshal")
	}
	fp := Fingerprint(sidebar, content)

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeErr(err, "begin")
	}
	defer func() { _ = tx.Rollback() }()

	latest, err := scanRevision(tx.QueryRowContext(ctx, selectRevision+` WHERE sidebar = ? ORDER BY number DESC LIMIT 1`, sidebar))
	if err != nil && !stderrors.Is(err, sql.ErrNoRows) {
		return nil, storeErr(err, "latest")
	}

	prev := navtree.NewTree()
	number := 1
	if latest != nil {
		if latest.Fingerprint == fp {
			return &CommitResult{Revision: latest, Unchanged: true}, nil
		}
		if prev, err = latest.Tree(); err != nil {
			return nil, err
		}
		number = latest.Number + 1
	}

	rev := &Revision{
		ID:          uuid.NewString(),
		Sidebar:     sidebar,
		Number:      number,
		Fingerprint: fp,
		Content:     content,
		Note:        opts.Note,
		CreatedAt:   s.now().UTC().Truncate(time.Second),
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO revisions (id, sidebar, number, fingerprint, content, note, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rev.ID, rev.Sidebar, rev.Number, rev.Fingerprint, rev.Content, rev.Note, rev.CreatedAt.Unix(),
	); err != nil {
		return nil, storeErr(err, "insert revision")
	}

	changes := changesFrom(navtree.Diff(prev, tree), opts.Conflicts)
	for _, c := range changes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO changes (revision_id, kind, doc_id, from_path, to_path) VALUES (?, ?, ?, ?, ?)`,
			rev.ID, string(c.Kind), c.DocID, c.From, c.To,
		); err != nil {
			return nil, storeErr(err, "insert change")
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, storeErr(err, "commit")
	}
	return &CommitResult{Revision: rev, Changes: changes}, nil
}

const selectRevision = `SELECT id, sidebar, number, fingerprint, content, note, created_at FROM revisions`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRevision(row rowScanner) (*Revision, error) {
	var r Revision
	var created int64
	if err := row.Scan(&r.ID, &r.Sidebar, &r.Number, &r.Fingerprint, &r.Content, &r.Note, &created); err != nil {
		return nil, err
	}
	r.CreatedAt = time.Unix(created, 0).UTC()
	return &r, nil
}

func (s *SQLiteStore) one(ctx context.Context, op, where string, args ...any) (*Revision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, err := scanRevision(s.db.QueryRowContext(ctx, selectRevision+" WHERE "+where, args...))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, ErrRevisionNotFound.WithContext("query", fmt.Sprint(args...))
	}
	if err != nil {
		return nil, storeErr(err, op)
	}
	return r, nil
}

// Latest implements Store.
func (s *SQLiteStore) Latest(ctx context.Context, sidebar string) (*Revision, error) {
	return s.one(ctx, "latest", "sidebar = ? ORDER BY number DESC LIMIT 1", sidebar)
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, sidebar string, number int) (*Revision, error) {
	return s.one(ctx, "get", "sidebar = ? AND number = ?", sidebar, number)
}

// History implements Store.
func (s *SQLiteStore) History(ctx context.Context, sidebar string, limit int) ([]Revision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, selectRevision+` WHERE sidebar = ? ORDER BY number DESC LIMIT ?`, sidebar, limit)
	if err != nil {
		return nil, storeErr(err, "history")
	}
	defer rows.Close()

	var out []Revision
	for rows.Next() {
		r, err := scanRevision(rows)
		if err != nil {
			return nil, storeErr(err, "scan revision")
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "iterate revisions")
	}
	return out, nil
}

// Changes implements Store.
func (s *SQLiteStore) Changes(ctx context.Context, revisionID string) ([]Change, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, doc_id, from_path, to_path FROM changes WHERE revision_id = ? ORDER BY id`, revisionID)
	if err != nil {
		return nil, storeErr(err, "changes")
	}
	defer rows.Close()

	var out []Change
	for rows.Next() {
		var c Change
		var kind string
		if err := rows.Scan(&kind, &c.DocID, &c.From, &c.To); err != nil {
			return nil, storeErr(err, "scan change")
		}
		c.Kind = ChangeKind(kind)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "iterate changes")
	}
	return out, nil
}

// Sidebars implements Store.
func (s *SQLiteStore) Sidebars(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT sidebar FROM revisions ORDER BY sidebar`)
	if err != nil {
		return nil, storeErr(err, "sidebars")
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, storeErr(err, "scan sidebar")
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
