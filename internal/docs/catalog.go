package docs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	derrors "github.com/Mshivam2409/rustduino/internal/docs/errors"
	"github.com/Mshivam2409/rustduino/internal/frontmatter"
	"github.com/Mshivam2409/rustduino/internal/logfields"
	"github.com/Mshivam2409/rustduino/internal/markdown"
	"github.com/Mshivam2409/rustduino/internal/util/sets"
)

// Document is one catalogued documentation file.
type Document struct {
	ID    string `json:"id"`
	Path  string `json:"path"` // slash-separated, relative to the docs root
	Title string `json:"title,omitempty"`
}

// Catalog indexes documents by id. Build it with Scan or Add; once built it
// is read-only and safe for concurrent use.
type Catalog struct {
	exts       sets.Set[string]
	byID       map[string]Document
	duplicates map[string][]string
}

// NewCatalog returns an empty catalog accepting files with the given
// extensions (".md", ".mdx").
func NewCatalog(exts ...string) *Catalog {
	normalized := sets.New[string]()
	for _, e := range exts {
		normalized.Add(strings.ToLower(e))
	}
	return &Catalog{
		exts:       normalized,
		byID:       make(map[string]Document),
		duplicates: make(map[string][]string),
	}
}

// Accepts reports whether relPath is a document this catalog indexes. Files
// and directories whose name starts with '_' are partials and never indexed.
func (c *Catalog) Accepts(relPath string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(relPath), "/") {
		if strings.HasPrefix(seg, "_") {
			return false
		}
	}
	return c.exts.Has(strings.ToLower(path.Ext(relPath)))
}

// Add catalogs one file. A second file resolving to an existing id is
// recorded as a duplicate and reported with ErrDuplicateID; the first file
// keeps the id.
func (c *Catalog) Add(relPath string, content []byte) (Document, error) {
	relPath = filepath.ToSlash(relPath)

	fields, body, err := frontmatter.Parse(content)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %s: %w", derrors.ErrInvalidFrontmatter, relPath, err)
	}

	stem := strings.TrimSuffix(path.Base(relPath), path.Ext(relPath))
	local := strings.TrimSpace(fields.String("id"))
	if local == "" {
		local = stem
	}
	id := local
	if dir := path.Dir(relPath); dir != "." {
		id = dir + "/" + local
	}

	title := strings.TrimSpace(fields.String("sidebar_label"))
	if title == "" {
		title = strings.TrimSpace(fields.String("title"))
	}
	if title == "" {
		title = markdown.FirstHeading(body)
	}
	if title == "" {
		title = stem
	}

	doc := Document{ID: id, Path: relPath, Title: title}
	if _, exists := c.byID[id]; exists {
		c.duplicates[id] = append(c.duplicates[id], relPath)
		return doc, fmt.Errorf("%w: %s (%s)", derrors.ErrDuplicateID, id, relPath)
	}
	c.byID[id] = doc
	return doc, nil
}

// Scan walks root and catalogs every accepted file. Files with unreadable
// frontmatter or duplicate ids are logged and skipped so that references to
// them surface as validation issues instead of aborting the scan.
func Scan(root string, exts []string) (*Catalog, error) {
	if _, err := os.Stat(root); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", derrors.ErrDocsPathNotFound, root)
	}

	c := NewCatalog(exts...)
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		if !c.Accepts(rel) {
			return nil
		}
		content, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", derrors.ErrFileReadFailed, rel, err)
		}
		if _, err := c.Add(rel, content); err != nil {
			slog.Warn("Skipping document", logfields.File(filepath.ToSlash(rel)), logfields.Error(err))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", derrors.ErrDocsDirWalkFailed, root, err)
	}

	slog.Debug("Documents catalogued", logfields.Path(root), slog.Int("count", c.Len()))
	return c, nil
}

// Exists reports whether id names a catalogued document.
func (c *Catalog) Exists(_ context.Context, id string) (bool, error) {
	_, ok := c.byID[id]
	return ok, nil
}

// ExistsBatch returns the subset of ids that are catalogued.
func (c *Catalog) ExistsBatch(_ context.Context, ids []string) (sets.Set[string], error) {
	found := sets.New[string]()
	for _, id := range ids {
		if _, ok := c.byID[id]; ok {
			found.Add(id)
		}
	}
	return found, nil
}

// Title returns the display title of a document.
func (c *Catalog) Title(id string) (string, bool) {
	d, ok := c.byID[id]
	return d.Title, ok
}

// Get returns the catalogued document for id.
func (c *Catalog) Get(id string) (Document, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// Len returns the number of distinct ids.
func (c *Catalog) Len() int { return len(c.byID) }

// Documents returns every document sorted by id.
func (c *Catalog) Documents() []Document {
	out := make([]Document, 0, len(c.byID))
	for _, d := range c.byID {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Duplicates maps ids to the paths of the files that lost the id.
func (c *Catalog) Duplicates() map[string][]string {
	out := make(map[string][]string, len(c.duplicates))
	for id, paths := range c.duplicates {
		out[id] = append([]string(nil), paths...)
	}
	return out
}
