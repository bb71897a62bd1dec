package docs

import (
	"log/slog"

	"github.com/Mshivam2409/rustduino/internal/git"
	"github.com/Mshivam2409/rustduino/internal/logfields"
)

// ScanGit catalogs the documents under dir at revision ref, using the same
// id and title rules as Scan.
func ScanGit(repo *git.Repo, ref, dir string, exts []string) (*Catalog, error) {
	c := NewCatalog(exts...)
	err := repo.WalkFiles(ref, dir, func(rel string, content []byte) error {
		if !c.Accepts(rel) {
			return nil
		}
		if _, err := c.Add(rel, content); err != nil {
			slog.Warn("Skipping document", logfields.File(rel), slog.String("ref", ref), logfields.Error(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Debug("Documents catalogued from git", slog.String("ref", ref), logfields.Path(dir), slog.Int("count", c.Len()))
	return c, nil
}
