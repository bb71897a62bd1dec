package git

import (
	"io"
	"path"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repo is a read-only view of a git repository.
type Repo struct {
	path string
	repo *git.Repository
}

// Open opens the repository at path, searching parent directories for .git.
func Open(repoPath string) (*Repo, error) {
	r, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, ClassifyGitError(err, "open", repoPath)
	}
	return &Repo{path: repoPath, repo: r}, nil
}

// FromRepository wraps an already opened repository (tests use in-memory ones).
func FromRepository(r *git.Repository, name string) *Repo {
	return &Repo{path: name, repo: r}
}

// Resolve returns the commit hash a revision ("HEAD", "main", "v1.2", a
// short SHA) points to.
func (r *Repo) Resolve(ref string) (string, error) {
	c, err := r.commit(ref)
	if err != nil {
		return "", err
	}
	return c.Hash.String(), nil
}

// ReadFile returns the content of file at revision ref.
func (r *Repo) ReadFile(ref, file string) ([]byte, error) {
	c, err := r.commit(ref)
	if err != nil {
		return nil, err
	}
	f, err := c.File(cleanPath(file))
	if err != nil {
		return nil, ClassifyGitError(err, "read", ref+":"+file)
	}
	rd, err := f.Reader()
	if err != nil {
		return nil, ClassifyGitError(err, "read", ref+":"+file)
	}
	defer rd.Close()
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, ClassifyGitError(err, "read", ref+":"+file)
	}
	return data, nil
}

// WalkFiles calls fn for every file under dir at revision ref, with paths
// relative to dir, in tree order. An empty dir or "." walks the whole tree.
func (r *Repo) WalkFiles(ref, dir string, fn func(rel string, content []byte) error) error {
	tree, err := r.tree(ref, dir)
	if err != nil {
		return err
	}
	return tree.Files().ForEach(func(f *object.File) error {
		content, err := f.Contents()
		if err != nil {
			return ClassifyGitError(err, "read", ref+":"+path.Join(dir, f.Name))
		}
		return fn(f.Name, []byte(content))
	})
}

// TreeHash returns the hash of the tree at dir for revision ref. It changes
// exactly when some file below dir changes.
func (r *Repo) TreeHash(ref, dir string) (string, error) {
	tree, err := r.tree(ref, dir)
	if err != nil {
		return "", err
	}
	return tree.Hash.String(), nil
}

func (r *Repo) tree(ref, dir string) (*object.Tree, error) {
	c, err := r.commit(ref)
	if err != nil {
		return nil, err
	}
	root, err := c.Tree()
	if err != nil {
		return nil, ClassifyGitError(err, "tree", ref)
	}
	dir = cleanPath(dir)
	if dir == "" {
		return root, nil
	}
	sub, err := root.Tree(dir)
	if err != nil {
		return nil, ClassifyGitError(err, "tree", ref+":"+dir)
	}
	return sub, nil
}

func (r *Repo) commit(ref string) (*object.Commit, error) {
	if ref == "" {
		ref = "HEAD"
	}
	h, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, ClassifyGitError(err, "resolve", ref)
	}
	c, err := r.repo.CommitObject(*h)
	if err != nil {
		return nil, ClassifyGitError(err, "commit", ref)
	}
	return c, nil
}

func cleanPath(p string) string {
	p = strings.Trim(path.Clean("/"+strings.ReplaceAll(p, "\\", "/")), "/")
	return p
}

// SplitRevPath splits a "ref:path" source into its parts. ok is false when
// s carries no ref, e.g. a plain file path or a Windows drive letter.
func SplitRevPath(s string) (ref, file string, ok bool) {
	i := strings.Index(s, ":")
	if i <= 1 || i == len(s)-1 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}
