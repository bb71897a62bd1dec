package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	ferrors "github.com/Mshivam2409/rustduino/internal/foundation/errors"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRepo commits each snapshot in turn and returns the commit hashes.
func testRepo(t *testing.T, snapshots ...map[string]string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	w, err := repo.Worktree()
	require.NoError(t, err)

	var commits []string
	for i, files := range snapshots {
		for rel, content := range files {
			p := filepath.Join(dir, filepath.FromSlash(rel))
			require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
			require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
		}
		_, err := w.Add(".")
		require.NoError(t, err)
		h, err := w.Commit("snapshot", &gogit.CommitOptions{
			Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Unix(int64(1700000000+i), 0)},
		})
		require.NoError(t, err)
		commits = append(commits, h.String())
	}
	return dir, commits
}

func TestRepo_ReadFileAtRevision(t *testing.T) {
	dir, commits := testRepo(t,
		map[string]string{"docs/sidebars.yaml": "- index\n"},
		map[string]string{"docs/sidebars.yaml": "- index\n- install\n"},
	)
	r, err := Open(dir)
	require.NoError(t, err)

	head, err := r.ReadFile("HEAD", "docs/sidebars.yaml")
	require.NoError(t, err)
	assert.Equal(t, "- index\n- install\n", string(head))

	first, err := r.ReadFile(commits[0], "./docs/sidebars.yaml")
	require.NoError(t, err)
	assert.Equal(t, "- index\n", string(first))

	resolved, err := r.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, commits[1], resolved)
}

func TestRepo_WalkFilesAndTreeHash(t *testing.T) {
	dir, commits := testRepo(t,
		map[string]string{"docs/index.md": "# Home\n", "docs/embedded/gpio.md": "# GPIO\n", "README.md": "x"},
		map[string]string{"README.md": "changed"},
		map[string]string{"docs/index.md": "# Home v2\n"},
	)
	r, err := Open(dir)
	require.NoError(t, err)

	got := map[string]string{}
	require.NoError(t, r.WalkFiles("HEAD", "docs", func(rel string, content []byte) error {
		got[rel] = string(content)
		return nil
	}))
	assert.Equal(t, map[string]string{"index.md": "# Home v2\n", "embedded/gpio.md": "# GPIO\n"}, got)

	h0, err := r.TreeHash(commits[0], "docs")
	require.NoError(t, err)
	h1, err := r.TreeHash(commits[1], "docs")
	require.NoError(t, err)
	h2, err := r.TreeHash(commits[2], "docs")
	require.NoError(t, err)
	assert.Equal(t, h0, h1, "docs untouched")
	assert.NotEqual(t, h1, h2)
}

func TestRepo_NotFoundErrors(t *testing.T) {
	dir, _ := testRepo(t, map[string]string{"docs/index.md": "# Home\n"})
	r, err := Open(dir)
	require.NoError(t, err)

	_, err = r.ReadFile("HEAD", "docs/missing.yaml")
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound), "got %v", err)

	_, err = r.ReadFile("no-such-branch", "docs/index.md")
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound), "got %v", err)

	_, err = r.TreeHash("HEAD", "nope")
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound), "got %v", err)

	_, err = Open(t.TempDir())
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound), "got %v", err)
}

func TestSplitRevPath(t *testing.T) {
	tests := []struct {
		in        string
		ref, file string
		ok        bool
	}{
		{"HEAD:docs/sidebars.yaml", "HEAD", "docs/sidebars.yaml", true},
		{"v1.0:sidebars.yaml", "v1.0", "sidebars.yaml", true},
		{"sidebars.yaml", "", "", false},
		{`C:\docs\sidebars.yaml`, "", "", false},
		{"main:", "", "", false},
	}
	for _, tt := range tests {
		ref, file, ok := SplitRevPath(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.ref, ref, tt.in)
		assert.Equal(t, tt.file, file, tt.in)
	}
}
