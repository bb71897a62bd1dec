package docs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	derrors "github.com/Mshivam2409/rustduino/internal/docs/errors"
	"github.com/Mshivam2409/rustduino/internal/oracle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDocs(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func TestScan_IDsAndTitles(t *testing.T) {
	root := writeDocs(t, map[string]string{
		"index.md":                    "---\nid: index\ntitle: Introduction\n---\n# Welcome\n",
		"install.md":                  "# Installing the toolchain\n",
		"embedded/data-protocols.md":  "---\nsidebar_label: Protocols\ntitle: Data Protocols\n---\n",
		"embedded/intro.mdx":          "---\nid: index\n---\nNo heading here.\n",
		"_partials/snippet.md":        "# Partial\n",
		"notes.txt":                   "not a doc",
		".git/HEAD.md":                "# hidden\n",
		"arduino/atmega2560p/gpio.md": "# GPIO\n",
	})

	c, err := Scan(root, []string{".md", ".mdx"})
	require.NoError(t, err)

	var ids []string
	for _, d := range c.Documents() {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"arduino/atmega2560p/gpio", "embedded/data-protocols", "embedded/index", "index", "install"}, ids)

	titles := map[string]string{
		"index":                    "Introduction",
		"install":                  "Installing the toolchain",
		"embedded/data-protocols":  "Protocols",
		"embedded/index":           "intro",
		"arduino/atmega2560p/gpio": "GPIO",
	}
	for id, want := range titles {
		got, ok := c.Title(id)
		require.True(t, ok, id)
		assert.Equal(t, want, got, id)
	}

	d, ok := c.Get("embedded/index")
	require.True(t, ok)
	assert.Equal(t, "embedded/intro.mdx", d.Path)
}

func TestScan_SkipsBrokenAndDuplicateFiles(t *testing.T) {
	root := writeDocs(t, map[string]string{
		"broken.md":    "---\nid: broken\n# never closed\n",
		"arduino/a.md": "---\nid: board\n---\n",
		"arduino/b.md": "---\nid: board\n---\n",
	})

	c, err := Scan(root, []string{".md"})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	d, ok := c.Get("arduino/board")
	require.True(t, ok)
	assert.Equal(t, "arduino/a.md", d.Path)
	assert.Equal(t, map[string][]string{"arduino/board": {"arduino/b.md"}}, c.Duplicates())

	ok, err = c.Exists(context.Background(), "broken")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "nope"), []string{".md"})
	require.ErrorIs(t, err, derrors.ErrDocsPathNotFound)
}

func TestCatalog_Add(t *testing.T) {
	c := NewCatalog(".md")
	assert.True(t, c.Accepts("guide/Intro.MD"))
	assert.False(t, c.Accepts("guide/_draft.md"))
	assert.False(t, c.Accepts("guide/image.png"))

	_, err := c.Add("guide/intro.md", []byte("# Intro\n"))
	require.NoError(t, err)
	_, err = c.Add("guide/intro.md", []byte("# Again\n"))
	require.ErrorIs(t, err, derrors.ErrDuplicateID)

	_, err = c.Add("bad.md", []byte("---\nid: [unclosed\n---\n"))
	require.ErrorIs(t, err, derrors.ErrInvalidFrontmatter)
}

func TestCatalog_IsBatchOracle(t *testing.T) {
	c := NewCatalog(".md")
	_, err := c.Add("index.md", []byte("# Home\n"))
	require.NoError(t, err)

	var o oracle.BatchOracle = c
	found, err := oracle.Lookup(context.Background(), o, []string{"index", "ghost"})
	require.NoError(t, err)
	assert.True(t, found.Has("index"))
	assert.False(t, found.Has("ghost"))
}
