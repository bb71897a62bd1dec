package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Mshivam2409/rustduino/internal/build"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	mu        sync.Mutex
	passes    []build.Source
	refreshes int
}

func (r *fakeRunner) Validate(_ context.Context, src build.Source) (*build.Pass, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.passes = append(r.passes, src)
	return &build.Pass{Source: src.String(), Status: build.StatusClean}, nil
}

func (r *fakeRunner) RefreshOracle(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshes++
	return nil
}

func (r *fakeRunner) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.passes), r.refreshes
}

func startWatcher(t *testing.T, runner Runner, opts Options) {
	t.Helper()
	w, err := New(runner, opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})
}

func TestWatcher_InitialPassAndSidebarChange(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sidebars.yaml")
	require.NoError(t, os.WriteFile(file, []byte("- index\n"), 0o600))

	runner := &fakeRunner{}
	var mu sync.Mutex
	var seen []string
	startWatcher(t, runner, Options{
		SidebarFile: file,
		Debounce:    20 * time.Millisecond,
		OnPass: func(p *build.Pass, err error) {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, p.Source)
		},
	})

	require.Eventually(t, func() bool { n, _ := runner.counts(); return n == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(file, []byte("- index\n- install\n"), 0o600))
	require.Eventually(t, func() bool { n, _ := runner.counts(); return n >= 2 }, 2*time.Second, 10*time.Millisecond)

	_, refreshes := runner.counts()
	assert.Zero(t, refreshes)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, file, seen[0])
}

func TestWatcher_DocsChangeRefreshesOracle(t *testing.T) {
	dir := t.TempDir()
	docsDir := filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(docsDir, 0o750))
	file := filepath.Join(dir, "sidebars.yaml")
	require.NoError(t, os.WriteFile(file, []byte("- index\n"), 0o600))

	runner := &fakeRunner{}
	startWatcher(t, runner, Options{SidebarFile: file, DocsDir: docsDir, Debounce: 20 * time.Millisecond})
	require.Eventually(t, func() bool { n, _ := runner.counts(); return n == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(docsDir, "gpio.md"), []byte("# GPIO\n"), 0o600))
	require.Eventually(t, func() bool {
		n, r := runner.counts()
		return n >= 2 && r >= 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sidebars.yaml")
	require.NoError(t, os.WriteFile(file, []byte("- index\n"), 0o600))

	runner := &fakeRunner{}
	startWatcher(t, runner, Options{SidebarFile: file, Debounce: 20 * time.Millisecond})
	require.Eventually(t, func() bool { n, _ := runner.counts(); return n == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	time.Sleep(150 * time.Millisecond)
	n, _ := runner.counts()
	assert.Equal(t, 1, n)
}

func TestWatcher_PeriodicRecheck(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sidebars.yaml")
	require.NoError(t, os.WriteFile(file, []byte("- index\n"), 0o600))

	runner := &fakeRunner{}
	startWatcher(t, runner, Options{SidebarFile: file, Recheck: 50 * time.Millisecond})

	require.Eventually(t, func() bool {
		n, r := runner.counts()
		return n >= 2 && r >= 1
	}, 3*time.Second, 10*time.Millisecond)
}

func TestShouldIgnoreEvent(t *testing.T) {
	for path, want := range map[string]bool{
		"docs/.hidden.md": true,
		"docs/index.md~":  true,
		"docs/.index.swp": true,
		"docs/#index.md#": true,
		"docs/index.md":   false,
		"sidebars.yaml":   false,
	} {
		assert.Equal(t, want, shouldIgnoreEvent(path), path)
	}
}

func TestWithin(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, within(dir, filepath.Join(dir, "a", "b.md")))
	assert.False(t, within(dir, filepath.Join(filepath.Dir(dir), "other.md")))
	assert.False(t, within(filepath.Join(dir, "docs"), filepath.Join(dir, "docs-old", "x.md")))
}
