package reload_test

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/pipeline/reload"
)

type journal struct {
	calls []string
}

type mockShader struct {
	j    *journal
	path string
	fail bool
}

func (s *mockShader) Path() string { return s.path }

func (s *mockShader) Reload() error {
	s.j.calls = append(s.j.calls, "reload "+filepath.Base(s.path))
	if s.fail {
		return errors.New("compile failed")
	}
	return nil
}

type mockPass struct {
	j    *journal
	name string
}

func (p *mockPass) Free() error {
	p.j.calls = append(p.j.calls, "free "+p.name)
	return nil
}

func (p *mockPass) Load() error {
	p.j.calls = append(p.j.calls, "load "+p.name)
	return nil
}

func newWatcher(t *testing.T, opts ...reload.Option) *reload.Watcher {
	t.Helper()
	w, err := reload.New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	return w
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("void main() {}\n"), 0o644))
}

func TestWatcher_ApplyOrder(t *testing.T) {
	dir := t.TempDir()
	j := &journal{}
	vert := &mockShader{j: j, path: filepath.Join(dir, "a.vert")}
	frag := &mockShader{j: j, path: filepath.Join(dir, "a.frag")}
	touch(t, vert.path)
	touch(t, frag.path)
	first := &mockPass{j: j, name: "first"}
	second := &mockPass{j: j, name: "second"}

	w := newWatcher(t)
	require.NoError(t, w.Add(vert, first, second))
	require.NoError(t, w.Add(frag, first))

	require.True(t, w.Notify(vert.path))
	require.True(t, w.Notify(frag.path))
	n, err := w.Apply()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Paths are applied in sorted order: a.frag before a.vert.
	assert.Equal(t, []string{
		"free first", "free second",
		"reload a.frag", "reload a.vert",
		"load first", "load second",
	}, j.calls, "every pass freed once before any shader reloads")
	assert.Empty(t, w.Pending())
}

func TestWatcher_ApplyNothingPending(t *testing.T) {
	w := newWatcher(t)
	n, err := w.Apply()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestWatcher_ReloadFailureStillRelinks(t *testing.T) {
	dir := t.TempDir()
	j := &journal{}
	sh := &mockShader{j: j, path: filepath.Join(dir, "bad.frag"), fail: true}
	touch(t, sh.path)
	p := &mockPass{j: j, name: "p"}

	var logs bytes.Buffer
	w := newWatcher(t, reload.WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	require.NoError(t, w.Add(sh, p))
	require.True(t, w.Notify(sh.path))

	n, err := w.Apply()
	require.Error(t, err)
	assert.Zero(t, n)
	assert.Equal(t, []string{"free p", "reload bad.frag", "load p"}, j.calls)
	assert.Contains(t, logs.String(), "shader reload failed")
}

func TestWatcher_AddDeduplicates(t *testing.T) {
	dir := t.TempDir()
	j := &journal{}
	sh := &mockShader{j: j, path: filepath.Join(dir, "a.vert")}
	touch(t, sh.path)
	p := &mockPass{j: j, name: "p"}

	w := newWatcher(t)
	require.NoError(t, w.Add(sh, p))
	require.NoError(t, w.Add(sh, p))
	w.NotifyAll()

	_, err := w.Apply()
	require.NoError(t, err)
	assert.Equal(t, []string{"free p", "reload a.vert", "load p"}, j.calls)
}

func TestWatcher_AddInlineShader(t *testing.T) {
	w := newWatcher(t)
	err := w.Add(&mockShader{j: &journal{}})
	assert.ErrorIs(t, err, reload.ErrNoPath)
}

func TestWatcher_NotifyUnknownPath(t *testing.T) {
	w := newWatcher(t)
	assert.False(t, w.Notify("nowhere.frag"))
	assert.Empty(t, w.Pending())
}

func TestWatcher_FileEvent(t *testing.T) {
	dir := t.TempDir()
	j := &journal{}
	sh := &mockShader{j: j, path: filepath.Join(dir, "live.frag")}
	touch(t, sh.path)
	other := filepath.Join(dir, "other.frag")

	w := newWatcher(t)
	require.NoError(t, w.Add(sh))

	touch(t, other)
	touch(t, sh.path)

	select {
	case <-w.Changed():
	case <-time.After(5 * time.Second):
		t.Fatal("no change event")
	}
	require.Eventually(t, func() bool {
		return len(w.Pending()) == 1
	}, 5*time.Second, 10*time.Millisecond)

	abs, err := filepath.Abs(sh.path)
	require.NoError(t, err)
	assert.Equal(t, []string{abs}, w.Pending(), "unwatched files in the same directory are ignored")

	n, err := w.Apply()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
