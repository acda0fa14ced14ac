package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type recorder struct {
	mu    sync.Mutex
	calls [][]string
	err   error
	ch    chan struct{}
}

func newRecorder() *recorder { return &recorder{ch: make(chan struct{}, 8)} }

func (r *recorder) handle(_ context.Context, changed []string) error {
	r.mu.Lock()
	r.calls = append(r.calls, changed)
	r.mu.Unlock()
	r.ch <- struct{}{}
	return r.err
}

func (r *recorder) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.ch:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestNew_Errors(t *testing.T) {
	_, err := New([]string{t.TempDir()}, nil)
	assert.Error(t, err)

	_, err = New(nil, func(context.Context, []string) error { return nil })
	assert.Error(t, err)

	_, err = New([]string{filepath.Join(t.TempDir(), "missing.yaml")}, func(context.Context, []string) error { return nil })
	assert.Error(t, err)
}

func TestWatcher_FileChangeRunsHandler(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	run := filepath.Join(dir, "run.yaml")
	writeFile(t, run, "premium: 100000\n")

	rec := newRecorder()
	w, err := New([]string{run}, rec.handle, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	assert.True(t, w.IsWatching())

	// Several quick saves settle into one run.
	writeFile(t, run, "premium: 150000\n")
	writeFile(t, run, "premium: 200000\n")
	rec.wait(t)

	w.Stop()
	assert.False(t, w.IsWatching())

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.calls, 1)
	abs, _ := filepath.Abs(run)
	assert.Equal(t, []string{abs}, rec.calls[0])

	stats := w.Stats()
	assert.Equal(t, 1, stats.Runs)
	assert.GreaterOrEqual(t, stats.Events, 1)
	assert.Equal(t, []string{abs}, stats.LastChanged)
}

func TestWatcher_DirectoryFiltersByExtension(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	rec := newRecorder()
	w, err := New([]string{dir}, rec.handle, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")
	writeFile(t, filepath.Join(dir, "MYGA7.yaml"), "code: MYGA7\n")
	rec.wait(t)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.calls, 1)
	require.Len(t, rec.calls[0], 1)
	assert.Equal(t, "MYGA7.yaml", filepath.Base(rec.calls[0][0]))
}

func TestWatcher_Relevant(t *testing.T) {
	dir := t.TempDir()
	run := filepath.Join(dir, "run.yaml")
	writeFile(t, run, "x: 1\n")
	tables := filepath.Join(dir, "tables")
	require.NoError(t, os.Mkdir(tables, 0o755))

	w, err := New([]string{run, tables}, func(context.Context, []string) error { return nil })
	require.NoError(t, err)
	defer w.Stop()

	absRun, _ := filepath.Abs(run)
	absTables, _ := filepath.Abs(tables)
	assert.True(t, w.Relevant(absRun))
	assert.False(t, w.Relevant(filepath.Join(filepath.Dir(absRun), "other.yaml")), "Only the named file in a file target's directory")
	assert.True(t, w.Relevant(filepath.Join(absTables, "2012IAM_M.csv")))
	assert.True(t, w.Relevant(filepath.Join(absTables, "spec.YML")))
	assert.False(t, w.Relevant(filepath.Join(absTables, "README.md")))
}

func TestWatcher_HandleEventIgnoresChmod(t *testing.T) {
	dir := t.TempDir()
	run := filepath.Join(dir, "run.yaml")
	writeFile(t, run, "x: 1\n")
	w, err := New([]string{run}, func(context.Context, []string) error { return nil })
	require.NoError(t, err)

	abs, _ := filepath.Abs(run)
	w.handleEvent(fsnotify.Event{Name: abs, Op: fsnotify.Chmod})
	assert.Equal(t, 0, w.Stats().Events)

	w.handleEvent(fsnotify.Event{Name: abs, Op: fsnotify.Write})
	assert.Equal(t, 1, w.Stats().Events)

	now := time.Now()
	assert.Nil(t, w.settled(now), "Still inside the quiet period")
	assert.Equal(t, []string{abs}, w.settled(now.Add(time.Second)))
	assert.Nil(t, w.settled(now.Add(2*time.Second)), "Pending set is drained")
	w.Stop()
}

func TestWatcher_TriggerRecordsErrors(t *testing.T) {
	dir := t.TempDir()
	run := filepath.Join(dir, "run.yaml")
	writeFile(t, run, "x: 1\n")

	rec := newRecorder()
	rec.err = errors.New("product MYGA9 not found")
	w, err := New([]string{run, dir}, rec.handle)
	require.NoError(t, err)

	err = w.Trigger(context.Background())
	require.Error(t, err)

	stats := w.Stats()
	assert.Equal(t, 1, stats.Runs)
	assert.Equal(t, 1, stats.Errors)
	assert.EqualError(t, stats.LastHandleErr, "product MYGA9 not found")
	assert.Len(t, stats.LastChanged, 1, "Trigger reports file targets only")
	w.Stop()
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	w, err := New([]string{dir}, func(context.Context, []string) error { return nil })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	require.NoError(t, w.Start(ctx), "Second start is a no-op")
	cancel()

	w.Stop()
	w.Stop()
	assert.False(t, w.IsWatching())
	assert.Error(t, w.Start(context.Background()), "A stopped watcher cannot restart")
}

func TestWatcher_ContextCancelEndsWatching(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := New([]string{t.TempDir()}, func(context.Context, []string) error { return nil })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	assert.True(t, w.IsWatching())

	cancel()
	assert.Eventually(t, func() bool { return !w.IsWatching() }, time.Second, 5*time.Millisecond)

	require.NoError(t, w.Start(context.Background()), "A cancelled watcher can start again")
	assert.True(t, w.IsWatching())
	w.Stop()
	assert.False(t, w.IsWatching())
}
