package commands

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/uomc/internal/testutil"
)

const testDebounce = 50 * time.Millisecond

func startWatcher(t *testing.T, files []string) (*atomic.Int32, func() error) {
	t.Helper()
	w, err := newFileWatcher(files, testutil.NewTestLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, testDebounce, func() { calls.Add(1) })
	}()
	return &calls, func() error {
		cancel()
		select {
		case err := <-done:
			return err
		case <-time.After(2 * time.Second):
			t.Fatal("watcher did not stop")
			return nil
		}
	}
}

func TestFileWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "si.uom", siDefs)
	calls, stop := startWatcher(t, []string{path})

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte(siDefs), 0o644))
	}

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(3 * testDebounce)
	assert.LessOrEqual(t, calls.Load(), int32(2))
	require.NoError(t, stop())
}

func TestFileWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "si.uom", siDefs)
	calls, stop := startWatcher(t, []string{path})

	testutil.WriteFile(t, dir, "notes.txt", "unrelated")
	time.Sleep(4 * testDebounce)
	assert.Equal(t, int32(0), calls.Load())
	require.NoError(t, stop())
}

func TestFileWatcher_MissingDirectory(t *testing.T) {
	_, err := newFileWatcher([]string{"/nonexistent/dir/si.uom"}, testutil.NewTestLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch")
}

func TestDebounceLoop_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan struct{}, 1)
	var calls atomic.Int32
	done := make(chan error, 1)
	go func() { done <- debounceLoop(ctx, changes, testDebounce, func() { calls.Add(1) }) }()

	changes <- struct{}{}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestWatchCommand_RejectsStdin(t *testing.T) {
	_, _, err := execute(t, NewWatchCommand(), "", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot watch stdin")
}
