package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_InitialBuildAndRebuildOnChange(t *testing.T) {
	dir := t.TempDir()

	var builds atomic.Int32
	w, err := New(dir, func(context.Context) error {
		builds.Add(1)
		return nil
	})
	require.NoError(t, err)
	w.debounceTime = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	// The initial full build runs before any file event.
	require.Eventually(t, func() bool { return builds.Load() >= 1 },
		2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "classFoo.xml"), []byte("<doxygen/>"), 0o644))
	require.Eventually(t, func() bool { return builds.Load() >= 2 },
		5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}

func TestWatcher_IgnoresNonXMLFiles(t *testing.T) {
	dir := t.TempDir()

	var builds atomic.Int32
	w, err := New(dir, func(context.Context) error {
		builds.Add(1)
		return nil
	})
	require.NoError(t, err)
	w.debounceTime = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	require.Eventually(t, func() bool { return builds.Load() == 1 },
		2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	time.Sleep(200 * time.Millisecond)
	require.Equal(t, int32(1), builds.Load())

	cancel()
	<-done
}

func TestNew_MissingDirectory(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "absent"), func(context.Context) error { return nil })
	require.NoError(t, err)

	// The add happens at start time, against the resolved path.
	err = w.Start(context.Background())
	require.Error(t, err)
}
