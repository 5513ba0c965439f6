package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcherDebounces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "part.stl")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	var calls atomic.Int32
	changed := make(chan string, 4)
	fw, err := NewFileWatcher(150*time.Millisecond, func(p string) {
		calls.Add(1)
		changed <- p
	})
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, fw.Watch(path, path))
	assert.Equal(t, 1, fw.Files())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fw.Run(ctx) }()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte('b' + i)}, 0o644))
	}

	select {
	case p := <-changed:
		abs, _ := filepath.Abs(path)
		assert.Equal(t, abs, p)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	// give a second timer the chance to fire if debouncing failed
	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestFileWatcherMissingFile(t *testing.T) {
	fw, err := NewFileWatcher(time.Millisecond, func(string) {})
	require.NoError(t, err)
	defer fw.Close()

	err = fw.Watch(filepath.Join(t.TempDir(), "missing.stl"))
	assert.Error(t, err)
}

func TestFileWatcherNoCallbackAfterStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "part.stl")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))
	abs, err := filepath.Abs(path)
	require.NoError(t, err)

	var calls atomic.Int32
	fw, err := NewFileWatcher(20*time.Millisecond, func(string) { calls.Add(1) })
	require.NoError(t, err)
	defer fw.Close()
	require.NoError(t, fw.Watch(path))

	// a rename seen just before cancellation schedules a rewatch
	fw.rewatch(abs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, fw.Run(ctx), context.Canceled)

	fw.rewatch(abs)
	fw.handleFileChange(abs)

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}
