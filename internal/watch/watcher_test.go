package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_DebouncesChangesToWatchedFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "doc.md")
	other := filepath.Join(dir, "other.md")
	require.NoError(t, os.WriteFile(target, []byte("a"), 0o600))

	changes := make(chan []string, 4)
	w, err := New([]string{target}, 150*time.Millisecond, func(_ context.Context, changed []string) {
		changes <- changed
	}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o600))
	for i := range 3 {
		require.NoError(t, os.WriteFile(target, []byte{byte('b' + i)}, 0o600))
	}

	select {
	case got := <-changes:
		abs, _ := filepath.Abs(target)
		assert.Equal(t, []string{abs}, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case got := <-changes:
		t.Fatalf("burst was not debounced, extra change %v", got)
	case <-time.After(500 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-done)
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "missing", "doc.md")}, 0, func(context.Context, []string) {}, nil)
	require.Error(t, err)
}

func TestWatcher_SkipsUnchangedContent(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(target, []byte("# same\n"), 0o600))

	changes := make(chan []string, 4)
	w, err := New([]string{target}, 50*time.Millisecond, func(_ context.Context, changed []string) {
		changes <- changed
	}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(target, []byte("# same\n"), 0o600))
	select {
	case got := <-changes:
		t.Fatalf("identical rewrite reported as change %v", got)
	case <-time.After(500 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(target, []byte("# different\n"), 0o600))
	select {
	case got := <-changes:
		require.Len(t, got, 1)
	case <-time.After(5 * time.Second):
		t.Fatal("content change not reported")
	}

	cancel()
	require.NoError(t, <-done)
}
