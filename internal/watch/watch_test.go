package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewNoFiles(t *testing.T) {
	_, err := New(nil, 0, nil)
	assert.Error(t, err)
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New([]string{"/nonexistent/dir/reactor.yaml"}, 0, nil)
	assert.Error(t, err)
}

func TestRunReportsTrackedChanges(t *testing.T) {
	dir := t.TempDir()
	tracked := filepath.Join(dir, "reactor.yaml")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(tracked, []byte("title: a\n"), 0o644))

	w, err := New([]string{tracked}, 50*time.Millisecond, zap.NewNop())
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	calls := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() { calls <- struct{}{} })
	}()

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	select {
	case <-calls:
		t.Fatal("change to an untracked file triggered a rebuild")
	case <-time.After(300 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(tracked, []byte("title: b\n"), 0o644))
	require.NoError(t, os.WriteFile(tracked, []byte("title: c\n"), 0o644))
	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild after tracked file changed")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
