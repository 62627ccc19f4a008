package cli

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for the watch goroutine and the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchReportsOnSave(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeScene(t, `(cabinet "base")`)

	var out, errOut syncBuffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	go func() { done <- runContext(ctx, root, []string{"watch", path}, &errOut) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "0 errors")
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("(cabinet \"base\")\n(cabinet \"base\")\n"), 0o644))
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "1 errors")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case code := <-done:
		assert.Equal(t, exitSuccess, code)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
	assert.GreaterOrEqual(t, strings.Count(out.String(), "== scene.lisp"), 2, out.String())
}

func TestWatchDropsPendingReportOnCancel(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeScene(t, `(cabinet "base")`)

	var out, errOut syncBuffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	go func() { done <- runContext(ctx, root, []string{"watch", path}, &errOut) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "0 errors")
	}, 5*time.Second, 20*time.Millisecond)

	// Save, then stop before the debounce delay runs out.
	require.NoError(t, os.WriteFile(path, []byte("(cabinet \"base\")\n\n"), 0o644))
	time.Sleep(watchDelay / 3)
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}

	after := out.String()
	time.Sleep(3 * watchDelay)
	assert.Equal(t, after, out.String(), "nothing is printed once the watch has returned")
	assert.Equal(t, 1, strings.Count(after, "== scene.lisp"), after)
}
