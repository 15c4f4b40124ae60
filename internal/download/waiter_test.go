package download

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestWaitRemovesMarkerAfterPolls(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "nested", "report.pdf.crdownload")
	touch(t, marker)
	touch(t, filepath.Join(dir, "done.pdf"))

	const cycles = 3
	var sleeps []time.Duration
	w := &Waiter{
		Dir:   dir,
		Grace: time.Second,
		Poll:  100 * time.Millisecond,
		Sleep: func(_ context.Context, d time.Duration) error {
			sleeps = append(sleeps, d)
			// 第 cycles 次轮询等待后下载完成
			if len(sleeps) == cycles+1 {
				require.NoError(t, os.Remove(marker))
			}
			return nil
		},
	}

	require.NoError(t, w.Wait(context.Background()))
	require.Len(t, sleeps, cycles+1)
	assert.Equal(t, time.Second, sleeps[0])
	for _, d := range sleeps[1:] {
		assert.Equal(t, 100*time.Millisecond, d)
	}
	_, err := os.Stat(marker)
	assert.True(t, os.IsNotExist(err))
}

func TestWaitNothingPending(t *testing.T) {
	sleeps := 0
	w := &Waiter{
		Dir:   t.TempDir(),
		Grace: time.Second,
		Poll:  time.Second,
		Sleep: func(context.Context, time.Duration) error { sleeps++; return nil },
	}
	require.NoError(t, w.Wait(context.Background()))
	assert.Equal(t, 1, sleeps)
}

func TestWaitTimeout(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "stalled.zip.crdownload"))

	w := &Waiter{Dir: dir, Poll: time.Millisecond, Timeout: 20 * time.Millisecond}
	err := w.Wait(context.Background())
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestPendingCustomSuffixes(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.part"))
	touch(t, filepath.Join(dir, "b.crdownload"))

	w := &Waiter{Dir: dir, Suffixes: []string{".part"}}
	pending, err := w.Pending()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.part")}, pending)
}

func TestPendingMissingDir(t *testing.T) {
	w := &Waiter{Dir: filepath.Join(t.TempDir(), "missing")}
	_, err := w.Pending()
	assert.Error(t, err)
}
