package wait

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floppyio/floppyio-go/pkg/region"
	"github.com/floppyio/floppyio-go/pkg/wire"
)

func openTestRegion(t *testing.T) (*region.File, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "floppy.img")
	r, _, err := region.OpenFile(path, 64, false)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r, path
}

func TestNotifierWakesOnWrite(t *testing.T) {
	r, path := openTestRegion(t)

	n, err := NewNotifier(path)
	require.NoError(t, err)
	defer n.Close()
	n.Fallback = time.Hour

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = region.WriteByteAt(r, 63, byte(wire.FlagDataPresent))
		_ = r.Sync()
	}()

	start := time.Now()
	require.NoError(t, n.Wait(context.Background(), r, Present(63), 5*time.Second))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestNotifierFallbackPoll(t *testing.T) {
	r, path := openTestRegion(t)

	n, err := NewNotifier(path)
	require.NoError(t, err)
	defer n.Close()
	n.Fallback = 20 * time.Millisecond

	require.NoError(t, region.WriteByteAt(r, 62, byte(wire.FlagDataPresent)))
	require.NoError(t, n.Wait(context.Background(), r, Present(62), time.Second))
}

func TestNotifierTimeout(t *testing.T) {
	r, path := openTestRegion(t)

	n, err := NewNotifier(path)
	require.NoError(t, err)
	defer n.Close()

	start := time.Now()
	err = n.Wait(context.Background(), r, Present(63), 200*time.Millisecond)
	require.ErrorIs(t, err, ErrTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
}

func TestNotifierClosed(t *testing.T) {
	r, path := openTestRegion(t)

	n, err := NewNotifier(path)
	require.NoError(t, err)
	require.NoError(t, n.Close())

	err = n.Wait(context.Background(), r, Present(63), time.Second)
	assert.ErrorIs(t, err, ErrNotifierClosed)
}

func TestNewNotifierMissingFile(t *testing.T) {
	_, err := NewNotifier(filepath.Join(t.TempDir(), "absent.img"))
	assert.Error(t, err)
}
