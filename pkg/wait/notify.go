package wait

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultFallbackInterval is how often a Notifier re-reads the control byte
// when no change notification arrives. Writes made by a hypervisor through
// its own block layer do not always raise notifications on the host.
const DefaultFallbackInterval = 250 * time.Millisecond

// ErrNotifierClosed indicates a Wait on a closed Notifier.
var ErrNotifierClosed = errors.New("notifier closed")

// Notifier is a Waiter for file-backed regions. It re-checks the control
// byte whenever the file changes, and at a slow fallback interval otherwise.
type Notifier struct {
	watcher *fsnotify.Watcher
	path    string

	// Fallback is the re-check interval without notifications.
	// Zero means DefaultFallbackInterval.
	Fallback time.Duration
}

// NewNotifier watches the region file at path.
func NewNotifier(path string) (*Notifier, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}
	return &Notifier{
		watcher:  w,
		path:     path,
		Fallback: DefaultFallbackInterval,
	}, nil
}

// Wait blocks until cond is met, re-reading on every change notification.
func (n *Notifier) Wait(ctx context.Context, r io.ReaderAt, cond Condition, timeout time.Duration) error {
	fallback := n.Fallback
	if fallback <= 0 {
		fallback = DefaultFallbackInterval
	}
	ticker := time.NewTicker(fallback)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		met, err := check(r, cond)
		if err != nil {
			return err
		}
		if met {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-deadline:
			if met, err := check(r, cond); err != nil || met {
				return err
			}
			return fmt.Errorf("%w after %s (%s)", ErrTimeout, timeout, cond)

		case _, ok := <-n.watcher.Events:
			if !ok {
				return ErrNotifierClosed
			}

		case err, ok := <-n.watcher.Errors:
			if !ok {
				return ErrNotifierClosed
			}
			return fmt.Errorf("watching %s: %w", n.path, err)

		case <-ticker.C:
		}
	}
}

// Close stops watching the region file.
func (n *Notifier) Close() error {
	return n.watcher.Close()
}

// Compile-time interface satisfaction check.
var _ Waiter = (*Notifier)(nil)
