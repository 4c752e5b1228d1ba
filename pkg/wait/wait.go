package wait

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/floppyio/floppyio-go/pkg/region"
	"github.com/floppyio/floppyio-go/pkg/wire"
)

// DefaultInterval is the default delay between two reads of the control byte.
const DefaultInterval = 10 * time.Millisecond

// ErrTimeout indicates the condition was not met before the deadline.
var ErrTimeout = errors.New("timed out waiting for control byte")

// Condition describes the control byte state to wait for.
type Condition struct {
	// Offset of the control byte within the region.
	Offset int64

	// Mask selects the bits to compare.
	Mask wire.ControlByte

	// Want is the expected value of the masked bits.
	Want wire.ControlByte
}

// Met reports whether b satisfies the condition.
func (c Condition) Met(b wire.ControlByte) bool {
	return b&c.Mask == c.Want
}

// String describes the condition.
func (c Condition) String() string {
	return fmt.Sprintf("byte %d & %08b == %08b", c.Offset, uint8(c.Mask), uint8(c.Want))
}

// Present waits until the frame at offset is marked present.
func Present(offset int64) Condition {
	return Condition{Offset: offset, Mask: wire.FlagDataPresent, Want: wire.FlagDataPresent}
}

// Consumed waits until the frame at offset has been acknowledged.
func Consumed(offset int64) Condition {
	return Condition{Offset: offset, Mask: wire.FlagDataPresent, Want: 0}
}

// Waiter blocks until a condition on a region is met.
type Waiter interface {
	// Wait returns nil once cond is met, ErrTimeout if timeout elapses
	// first, ctx.Err() if ctx is done, or the read error if the region
	// cannot be read. A zero timeout waits forever.
	Wait(ctx context.Context, r io.ReaderAt, cond Condition, timeout time.Duration) error
}

// Poller is a Waiter that re-reads the control byte at a fixed interval.
type Poller struct {
	// Interval between reads. Zero means DefaultInterval.
	Interval time.Duration
}

// NewPoller creates a Poller using DefaultInterval.
func NewPoller() *Poller {
	return &Poller{Interval: DefaultInterval}
}

// Wait polls until cond is met or the deadline passes.
func (p *Poller) Wait(ctx context.Context, r io.ReaderAt, cond Condition, timeout time.Duration) error {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		met, err := check(r, cond)
		if err != nil {
			return err
		}
		if met {
			return nil
		}

		sleep := interval
		if !deadline.IsZero() {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return fmt.Errorf("%w after %s (%s)", ErrTimeout, timeout, cond)
			}
			sleep = min(sleep, remaining)
		}

		timer.Reset(sleep)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// check reads the control byte once.
func check(r io.ReaderAt, cond Condition) (bool, error) {
	b, err := region.ReadByteAt(r, cond.Offset)
	if err != nil {
		return false, fmt.Errorf("failed to read control byte at %d: %w", cond.Offset, err)
	}
	return cond.Met(wire.ControlByte(b)), nil
}

// Compile-time interface satisfaction check.
var _ Waiter = (*Poller)(nil)
