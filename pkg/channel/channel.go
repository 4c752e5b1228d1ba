package channel

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/floppyio/floppyio-go/pkg/layout"
	"github.com/floppyio/floppyio-go/pkg/log"
	"github.com/floppyio/floppyio-go/pkg/region"
	"github.com/floppyio/floppyio-go/pkg/wait"
	"github.com/floppyio/floppyio-go/pkg/wire"
)

// Channel is one side of a host/peer channel over a shared region.
type Channel struct {
	store  region.Store
	layout layout.Layout
	cfg    Config
	waiter wait.Waiter
	id     string
	path   string
	rep    reporter

	// Scratch buffers, one per direction.
	outBuf []byte
	inBuf  []byte

	// Last control byte written to the output direction.
	lastOut wire.ControlByte

	closeOnce sync.Once
	closeErr  error
}

// Open opens or creates the region file at path and returns a channel on it.
// Failures are reported with CodeConfig or CodeCreate.
func Open(path string, cfg Config) (*Channel, error) {
	l, err := cfg.Validate()
	if err != nil {
		return nil, openError(cfg, CodeConfig, "invalid configuration", err)
	}

	store, created, err := region.OpenFile(path, cfg.RegionSize, cfg.RequireExisting)
	if err != nil {
		return nil, openError(cfg, CodeCreate, "cannot open region", err)
	}

	c, err := build(store, cfg, l, path, created)
	if err != nil {
		store.Close()
		return nil, openError(cfg, CodeIO, "failed to initialize region", err)
	}
	return c, nil
}

// New returns a channel on an already open store. The channel takes
// ownership of the store and closes it on Close.
func New(store region.Store, cfg Config) (*Channel, error) {
	if cfg.RegionSize == 0 {
		cfg.RegionSize = store.Size()
	}
	if cfg.RegionSize > store.Size() {
		return nil, openError(cfg, CodeConfig, "invalid configuration",
			fmt.Errorf("region size %d exceeds store size %d", cfg.RegionSize, store.Size()))
	}
	l, err := cfg.Validate()
	if err != nil {
		return nil, openError(cfg, CodeConfig, "invalid configuration", err)
	}

	c, err := build(store, cfg, l, "", false)
	if err != nil {
		return nil, openError(cfg, CodeIO, "failed to initialize region", err)
	}
	return c, nil
}

// build assembles a channel and initializes the region unless asked not to.
// A freshly created region is always initialized.
func build(store region.Store, cfg Config, l layout.Layout, path string, created bool) (*Channel, error) {
	c := &Channel{
		store:  store,
		layout: l,
		cfg:    cfg,
		waiter: cfg.Waiter,
		id:     uuid.NewString(),
		path:   path,
		outBuf: make([]byte, l.OutputSize),
		inBuf:  make([]byte, l.InputSize),
	}
	if c.waiter == nil {
		c.waiter = wait.NewPoller()
	}

	initialized := !cfg.SkipInit || created
	if initialized {
		if err := region.Zero(store); err != nil {
			return nil, err
		}
	}

	c.debugLog("channel opened",
		"id", c.id,
		"path", path,
		"layout", l.String(),
		"mode", cfg.Mode.String(),
		"synchronized", cfg.Synchronized,
		"created", created,
		"initialized", initialized)
	c.emitState("", "READY", "opened")
	return c, nil
}

// openError reports a construction failure. There is no channel yet, so the
// error starts a fresh chain.
func openError(cfg Config, code Code, msg string, cause error) error {
	var r reporter
	e := r.report(code, msg, cause)
	if cfg.Logger != nil {
		cfg.Logger.Warn("channel open failed", "code", code.String(), "error", e.Message)
	}
	if cfg.RaiseOnError {
		panic(e)
	}
	return e
}

// ID returns the unique identifier of this channel instance.
func (c *Channel) ID() string {
	return c.id
}

// Layout returns the region layout of this side.
func (c *Channel) Layout() layout.Layout {
	return c.layout
}

// Config returns the configuration the channel was built with.
func (c *Channel) Config() Config {
	return c.cfg
}

// Capacity returns the largest payload a single frame can carry.
func (c *Channel) Capacity() int {
	return wire.Capacity(c.cfg.Mode, int(c.layout.OutputSize))
}

// Reset zeroes the entire region, including the other side's half.
func (c *Channel) Reset() error {
	if err := region.Zero(c.store); err != nil {
		return c.fail("reset", CodeIO, "failed to reset region", err)
	}
	c.lastOut = 0
	c.debugLog("region reset", "id", c.id, "size", c.layout.RegionSize)
	c.emitState("READY", "READY", "reset")
	return nil
}

// Send sends p as a complete, single-frame transfer (endOfData set) and
// returns the number of payload bytes sent. Payloads longer than Capacity
// are truncated.
func (c *Channel) Send(ctx context.Context, p []byte) (int, error) {
	return c.SendFrame(ctx, p, wire.FlagEndOfData)
}

// SendFrame sends p with the given control flags. Only FlagEndOfData and
// FlagAborted are taken from flags; dataPresent, lengthPrefixed and the
// session tag are set by the channel.
//
// In synchronized mode SendFrame returns once the peer has acknowledged the
// frame.
func (c *Channel) SendFrame(ctx context.Context, p []byte, flags wire.ControlByte) (int, error) {
	if err := c.checkReady("send"); err != nil {
		return 0, err
	}
	return c.sendFrame(ctx, "send", p, flags, c.cfg.Synchronized)
}

// Receive returns the payload of the next frame.
func (c *Channel) Receive(ctx context.Context) ([]byte, error) {
	f, err := c.ReceiveFrame(ctx)
	if err != nil {
		return nil, err
	}
	return f.Payload, nil
}

// ReceiveInto copies the payload of the next frame into dst and returns the
// number of bytes copied together with the frame's control byte. A payload
// longer than dst is truncated.
func (c *Channel) ReceiveInto(ctx context.Context, dst []byte) (int, wire.ControlByte, error) {
	f, err := c.ReceiveFrame(ctx)
	if err != nil {
		return 0, 0, err
	}
	return copy(dst, f.Payload), f.Control, nil
}

// ReceiveFrame reads the next frame and acknowledges it. The returned
// control byte is the value as read, before acknowledgement.
//
// In synchronized mode ReceiveFrame first waits for a frame to be present.
// Otherwise it returns whatever the input buffer holds.
func (c *Channel) ReceiveFrame(ctx context.Context) (wire.Frame, error) {
	if err := c.checkReady("receive"); err != nil {
		return wire.Frame{}, err
	}
	return c.receiveFrame(ctx, "receive", c.cfg.Synchronized)
}

// SendStream sends everything read from r as a chunked transfer and returns
// the number of payload bytes sent. Every chunk waits for acknowledgement,
// whether or not the channel is synchronized. The last chunk carries
// endOfData.
//
// If reading r fails, SendStream sends a final empty frame flagged aborted
// and endOfData, then reports CodeInput.
func (c *Channel) SendStream(ctx context.Context, r io.Reader) (int64, error) {
	const op = "send stream"
	if err := c.checkReady(op); err != nil {
		return 0, err
	}

	capacity := c.Capacity()
	br := bufio.NewReaderSize(r, capacity)
	chunk := make([]byte, capacity)

	var total int64
	for {
		n, err := io.ReadFull(br, chunk)
		last := false
		switch {
		case err == io.EOF || err == io.ErrUnexpectedEOF:
			last = true
		case err != nil:
			return total, c.abort(ctx, op, err)
		default:
			_, perr := br.Peek(1)
			switch {
			case perr == io.EOF:
				last = true
			case perr != nil:
				// The chunk in hand is intact; deliver it before aborting.
				sent, err := c.sendFrame(ctx, op, chunk[:n], 0, true)
				total += int64(sent)
				if err != nil {
					return total, err
				}
				return total, c.abort(ctx, op, perr)
			}
		}

		var flags wire.ControlByte
		if last {
			flags = wire.FlagEndOfData
		}
		sent, err := c.sendFrame(ctx, op, chunk[:n], flags, true)
		total += int64(sent)
		if err != nil {
			return total, err
		}
		if last {
			return total, nil
		}
	}
}

// abort signals a failed transfer to the peer and reports the input error.
func (c *Channel) abort(ctx context.Context, op string, cause error) error {
	if _, err := c.sendFrame(ctx, op, nil, wire.FlagAborted|wire.FlagEndOfData, true); err != nil {
		c.debugLog("abort frame not delivered", "id", c.id, "error", err)
	}
	return c.fail(op, CodeInput, "failed to read input stream", cause)
}

// ReceiveStream writes the payloads of a chunked transfer to w until a frame
// carrying endOfData arrives, and returns the number of bytes written. Every
// chunk is waited for, whether or not the channel is synchronized.
//
// If the terminal frame is flagged aborted, the bytes received so far have
// been written to w and ReceiveStream reports CodeAborted.
func (c *Channel) ReceiveStream(ctx context.Context, w io.Writer) (int64, error) {
	const op = "receive stream"
	if err := c.checkReady(op); err != nil {
		return 0, err
	}

	var total int64
	for {
		f, err := c.receiveFrame(ctx, op, true)
		if err != nil {
			return total, err
		}
		if len(f.Payload) > 0 {
			n, err := w.Write(f.Payload)
			total += int64(n)
			if err != nil {
				return total, c.fail(op, CodeIO, "failed to write output stream", err)
			}
		}
		if f.Control.EndOfData() {
			if f.Control.Aborted() {
				return total, c.fail(op, CodeAborted, "transfer aborted by remote", nil)
			}
			return total, nil
		}
	}
}

// Ready reports whether the channel has no recorded error and its store is
// usable.
func (c *Channel) Ready() bool {
	return c.rep.ok() && c.store.Check() == nil
}

// Err returns the last reported error, or nil if the channel is ready.
func (c *Channel) Err() error {
	if e := c.rep.err(); e != nil {
		return e
	}
	return nil
}

// Clear discards the recorded error so the channel accepts operations again.
func (c *Channel) Clear() {
	if c.rep.ok() {
		return
	}
	c.rep.clear()
	c.debugLog("error cleared", "id", c.id)
	c.emitState("ERROR", "READY", "cleared")
}

// Close closes the underlying store. It is safe to call Close multiple times.
func (c *Channel) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.store.Close()
		c.debugLog("channel closed", "id", c.id)
		c.emitState("READY", "CLOSED", "")
	})
	return c.closeErr
}

// sendFrame encodes p into the output buffer and marks it present.
func (c *Channel) sendFrame(ctx context.Context, op string, p []byte, flags wire.ControlByte, waitAck bool) (int, error) {
	n, lenFlag, err := wire.Encode(c.outBuf, p, c.cfg.Mode)
	if err != nil {
		return 0, c.fail(op, CodeIO, "failed to encode frame", err)
	}
	if _, err := c.store.WriteAt(c.outBuf, c.layout.OutputOffset); err != nil {
		return 0, c.fail(op, CodeIO, "failed to write output buffer", err)
	}
	if err := c.store.Sync(); err != nil {
		return 0, c.fail(op, CodeIO, "failed to flush output buffer", err)
	}

	ctl := wire.FlagDataPresent | lenFlag | flags&(wire.FlagEndOfData|wire.FlagAborted)
	ctl = ctl.WithSessionTag(c.cfg.SessionTag)

	c.emit(log.Event{
		Direction: log.DirectionOut,
		Layer:     log.LayerWire,
		Category:  log.CategoryMessage,
		Frame:     log.NewFrameEvent(len(c.outBuf), p[:n], ctl, c.cfg.Mode),
	})

	if err := c.writeControl(c.layout.ControlOutOffset, c.lastOut, ctl, log.ControlMark, log.DirectionOut); err != nil {
		return 0, c.fail(op, CodeIO, "failed to mark frame present", err)
	}
	c.lastOut = ctl

	if waitAck {
		if err := c.await(ctx, op, wait.Consumed(c.layout.ControlOutOffset), log.DirectionOut); err != nil {
			return 0, err
		}
	}
	return n, nil
}

// receiveFrame reads the input direction and acknowledges a present frame.
func (c *Channel) receiveFrame(ctx context.Context, op string, waitData bool) (wire.Frame, error) {
	if waitData {
		if err := c.await(ctx, op, wait.Present(c.layout.ControlInOffset), log.DirectionIn); err != nil {
			return wire.Frame{}, err
		}
	}

	b, err := region.ReadByteAt(c.store, c.layout.ControlInOffset)
	if err != nil {
		return wire.Frame{}, c.fail(op, CodeIO, "failed to read control byte", err)
	}
	ctl := wire.ControlByte(b)

	if _, err := c.store.ReadAt(c.inBuf, c.layout.InputOffset); err != nil {
		return wire.Frame{}, c.fail(op, CodeIO, "failed to read input buffer", err)
	}
	payload := wire.Decode(c.inBuf, ctl)

	c.emit(log.Event{
		Direction: log.DirectionIn,
		Layer:     log.LayerWire,
		Category:  log.CategoryMessage,
		Frame:     log.NewFrameEvent(len(c.inBuf), payload, ctl, c.cfg.Mode),
	})

	if ctl.DataPresent() {
		if err := c.writeControl(c.layout.ControlInOffset, ctl, ctl.Acknowledged(), log.ControlAck, log.DirectionIn); err != nil {
			return wire.Frame{}, c.fail(op, CodeIO, "failed to acknowledge frame", err)
		}
	}
	return wire.Frame{Payload: payload, Control: ctl}, nil
}

// writeControl writes and flushes one control byte.
func (c *Channel) writeControl(off int64, old, ctl wire.ControlByte, action log.ControlAction, dir log.Direction) error {
	if err := region.WriteByteAt(c.store, off, byte(ctl)); err != nil {
		return err
	}
	if err := c.store.Sync(); err != nil {
		return err
	}
	c.emit(log.Event{
		Direction: dir,
		Layer:     log.LayerRegion,
		Category:  log.CategoryControl,
		Control:   &log.ControlEvent{Action: action, Offset: off, Old: old, New: ctl},
	})
	return nil
}

// await blocks until cond holds, mapping wait failures to error codes.
func (c *Channel) await(ctx context.Context, op string, cond wait.Condition, dir log.Direction) error {
	start := time.Now()
	err := c.waiter.Wait(ctx, c.store, cond, c.cfg.SyncTimeout)
	if err == nil {
		waited := time.Since(start)
		c.emit(log.Event{
			Direction: dir,
			Layer:     log.LayerRegion,
			Category:  log.CategoryControl,
			Control:   &log.ControlEvent{Action: log.ControlWait, Offset: cond.Offset, New: cond.Want, Waited: &waited},
		})
		return nil
	}

	what := "frame"
	if dir == log.DirectionOut {
		what = "acknowledgement"
	}
	switch {
	case errors.Is(err, wait.ErrTimeout),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return c.fail(op, CodeTimeout, "timed out waiting for "+what, err)
	default:
		return c.fail(op, CodeIO, "failed to poll control byte", err)
	}
}

// checkReady refuses operations while an error is recorded or the store is
// unusable.
func (c *Channel) checkReady(op string) error {
	if !c.rep.ok() {
		return c.fail(op, CodeNotReady, "channel not ready", nil)
	}
	if err := c.store.Check(); err != nil {
		return c.fail(op, CodeNotReady, "channel not ready", err)
	}
	return nil
}

// fail records an error, logs it and raises it if configured to.
func (c *Channel) fail(op string, code Code, msg string, cause error) error {
	e := c.rep.report(code, msg, cause)

	ci := int(code)
	c.emit(log.Event{
		Layer:    log.LayerChannel,
		Category: log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerChannel,
			Message: e.Message,
			Code:    &ci,
			Context: op,
		},
	})
	if c.cfg.Logger != nil {
		c.cfg.Logger.Warn("channel error", "id", c.id, "op", op, "code", code.String(), "error", e.Message)
	}

	if c.cfg.RaiseOnError {
		panic(e)
	}
	return e
}

// emit fills in the common fields and hands the event to the protocol logger.
func (c *Channel) emit(event log.Event) {
	if c.cfg.ProtocolLogger == nil {
		return
	}
	event.Timestamp = time.Now()
	event.ChannelID = c.id
	event.LocalRole = c.layout.Role
	event.RegionPath = c.path
	c.cfg.ProtocolLogger.Log(event)
}

func (c *Channel) emitState(from, to, reason string) {
	c.emit(log.Event{
		Layer:       log.LayerChannel,
		Category:    log.CategoryState,
		StateChange: &log.StateChangeEvent{OldState: from, NewState: to, Reason: reason},
	})
}

func (c *Channel) debugLog(msg string, args ...any) {
	if c.cfg.Logger != nil {
		c.cfg.Logger.Debug(msg, args...)
	}
}
