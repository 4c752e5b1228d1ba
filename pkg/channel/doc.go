// Package channel implements a two-way channel between a host and a peer that
// share nothing but a fixed-size byte region.
//
// The region is split into two buffers and two control bytes (see package
// layout). Each side writes only its own output buffer and control byte, and
// reads only the other side's. A producer writes a frame into its output
// buffer, flushes it, then sets dataPresent in its control byte. The consumer
// reads the frame and writes the control byte back with dataPresent cleared.
//
// # Usage
//
//	cfg := channel.DefaultConfig()
//	cfg.Synchronized = true
//	cfg.Mode = wire.ModeBinary
//
//	ch, err := channel.Open("/var/lib/vm/floppy.img", cfg)
//	if err != nil {
//	    return err
//	}
//	defer ch.Close()
//
//	if _, err := ch.Send(ctx, []byte("hello")); err != nil {
//	    return err
//	}
//	reply, err := ch.Receive(ctx)
//
// # Errors
//
// Failures are reported as *Error values carrying a Code and a chained
// message. Once an error is recorded the channel refuses further sends and
// receives with CodeNotReady until Clear is called. With RaiseOnError set,
// every failure panics with the *Error instead; use Recover at the boundary:
//
//	func run(ch *channel.Channel) (err error) {
//	    defer channel.Recover(&err)
//	    ...
//	}
//
// A Channel is not safe for concurrent use. Ready, Err and Clear may be called
// from any goroutine.
package channel
