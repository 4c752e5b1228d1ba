// Package interactive provides the interactive command-line interface
// for fpio.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/floppyio/floppyio-go/pkg/channel"
	"github.com/floppyio/floppyio-go/pkg/version"
	"github.com/floppyio/floppyio-go/pkg/wire"
)

// Shell handles interactive mode for fpio.
type Shell struct {
	ch  *channel.Channel
	rl  *readline.Instance
	out io.Writer
}

// New creates a new interactive shell on ch.
func New(ch *channel.Channel) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt(ch),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Shell{ch: ch, rl: rl, out: rl.Stdout()}, nil
}

func prompt(ch *channel.Channel) string {
	return strings.ToLower(ch.Layout().Role.String()) + "> "
}

// Stdout returns a writer that properly coordinates with the readline input.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Run starts the interactive command loop. It returns on quit, EOF, or
// when ctx is done.
func (s *Shell) Run(ctx context.Context) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			return
		}

		if !s.exec(ctx, line) {
			return
		}
	}
}

// exec runs one command line. It returns false when the shell should exit.
func (s *Shell) exec(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()

	case "send", "s":
		s.cmdSend(ctx, input, args)

	case "recv", "receive", "r":
		s.cmdRecv(ctx)

	case "reset", "z":
		s.cmdReset()

	case "status", "st":
		s.cmdStatus()

	case "clear":
		s.ch.Clear()
		fmt.Fprintln(s.out, "OK")

	case "quit", "exit", "q":
		fmt.Fprintln(s.out, "Exiting...")
		return false

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

// guard runs one channel operation, turning a RaiseOnError panic back into
// a returned error.
func guard(op func() error) (err error) {
	defer channel.Recover(&err)
	return op()
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
FloppyIO Commands:
  Transfer:
    send <text>        - Send text as one frame
    recv               - Receive one frame and print it

  Channel:
    status             - Show layout, framing and error state
    clear              - Clear the recorded error
    reset              - Zero the whole region

  General:
    help               - Show this help
    quit               - Exit`)
}

// cmdSend handles the send command. The payload is the rest of the line
// with its inner spacing kept.
func (s *Shell) cmdSend(ctx context.Context, input string, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: send <text>")
		return
	}
	payload := strings.TrimSpace(input[len(strings.Fields(input)[0]):])

	var n int
	err := guard(func() (err error) {
		n, err = s.ch.Send(ctx, []byte(payload))
		return err
	})
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	if n < len(payload) {
		fmt.Fprintf(s.out, "Sent %d of %d bytes (truncated to capacity)\n", n, len(payload))
		return
	}
	fmt.Fprintf(s.out, "Sent %d bytes\n", n)
}

// cmdRecv handles the recv command.
func (s *Shell) cmdRecv(ctx context.Context) {
	var frame wire.Frame
	err := guard(func() (err error) {
		frame, err = s.ch.ReceiveFrame(ctx)
		return err
	})
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "%q\n", frame.Payload)
	fmt.Fprintf(s.out, "  %d bytes, control %s\n", len(frame.Payload), frame.Control)
}

// cmdReset handles the reset command.
func (s *Shell) cmdReset() {
	if err := guard(s.ch.Reset); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, "Region zeroed")
}

// cmdStatus handles the status command.
func (s *Shell) cmdStatus() {
	l := s.ch.Layout()
	cfg := s.ch.Config()

	fmt.Fprintln(s.out, "Channel Status:")
	fmt.Fprintf(s.out, "  ID:           %s\n", s.ch.ID())
	fmt.Fprintf(s.out, "  Protocol:     %s\n", version.Current)
	fmt.Fprintf(s.out, "  Role:         %s\n", l.Role)
	fmt.Fprintf(s.out, "  Region size:  %d bytes\n", l.RegionSize)
	fmt.Fprintf(s.out, "  Framing:      %s (capacity %d bytes)\n", cfg.Mode, s.ch.Capacity())
	fmt.Fprintf(s.out, "  Synchronized: %v\n", cfg.Synchronized)
	if cfg.Synchronized {
		timeout := "forever"
		if cfg.SyncTimeout > 0 {
			timeout = cfg.SyncTimeout.String()
		}
		fmt.Fprintf(s.out, "  Timeout:      %s\n", timeout)
	}
	if cfg.SessionTag != 0 {
		fmt.Fprintf(s.out, "  Session tag:  %d\n", cfg.SessionTag)
	}

	if s.ch.Ready() {
		fmt.Fprintln(s.out, "  State:        READY")
		return
	}
	err := s.ch.Err()
	fmt.Fprintf(s.out, "  State:        ERROR (%s)\n", channel.CodeOf(err))
	fmt.Fprintf(s.out, "  Message:      %v\n", err)
}

