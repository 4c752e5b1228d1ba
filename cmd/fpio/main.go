// Command fpio sends or receives a byte stream over a FloppyIO region.
//
// By default fpio acts as the peer of an existing region: binary framing,
// synchronized, without initializing or creating the region file.
//
// Usage:
//
//	fpio [flags] [region]
//
// Flags:
//
//	-c               Use text framing instead of binary framing
//	-H               Act as the host side of the region
//	-z               Reset the region (creating it if needed)
//	-s               Read data from stdin and send it
//	-S file          Read data from file and send it
//	-r               Receive data and write it to stdout
//	-R file          Receive data and write it to file
//	-t seconds       Synchronization timeout (0 waits forever)
//	-i               Start an interactive shell
//	-config file     YAML configuration file
//	-protocol-log f  Write a protocol capture to f
//	-log-level lvl   Log level: debug, info, warn, error
//	-version         Print the protocol version (and the configured one) and exit
//
// Examples:
//
//	# Guest: send a file to the hypervisor
//	fpio -S result.tar.gz /dev/fd0
//
//	# Host: receive it from the floppy image
//	fpio -H -r -t 30 floppy.img > result.tar.gz
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/floppyio/floppyio-go/cmd/fpio/interactive"
	"github.com/floppyio/floppyio-go/pkg/channel"
	"github.com/floppyio/floppyio-go/pkg/config"
	"github.com/floppyio/floppyio-go/pkg/layout"
	"github.com/floppyio/floppyio-go/pkg/log"
	"github.com/floppyio/floppyio-go/pkg/version"
	"github.com/floppyio/floppyio-go/pkg/wait"
	"github.com/floppyio/floppyio-go/pkg/wire"
)

// Exit statuses not derived from a channel error code.
const (
	exitUsage = 1
	exitHelp  = 2
)

type mode int

const (
	modeNone mode = iota
	modeZero
	modeSend
	modeReceive
	modeInteractive
)

// options holds the parsed command line.
type options struct {
	mode        mode
	ioFile      string
	configFile  string
	protocolLog string
	logLevel    string

	text     bool
	host     bool
	zero     bool
	timeout  int
	version  bool
	region   string
	explicit map[string]bool
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes fpio and returns the process exit status. Channel failures
// exit with the negated error code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, status, ok := parseArgs(args, stderr)
	if !ok {
		return status
	}
	file, err := settings(opts)
	if opts.version {
		fmt.Fprintln(stdout, version.Banner())
		if opts.configFile == "" {
			return 0
		}
	}
	if err != nil {
		fmt.Fprintf(stderr, "fpio: %v\n", err)
		return exitUsage
	}
	if opts.version {
		fmt.Fprintf(stdout, "%s: protocol version %s\n", opts.configFile, file.ProtocolVersion)
		return 0
	}

	level, _ := config.ParseLevel(file.LogLevel)
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := file.ChannelConfig()
	if err != nil {
		fmt.Fprintf(stderr, "fpio: %v\n", err)
		return exitUsage
	}
	cfg.Logger = logger

	if file.ProtocolLog != "" {
		fl, err := log.NewFileLogger(file.ProtocolLog)
		if err != nil {
			fmt.Fprintf(stderr, "fpio: %v\n", err)
			return exitUsage
		}
		defer fl.Close()
		cfg.ProtocolLogger = fl
		if level <= slog.LevelDebug {
			cfg.ProtocolLogger = log.NewMultiLogger(fl, log.NewSlogAdapter(logger))
		}
	}

	// The notifier needs an existing file to watch.
	if file.Waiter == config.WaiterNotify {
		n, err := wait.NewNotifier(file.Region)
		if err != nil {
			logger.Warn("falling back to polling", "error", err)
		} else {
			defer n.Close()
			cfg.Waiter = n
		}
	}

	if err := transfer(ctx, opts, file, cfg, stdin, stdout); err != nil {
		var le *localError
		if errors.As(err, &le) {
			fmt.Fprintf(stderr, "fpio: %v\n", le.err)
			return exitUsage
		}
		return reportError(stderr, err)
	}
	return 0
}

// localError is a failure outside the channel, such as an unreadable input
// file. It is reported as a usage error rather than with a channel code.
type localError struct {
	err error
}

func (e *localError) Error() string { return e.err.Error() }
func (e *localError) Unwrap() error { return e.err }

// transfer opens the channel and performs the selected mode. Errors raised
// by a channel configured with RaiseOnError are returned like any other.
func transfer(ctx context.Context, opts options, file config.File, cfg channel.Config, stdin io.Reader, stdout io.Writer) (err error) {
	defer channel.Recover(&err)

	ch, err := channel.Open(file.Region, cfg)
	if err != nil {
		return err
	}
	defer ch.Close()

	cfg.Logger.Info("channel open",
		"region", file.Region,
		"protocol", file.ProtocolVersion,
		"role", cfg.Role,
		"framing", cfg.Mode,
		"synchronized", cfg.Synchronized,
		"timeout", cfg.SyncTimeout)

	switch opts.mode {
	case modeZero:
		return ch.Reset()
	case modeSend:
		var in io.Reader = stdin
		if opts.ioFile != "" {
			f, err := os.Open(opts.ioFile)
			if err != nil {
				return &localError{err}
			}
			defer f.Close()
			in = f
		}
		n, err := ch.SendStream(ctx, in)
		if err != nil {
			return err
		}
		cfg.Logger.Info("sent", "bytes", n)
	case modeReceive:
		var out io.Writer = stdout
		if opts.ioFile != "" {
			f, err := os.Create(opts.ioFile)
			if err != nil {
				return &localError{err}
			}
			defer f.Close()
			out = f
		}
		n, err := ch.ReceiveStream(ctx, out)
		if err != nil {
			return err
		}
		cfg.Logger.Info("received", "bytes", n)
	case modeInteractive:
		shell, err := interactive.New(ch)
		if err != nil {
			return &localError{err}
		}
		shell.Run(ctx)
	}
	return nil
}

// parseArgs parses the command line. When ok is false, status is the exit
// status to return.
func parseArgs(args []string, stderr io.Writer) (opts options, status int, ok bool) {
	fs := flag.NewFlagSet("fpio", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var send, receive, shell bool
	var sendFile, receiveFile string
	fs.BoolVar(&opts.text, "c", false, "Use text framing instead of binary framing")
	fs.BoolVar(&opts.host, "H", false, "Act as the host side of the region")
	fs.BoolVar(&opts.zero, "z", false, "Reset the region (creating it if needed)")
	fs.BoolVar(&send, "s", false, "Read data from stdin and send it")
	fs.StringVar(&sendFile, "S", "", "Read data from `file` and send it")
	fs.BoolVar(&receive, "r", false, "Receive data and write it to stdout")
	fs.StringVar(&receiveFile, "R", "", "Receive data and write it to `file`")
	fs.IntVar(&opts.timeout, "t", 0, "Synchronization timeout in `seconds` (0 waits forever)")
	fs.BoolVar(&shell, "i", false, "Start an interactive shell")
	fs.StringVar(&opts.configFile, "config", "", "YAML configuration `file`")
	fs.StringVar(&opts.protocolLog, "protocol-log", "", "Write a protocol capture to `file`")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.BoolVar(&opts.version, "version", false, "Print the protocol version and exit")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "%s\nUsage: fpio [flags] [region]\n\nFlags:\n", version.Banner())
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, exitHelp, false
		}
		return opts, exitUsage, false
	}

	opts.explicit = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.explicit[f.Name] = true })

	switch {
	case sendFile != "":
		opts.mode, opts.ioFile = modeSend, sendFile
	case receiveFile != "":
		opts.mode, opts.ioFile = modeReceive, receiveFile
	case send:
		opts.mode = modeSend
	case receive:
		opts.mode = modeReceive
	case shell:
		opts.mode = modeInteractive
	case opts.zero:
		opts.mode = modeZero
	}
	if opts.version {
		return opts, 0, true
	}
	if opts.mode == modeNone {
		fmt.Fprintln(stderr, "No mode specified! Please specify one of -S/-s, -R/-r, -i or -z.")
		return opts, exitUsage, false
	}
	if opts.timeout < 0 {
		fmt.Fprintln(stderr, "Timeout must not be negative.")
		return opts, exitUsage, false
	}

	switch fs.NArg() {
	case 0:
	case 1:
		opts.region = fs.Arg(0)
	default:
		fmt.Fprintln(stderr, "Unrecognized trailing arguments!")
		return opts, exitUsage, false
	}
	return opts, 0, true
}

// settings merges the configuration file with the command line. Flags win.
func settings(opts options) (config.File, error) {
	file := config.Default()
	if opts.configFile != "" {
		var err error
		if file, err = config.Load(opts.configFile); err != nil {
			return config.File{}, err
		}
	}

	if opts.region != "" {
		file.Region = opts.region
	}
	if opts.text {
		file.Framing = wire.ModeText.String()
	}
	if opts.host {
		file.Role = layout.RoleHost.String()
	}
	if opts.zero {
		file.SkipInit = false
		file.RequireExisting = false
	}
	if opts.explicit["t"] {
		file.Timeout = config.Duration(time.Duration(opts.timeout) * time.Second)
	}
	if opts.protocolLog != "" {
		file.ProtocolLog = opts.protocolLog
	}
	if opts.logLevel != "" {
		file.LogLevel = opts.logLevel
	}
	return file, file.Validate()
}

// reportError prints a channel error and returns its exit status.
func reportError(w io.Writer, err error) int {
	code := channel.CodeOf(err)
	fmt.Fprintf(w, "## FLOPPY I/O ERROR\n## Message: %s\n## Error code = %d\n", err, code)
	return -int(code)
}
