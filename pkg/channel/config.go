package channel

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/floppyio/floppyio-go/pkg/layout"
	"github.com/floppyio/floppyio-go/pkg/log"
	"github.com/floppyio/floppyio-go/pkg/wait"
	"github.com/floppyio/floppyio-go/pkg/wire"
)

// Defaults.
const (
	// DefaultRegionSize is the region size both sides assume unless told
	// otherwise.
	DefaultRegionSize int64 = 28672

	// DefaultSyncTimeout bounds every synchronized wait.
	DefaultSyncTimeout = 5 * time.Second
)

// Config configures a Channel. It is copied at construction and never
// changes afterwards.
type Config struct {
	// Role selects which half of the region this side owns.
	Role layout.Role

	// Mode selects the framing of outgoing frames.
	Mode wire.Mode

	// Synchronized makes Send wait for the acknowledgement of its frame and
	// Receive wait for a frame to arrive. Without it a producer may overwrite
	// a frame the consumer has not read yet.
	Synchronized bool

	// SyncTimeout bounds each wait. Zero waits forever.
	SyncTimeout time.Duration

	// RaiseOnError makes every reported error panic with its *Error.
	RaiseOnError bool

	// SkipInit leaves the region content untouched at open. A freshly
	// created region is initialized regardless.
	SkipInit bool

	// RequireExisting opens an existing region in place instead of
	// recreating it. Open falls back to creating the region if that fails.
	RequireExisting bool

	// RegionSize is the total region size in bytes. For New, zero means the
	// size of the store.
	RegionSize int64

	// SessionTag (0-15) is stamped into every control byte this side writes.
	SessionTag uint8

	// Waiter performs synchronized waits. If nil, a wait.Poller is used.
	Waiter wait.Waiter

	// ProtocolLogger receives frame, control and error events.
	// If nil, protocol capture is disabled.
	ProtocolLogger log.Logger

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger
}

// DefaultConfig returns a host Config with text framing, no synchronization
// and the default region size and timeout.
func DefaultConfig() Config {
	return Config{
		Role:        layout.RoleHost,
		Mode:        wire.ModeText,
		SyncTimeout: DefaultSyncTimeout,
		RegionSize:  DefaultRegionSize,
	}
}

// Validate checks the configuration and returns the layout it describes.
func (c *Config) Validate() (layout.Layout, error) {
	l, err := layout.Compute(c.RegionSize, c.Role)
	if err != nil {
		return layout.Layout{}, err
	}
	if c.Mode != wire.ModeText && c.Mode != wire.ModeBinary {
		return layout.Layout{}, fmt.Errorf("%w: %d", wire.ErrUnknownMode, c.Mode)
	}
	if wire.Capacity(c.Mode, int(l.OutputSize)) < 1 {
		return layout.Layout{}, fmt.Errorf("%w: %d byte buffers cannot carry %s frames",
			wire.ErrBufferTooSmall, l.OutputSize, c.Mode)
	}
	if c.SyncTimeout < 0 {
		return layout.Layout{}, fmt.Errorf("negative sync timeout %s", c.SyncTimeout)
	}
	if c.SessionTag > wire.MaxSessionTag {
		return layout.Layout{}, fmt.Errorf("session tag %d exceeds %d", c.SessionTag, wire.MaxSessionTag)
	}
	return l, nil
}

// Flags are the named construction options. They combine with bitwise OR.
type Flags uint8

const (
	// FlagSkipInit does not zero the region at open.
	FlagSkipInit Flags = 1 << iota
	// FlagRequireExisting opens an existing region instead of recreating it.
	FlagRequireExisting
	// FlagSynchronized enables blocking waits on send and receive.
	FlagSynchronized
	// FlagRaiseOnError panics instead of returning errors.
	FlagRaiseOnError
	// FlagPeerRole takes the peer half of the region.
	FlagPeerRole
	// FlagBinaryFraming enables length-prefixed framing.
	FlagBinaryFraming
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagSkipInit, "SKIP_INIT"},
	{FlagRequireExisting, "REQUIRE_EXISTING"},
	{FlagSynchronized, "SYNCHRONIZED"},
	{FlagRaiseOnError, "RAISE_ON_ERROR"},
	{FlagPeerRole, "PEER_ROLE"},
	{FlagBinaryFraming, "BINARY_FRAMING"},
}

// Has reports whether every bit of flag is set.
func (f Flags) Has(flag Flags) bool {
	return f&flag == flag
}

// Config returns DefaultConfig with the flags applied.
func (f Flags) Config() Config {
	cfg := DefaultConfig()
	cfg.SkipInit = f.Has(FlagSkipInit)
	cfg.RequireExisting = f.Has(FlagRequireExisting)
	cfg.Synchronized = f.Has(FlagSynchronized)
	cfg.RaiseOnError = f.Has(FlagRaiseOnError)
	if f.Has(FlagPeerRole) {
		cfg.Role = layout.RolePeer
	}
	if f.Has(FlagBinaryFraming) {
		cfg.Mode = wire.ModeBinary
	}
	return cfg
}

// String returns the set flags joined by "|", or "NONE".
func (f Flags) String() string {
	var parts []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			parts = append(parts, fn.name)
		}
	}
	if len(parts) == 0 {
		return "NONE"
	}
	return strings.Join(parts, "|")
}
