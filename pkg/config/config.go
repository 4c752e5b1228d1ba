// Package config loads fpio settings from a YAML file.
//
// Example:
//
//	protocol_version: "1.0"
//	region: /var/lib/vm/floppy.img
//	role: host
//	framing: binary
//	synchronized: true
//	timeout: 30s
//	protocol_log: /tmp/fpio.flog
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/floppyio/floppyio-go/pkg/channel"
	"github.com/floppyio/floppyio-go/pkg/layout"
	"github.com/floppyio/floppyio-go/pkg/version"
	"github.com/floppyio/floppyio-go/pkg/wire"
)

// DefaultRegion is the device the peer side uses when none is configured.
const DefaultRegion = "/dev/fd0"

// Waiter names.
const (
	WaiterPoll   = "poll"
	WaiterNotify = "notify"
)

// ErrInvalid indicates a setting with an unusable value.
var ErrInvalid = errors.New("invalid setting")

// Duration is a time.Duration read from either a Go duration string
// ("250ms", "5s") or a plain integer number of seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", value.Line)
	}
	if value.ShortTag() == "!!int" {
		secs, err := strconv.ParseInt(value.Value, 10, 64)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		*d = Duration(time.Duration(secs) * time.Second)
		return nil
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// File is the content of an fpio configuration file.
type File struct {
	ProtocolVersion string   `yaml:"protocol_version"`
	Region          string   `yaml:"region"`
	Size            int64    `yaml:"size"`
	Role            string   `yaml:"role"`
	Framing         string   `yaml:"framing"`
	Synchronized    bool     `yaml:"synchronized"`
	Timeout         Duration `yaml:"timeout"`
	SkipInit        bool     `yaml:"skip_init"`
	RequireExisting bool     `yaml:"require_existing"`
	RaiseOnError    bool     `yaml:"raise_on_error"`
	SessionTag      uint8    `yaml:"session_tag"`
	Waiter          string   `yaml:"waiter"`
	ProtocolLog     string   `yaml:"protocol_log"`
	LogLevel        string   `yaml:"log_level"`
}

// Default returns the settings of a peer attached to an existing region:
// binary framing, synchronized, no initialization, waiting forever.
func Default() File {
	return File{
		ProtocolVersion: version.Current,
		Region:          DefaultRegion,
		Size:            channel.DefaultRegionSize,
		Role:            layout.RolePeer.String(),
		Framing:         wire.ModeBinary.String(),
		Synchronized:    true,
		SkipInit:        true,
		RequireExisting: true,
		Waiter:          WaiterPoll,
		LogLevel:        "warn",
	}
}

// LoadError describes a configuration file that could not be loaded.
type LoadError struct {
	File    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.File != "" {
		msg = e.File + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Parse reads settings from YAML bytes on top of Default. Unknown keys are
// rejected.
func Parse(data []byte) (File, error) {
	f := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, &LoadError{Message: "failed to parse YAML", Cause: err}
	}
	if err := f.Validate(); err != nil {
		return File{}, &LoadError{Message: "invalid configuration", Cause: err}
	}
	return f, nil
}

// Load reads settings from the file at path.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}
	f, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.File = path
		}
		return File{}, err
	}
	return f, nil
}

// Validate checks every setting.
func (f *File) Validate() error {
	if err := version.Supports(f.ProtocolVersion); err != nil {
		return fmt.Errorf("%w: protocol_version: %w", ErrInvalid, err)
	}
	if f.Region == "" {
		return fmt.Errorf("%w: region is empty", ErrInvalid)
	}
	if _, err := f.role(); err != nil {
		return err
	}
	if _, err := wire.ParseMode(f.Framing); err != nil {
		return fmt.Errorf("%w: framing: %w", ErrInvalid, err)
	}
	if _, err := layout.Compute(f.Size, layout.RoleHost); err != nil {
		return fmt.Errorf("%w: size: %w", ErrInvalid, err)
	}
	if f.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout", ErrInvalid)
	}
	if f.SessionTag > wire.MaxSessionTag {
		return fmt.Errorf("%w: session_tag %d exceeds %d", ErrInvalid, f.SessionTag, wire.MaxSessionTag)
	}
	switch f.Waiter {
	case "", WaiterPoll, WaiterNotify:
	default:
		return fmt.Errorf("%w: waiter %q (must be poll or notify)", ErrInvalid, f.Waiter)
	}
	if _, err := ParseLevel(f.LogLevel); err != nil {
		return err
	}
	return nil
}

func (f *File) role() (layout.Role, error) {
	switch strings.ToLower(f.Role) {
	case "host":
		return layout.RoleHost, nil
	case "peer", "guest":
		return layout.RolePeer, nil
	default:
		return 0, fmt.Errorf("%w: role %q (must be host or peer)", ErrInvalid, f.Role)
	}
}

// ChannelConfig converts the settings into a channel configuration. Waiter,
// ProtocolLogger and Logger are left for the caller to fill in.
func (f *File) ChannelConfig() (channel.Config, error) {
	if err := f.Validate(); err != nil {
		return channel.Config{}, err
	}
	role, _ := f.role()
	mode, _ := wire.ParseMode(f.Framing)

	cfg := channel.DefaultConfig()
	cfg.Role = role
	cfg.Mode = mode
	cfg.RegionSize = f.Size
	cfg.Synchronized = f.Synchronized
	cfg.SyncTimeout = time.Duration(f.Timeout)
	cfg.SkipInit = f.SkipInit
	cfg.RequireExisting = f.RequireExisting
	cfg.RaiseOnError = f.RaiseOnError
	cfg.SessionTag = f.SessionTag
	return cfg, nil
}

// ParseLevel parses a log level name. An empty name means warn.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: log_level %q", ErrInvalid, s)
	}
}
