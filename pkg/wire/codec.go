package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// LengthPrefixSize is the size of the binary framing length header in bytes.
const LengthPrefixSize = 4

// ByteOrder is the byte order of the binary framing length header.
// Both sides of a channel run on the same machine architecture family, so
// the native order is used.
var ByteOrder = binary.NativeEndian

// Codec errors.
var (
	// ErrBufferTooSmall indicates the buffer cannot hold even an empty frame.
	ErrBufferTooSmall = errors.New("buffer too small for framing")

	// ErrUnknownMode indicates an unrecognized framing mode.
	ErrUnknownMode = errors.New("unknown framing mode")
)

// Mode selects the framing used for outgoing frames.
type Mode uint8

const (
	// ModeText is null-terminated framing.
	ModeText Mode = 0
	// ModeBinary is length-prefixed framing.
	ModeBinary Mode = 1
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeText:
		return "text"
	case ModeBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "text":
		return ModeText, nil
	case "binary":
		return ModeBinary, nil
	default:
		return 0, fmt.Errorf("%w: %q (must be text or binary)", ErrUnknownMode, s)
	}
}

// Overhead returns the number of buffer bytes the mode reserves.
func (m Mode) Overhead() int {
	if m == ModeBinary {
		return LengthPrefixSize
	}
	return 1 // implicit terminator
}

// Capacity returns the maximum payload size a buffer of bufSize bytes can
// carry in the given mode. The result is negative if the buffer is too small.
func Capacity(mode Mode, bufSize int) int {
	return bufSize - mode.Overhead()
}

// Frame is one received unit of payload plus the control byte it arrived with.
type Frame struct {
	Payload []byte
	Control ControlByte
}

// Encode writes payload into dst using the given framing. dst is the whole
// output buffer: it is zeroed first, so stale bytes of a previous, longer
// frame never leak into the new one. Payloads longer than the capacity are
// truncated.
//
// Encode returns the number of payload bytes written and the control flags
// the producer must set alongside the frame.
func Encode(dst, payload []byte, mode Mode) (int, ControlByte, error) {
	if mode != ModeText && mode != ModeBinary {
		return 0, 0, fmt.Errorf("%w: %d", ErrUnknownMode, mode)
	}
	capacity := Capacity(mode, len(dst))
	if capacity < 0 {
		return 0, 0, fmt.Errorf("%w: %d bytes", ErrBufferTooSmall, len(dst))
	}

	clear(dst)
	n := min(len(payload), capacity)

	if mode == ModeText {
		copy(dst, payload[:n])
		return n, 0, nil
	}

	ByteOrder.PutUint32(dst[:LengthPrefixSize], uint32(n))
	copy(dst[LengthPrefixSize:], payload[:n])
	return n, FlagLengthPrefixed, nil
}

// Decode extracts the payload from a received buffer. When ctl has
// lengthPrefixed set, the length header is read and clamped to the buffer;
// otherwise the payload runs up to the first zero byte or the end of src.
// The returned slice does not alias src.
func Decode(src []byte, ctl ControlByte) []byte {
	if ctl.LengthPrefixed() && len(src) >= LengthPrefixSize {
		length := uint64(ByteOrder.Uint32(src[:LengthPrefixSize]))
		avail := uint64(len(src) - LengthPrefixSize)
		if length > avail {
			length = avail
		}
		return bytes.Clone(src[LengthPrefixSize : LengthPrefixSize+int(length)])
	}

	end := bytes.IndexByte(src, 0)
	if end < 0 {
		end = len(src)
	}
	return bytes.Clone(src[:end])
}
