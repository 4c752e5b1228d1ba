package wire

import (
	"strconv"
	"strings"
)

// ControlByte is the single synchronization byte of one channel direction.
type ControlByte uint8

// Control byte flags.
const (
	// FlagDataPresent marks a frame waiting for the consumer.
	FlagDataPresent ControlByte = 1 << 0

	// FlagEndOfData marks the last frame of a chunked transfer.
	FlagEndOfData ControlByte = 1 << 1

	// FlagLengthPrefixed marks a payload preceded by a 4-byte length.
	FlagLengthPrefixed ControlByte = 1 << 2

	// FlagAborted signals that the producer failed the transfer.
	FlagAborted ControlByte = 1 << 3

	// SessionTagMask covers the 4-bit session tag.
	SessionTagMask ControlByte = 0xF0

	sessionTagShift = 4

	// MaxSessionTag is the largest representable session tag.
	MaxSessionTag = 0x0F
)

// DataPresent reports whether a frame is waiting for the consumer.
func (c ControlByte) DataPresent() bool { return c&FlagDataPresent != 0 }

// EndOfData reports whether this frame ends a chunked transfer.
func (c ControlByte) EndOfData() bool { return c&FlagEndOfData != 0 }

// LengthPrefixed reports whether the payload carries a length header.
func (c ControlByte) LengthPrefixed() bool { return c&FlagLengthPrefixed != 0 }

// Aborted reports whether the producer aborted the transfer.
func (c ControlByte) Aborted() bool { return c&FlagAborted != 0 }

// SessionTag returns the 4-bit session tag.
func (c ControlByte) SessionTag() uint8 { return uint8(c&SessionTagMask) >> sessionTagShift }

// WithSessionTag returns c with its session tag replaced.
// Only the low four bits of tag are used.
func (c ControlByte) WithSessionTag(tag uint8) ControlByte {
	return c&^SessionTagMask | ControlByte(tag&MaxSessionTag)<<sessionTagShift
}

// Acknowledged returns the byte the consumer writes back after reading a
// frame: dataPresent cleared, every other bit preserved.
func (c ControlByte) Acknowledged() ControlByte {
	return c &^ FlagDataPresent
}

// String returns a readable flag list, e.g. "PRESENT|EOD|tag=3".
func (c ControlByte) String() string {
	var parts []string
	if c.DataPresent() {
		parts = append(parts, "PRESENT")
	}
	if c.EndOfData() {
		parts = append(parts, "EOD")
	}
	if c.LengthPrefixed() {
		parts = append(parts, "LEN")
	}
	if c.Aborted() {
		parts = append(parts, "ABORTED")
	}
	if tag := c.SessionTag(); tag != 0 {
		parts = append(parts, "tag="+strconv.Itoa(int(tag)))
	}
	if len(parts) == 0 {
		return "EMPTY"
	}
	return strings.Join(parts, "|")
}
