package log

import (
	"time"

	"github.com/floppyio/floppyio-go/pkg/layout"
	"github.com/floppyio/floppyio-go/pkg/wire"
)

// MaxFrameDataSize is the maximum frame payload kept in a FrameEvent.
// Larger payloads are truncated to bound capture file growth.
const MaxFrameDataSize = 4096

// Event represents a protocol log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ChannelID identifies the channel instance (UUID).
	ChannelID string `cbor:"2,keyasint"`

	// Direction indicates data flow relative to the local side.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// LocalRole is the role of the side that captured the event.
	LocalRole layout.Role `cbor:"6,keyasint,omitempty"`

	// RegionPath is the region file, empty for in-memory regions.
	RegionPath string `cbor:"7,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame       *FrameEvent       `cbor:"10,keyasint,omitempty"`
	Control     *ControlEvent     `cbor:"11,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"13,keyasint,omitempty"`
}

// Direction indicates the direction of data flow.
type Direction uint8

const (
	// DirectionIn indicates data read from the input range.
	DirectionIn Direction = 0
	// DirectionOut indicates data written to the output range.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which layer captured the event.
type Layer uint8

const (
	// LayerRegion is the raw region layer.
	LayerRegion Layer = 0
	// LayerWire is the framing layer.
	LayerWire Layer = 1
	// LayerChannel is the channel state machine.
	LayerChannel Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerRegion:
		return "REGION"
	case LayerWire:
		return "WIRE"
	case LayerChannel:
		return "CHANNEL"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates a frame.
	CategoryMessage Category = 0
	// CategoryControl indicates a control byte transition.
	CategoryControl Category = 1
	// CategoryState indicates a state change.
	CategoryState Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryControl:
		return "CONTROL"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures a frame at the wire layer.
type FrameEvent struct {
	// Size is the buffer size the frame occupies in bytes.
	Size int `cbor:"1,keyasint"`

	// PayloadSize is the logical payload length.
	PayloadSize int `cbor:"2,keyasint"`

	// Data is the payload (may be truncated for large frames).
	Data []byte `cbor:"3,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"4,keyasint,omitempty"`

	// Control is the control byte the frame was sent or received with.
	Control wire.ControlByte `cbor:"5,keyasint"`

	// Mode is the framing used by the local side.
	Mode wire.Mode `cbor:"6,keyasint"`
}

// NewFrameEvent builds a FrameEvent, truncating the payload copy to
// MaxFrameDataSize.
func NewFrameEvent(size int, payload []byte, ctl wire.ControlByte, mode wire.Mode) *FrameEvent {
	data := payload
	truncated := false
	if len(data) > MaxFrameDataSize {
		data = data[:MaxFrameDataSize]
		truncated = true
	}
	return &FrameEvent{
		Size:        size,
		PayloadSize: len(payload),
		Data:        append([]byte(nil), data...),
		Truncated:   truncated,
		Control:     ctl,
		Mode:        mode,
	}
}

// ControlAction identifies what happened to a control byte.
type ControlAction uint8

const (
	// ControlMark is the producer setting dataPresent.
	ControlMark ControlAction = 0
	// ControlAck is the consumer clearing dataPresent.
	ControlAck ControlAction = 1
	// ControlWait is a completed wait on a control byte.
	ControlWait ControlAction = 2
)

// String returns the action name.
func (a ControlAction) String() string {
	switch a {
	case ControlMark:
		return "MARK"
	case ControlAck:
		return "ACK"
	case ControlWait:
		return "WAIT"
	default:
		return "UNKNOWN"
	}
}

// ControlEvent captures a control byte transition.
type ControlEvent struct {
	// Action performed on the control byte.
	Action ControlAction `cbor:"1,keyasint"`

	// Offset of the control byte in the region.
	Offset int64 `cbor:"2,keyasint"`

	// Old is the value before the transition (as last read).
	Old wire.ControlByte `cbor:"3,keyasint"`

	// New is the value after the transition.
	New wire.ControlByte `cbor:"4,keyasint"`

	// Waited is how long a wait blocked (ControlWait only).
	Waited *time.Duration `cbor:"5,keyasint,omitempty"`
}

// StateChangeEvent captures channel lifecycle events.
type StateChangeEvent struct {
	// OldState is the previous state (may be empty).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the full chained error message.
	Message string `cbor:"2,keyasint"`

	// Code is the channel error code (if applicable).
	Code *int `cbor:"3,keyasint,omitempty"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`
}
