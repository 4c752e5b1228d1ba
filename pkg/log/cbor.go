package log

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Decoder limits. An event is a map of at most 13 keys holding one nested
// detail map, and frame data never exceeds MaxFrameDataSize, so anything
// larger is a corrupt or foreign file rather than a capture.
const (
	maxNestedLevels = 4
	maxMapPairs     = 32
	maxArrayElems   = 16
)

// ErrMalformedEvent indicates a decoded event that no FileLogger could have
// written.
var ErrMalformedEvent = errors.New("malformed capture event")

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	// Canonical key order keeps captures of identical traffic byte-identical.
	encMode, err = cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("log: cbor encoder mode: %v", err))
	}

	// Unknown keys are skipped so older fpio-log builds read newer captures.
	decMode, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthForbidden,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
		MaxNestedLevels:   maxNestedLevels,
		MaxMapPairs:       maxMapPairs,
		MaxArrayElements:  maxArrayElems,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("log: cbor decoder mode: %v", err))
	}
}

// EncodeEvent encodes an Event to CBOR.
func EncodeEvent(event Event) ([]byte, error) {
	return encMode.Marshal(event)
}

// DecodeEvent decodes one CBOR-encoded Event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := decMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	if err := checkEvent(event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// checkEvent rejects events that decode cleanly but break capture bounds.
func checkEvent(event Event) error {
	if f := event.Frame; f != nil {
		if len(f.Data) > MaxFrameDataSize {
			return fmt.Errorf("%w: %d bytes of frame data (max %d)", ErrMalformedEvent, len(f.Data), MaxFrameDataSize)
		}
		if f.PayloadSize < len(f.Data) {
			return fmt.Errorf("%w: payload size %d below %d bytes of data", ErrMalformedEvent, f.PayloadSize, len(f.Data))
		}
	}
	return nil
}

// NewEncoder creates a CBOR event encoder writing to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder creates a CBOR event decoder reading from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}
