package region

import (
	"errors"
	"io"
)

// Region errors.
var (
	// ErrClosed indicates an operation on a closed store.
	ErrClosed = errors.New("region closed")

	// ErrOutOfRange indicates an access outside the region.
	ErrOutOfRange = errors.New("access out of region range")
)

// Store is a fixed-size, randomly addressable byte region.
type Store interface {
	io.ReaderAt
	io.WriterAt

	// Sync flushes written bytes to the underlying medium so the other side
	// of the channel can observe them.
	Sync() error

	// Size returns the region size in bytes.
	Size() int64

	// Check reports whether the store is still usable.
	Check() error

	// Close releases the store.
	Close() error
}

// Zero overwrites the whole store with zero bytes and flushes it.
func Zero(s Store) error {
	buf := make([]byte, s.Size())
	if _, err := s.WriteAt(buf, 0); err != nil {
		return err
	}
	return s.Sync()
}

// ReadByteAt reads the single byte at off.
func ReadByteAt(r io.ReaderAt, off int64) (byte, error) {
	var b [1]byte
	if _, err := r.ReadAt(b[:], off); err != nil {
		return 0, err
	}
	return b[0], nil
}

// WriteByteAt writes the single byte v at off.
func WriteByteAt(w io.WriterAt, off int64, v byte) error {
	_, err := w.WriteAt([]byte{v}, off)
	return err
}
