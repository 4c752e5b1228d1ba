package region

import (
	"fmt"
	"sync"
)

// Memory is an in-memory Store. It is safe for concurrent use, so a host
// channel and a peer channel in the same process can share one Memory.
type Memory struct {
	mu     sync.RWMutex
	data   []byte
	closed bool
	syncs  int
}

// NewMemory creates a zero-filled in-memory region of the given size.
func NewMemory(size int64) *Memory {
	return &Memory{data: make([]byte, size)}
}

// ReadAt copies len(p) bytes at off into p.
func (m *Memory) ReadAt(p []byte, off int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.bounds(len(p), off); err != nil {
		return 0, err
	}
	return copy(p, m.data[off:]), nil
}

// WriteAt copies p into the region at off.
func (m *Memory) WriteAt(p []byte, off int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.bounds(len(p), off); err != nil {
		return 0, err
	}
	return copy(m.data[off:], p), nil
}

// Sync records a flush. Memory writes are immediately visible.
func (m *Memory) Sync() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.syncs++
	return nil
}

// Syncs returns how many times Sync succeeded.
func (m *Memory) Syncs() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.syncs
}

// Size returns the region size.
func (m *Memory) Size() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.data))
}

// Check returns ErrClosed after Close.
func (m *Memory) Check() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}
	return nil
}

// Close marks the region closed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Bytes returns a copy of the region contents.
func (m *Memory) Bytes() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out
}

func (m *Memory) bounds(n int, off int64) error {
	if m.closed {
		return ErrClosed
	}
	if off < 0 || off+int64(n) > int64(len(m.data)) {
		return fmt.Errorf("%w: [%d,+%d) in %d bytes", ErrOutOfRange, off, n, len(m.data))
	}
	return nil
}

// Compile-time interface satisfaction check.
var _ Store = (*Memory)(nil)
