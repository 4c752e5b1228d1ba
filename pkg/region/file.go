package region

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// File is a Store backed by a disk image or block device.
type File struct {
	f    *os.File
	path string
	size int64

	mu     sync.Mutex
	closed bool
}

// OpenFile opens the region at path.
//
// Without requireExisting the file is created, or truncated if it exists.
// With requireExisting an existing file is opened in place; if that open
// fails the file is created instead. The created result reports whether the
// region was freshly created, in which case the caller must initialize it
// even if it asked to skip initialization.
//
// Regular files shorter than size are extended. Device files are used as-is.
func OpenFile(path string, size int64, requireExisting bool) (_ *File, created bool, err error) {
	var f *os.File
	if requireExisting {
		f, err = os.OpenFile(path, os.O_RDWR, 0)
		if err != nil {
			f, err = os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
			created = true
		}
	} else {
		f, err = os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		created = true
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to open region %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, false, fmt.Errorf("failed to stat region %s: %w", path, err)
	}
	if info.Mode().IsRegular() && info.Size() < size {
		if err := f.Truncate(size); err != nil {
			f.Close()
			return nil, false, fmt.Errorf("failed to size region %s: %w", path, err)
		}
	}

	return &File{f: f, path: path, size: size}, created, nil
}

// Path returns the path the region was opened from.
func (r *File) Path() string {
	return r.path
}

// ReadAt reads len(p) bytes at off.
func (r *File) ReadAt(p []byte, off int64) (int, error) {
	if err := r.bounds(len(p), off); err != nil {
		return 0, err
	}
	n, err := r.f.ReadAt(p, off)
	if err == io.EOF && n == len(p) {
		err = nil
	}
	return n, err
}

// WriteAt writes p at off.
func (r *File) WriteAt(p []byte, off int64) (int, error) {
	if err := r.bounds(len(p), off); err != nil {
		return 0, err
	}
	return r.f.WriteAt(p, off)
}

// Sync commits written bytes to the medium.
func (r *File) Sync() error {
	if err := r.Check(); err != nil {
		return err
	}
	return r.f.Sync()
}

// Size returns the region size.
func (r *File) Size() int64 {
	return r.size
}

// Check verifies the file is open and still reachable.
func (r *File) Check() error {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return ErrClosed
	}
	_, err := r.f.Stat()
	return err
}

// Close closes the file. It is safe to call Close multiple times.
func (r *File) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.f.Close()
}

func (r *File) bounds(n int, off int64) error {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if off < 0 || off+int64(n) > r.size {
		return fmt.Errorf("%w: [%d,+%d) in %d bytes", ErrOutOfRange, off, n, r.size)
	}
	return nil
}

// Compile-time interface satisfaction check.
var _ Store = (*File)(nil)
