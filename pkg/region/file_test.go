package region

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenFileCreatesAndSizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "floppy.img")

	r, created, err := OpenFile(path, 1024, false)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer r.Close()

	if !created {
		t.Error("expected created = true")
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != 1024 {
		t.Errorf("file size = %d, want 1024", info.Size())
	}
	if r.Size() != 1024 {
		t.Errorf("Size() = %d, want 1024", r.Size())
	}
	if r.Path() != path {
		t.Errorf("Path() = %q, want %q", r.Path(), path)
	}
}

func TestOpenFileTruncatesWithoutRequireExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "floppy.img")
	if err := os.WriteFile(path, bytes.Repeat([]byte{0xAA}, 64), 0644); err != nil {
		t.Fatal(err)
	}

	r, _, err := OpenFile(path, 64, false)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer r.Close()

	buf := make([]byte, 64)
	if _, err := r.ReadAt(buf, 0); err != nil {
		t.Fatalf("ReadAt failed: %v", err)
	}
	if !bytes.Equal(buf, make([]byte, 64)) {
		t.Error("existing contents survived a truncating open")
	}
}

func TestOpenFileRequireExistingKeepsContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "floppy.img")
	want := bytes.Repeat([]byte{0x55}, 64)
	if err := os.WriteFile(path, want, 0644); err != nil {
		t.Fatal(err)
	}

	r, created, err := OpenFile(path, 64, true)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer r.Close()

	if created {
		t.Error("expected created = false for an existing file")
	}
	buf := make([]byte, 64)
	if _, err := r.ReadAt(buf, 0); err != nil {
		t.Fatalf("ReadAt failed: %v", err)
	}
	if !bytes.Equal(buf, want) {
		t.Error("existing contents were not preserved")
	}
}

func TestOpenFileRequireExistingFallsBackToCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.img")

	r, created, err := OpenFile(path, 128, true)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer r.Close()

	if !created {
		t.Error("expected created = true after fallback")
	}
}

func TestOpenFileFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no-such-dir", "floppy.img")

	if _, _, err := OpenFile(path, 64, true); err == nil {
		t.Fatal("expected error for unreachable path")
	}
}

func TestFileReadWriteSync(t *testing.T) {
	path := filepath.Join(t.TempDir(), "floppy.img")
	r, _, err := OpenFile(path, 64, false)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if _, err := r.WriteAt([]byte("hello"), 10); err != nil {
		t.Fatalf("WriteAt failed: %v", err)
	}
	if err := WriteByteAt(r, 63, 0x01); err != nil {
		t.Fatalf("WriteByteAt failed: %v", err)
	}
	if err := r.Sync(); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	buf := make([]byte, 5)
	if _, err := r.ReadAt(buf, 10); err != nil {
		t.Fatalf("ReadAt failed: %v", err)
	}
	if string(buf) != "hello" {
		t.Errorf("ReadAt = %q, want %q", buf, "hello")
	}
	b, err := ReadByteAt(r, 63)
	if err != nil || b != 0x01 {
		t.Errorf("ReadByteAt = %#x, %v", b, err)
	}
}

func TestFileOutOfRange(t *testing.T) {
	r, _, err := OpenFile(filepath.Join(t.TempDir(), "floppy.img"), 16, false)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if _, err := r.WriteAt([]byte("x"), 16); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("WriteAt past end error = %v, want ErrOutOfRange", err)
	}
	if _, err := r.ReadAt(make([]byte, 4), -1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("ReadAt negative offset error = %v, want ErrOutOfRange", err)
	}
}

func TestFileClose(t *testing.T) {
	r, _, err := OpenFile(filepath.Join(t.TempDir(), "floppy.img"), 16, false)
	if err != nil {
		t.Fatal(err)
	}

	if err := r.Check(); err != nil {
		t.Errorf("Check on open file = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
	if err := r.Check(); !errors.Is(err, ErrClosed) {
		t.Errorf("Check after Close = %v, want ErrClosed", err)
	}
	if _, err := r.ReadAt(make([]byte, 1), 0); !errors.Is(err, ErrClosed) {
		t.Errorf("ReadAt after Close = %v, want ErrClosed", err)
	}
}
