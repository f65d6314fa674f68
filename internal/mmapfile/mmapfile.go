// Package mmapfile provides read-only memory-mapped file access.
//
// Mapping a weight dump instead of streaming it lets large payloads be
// copied into tensor storage straight from the OS page cache.
package mmapfile

import (
	"fmt"
	"os"
)

// Reader is a read-only memory mapping of a file.
//
// Important: Always call Close() when done to unmap the file (use defer).
type Reader struct {
	file   *os.File
	data   []byte // mmap'd region (read-only)
	size   int64
	closed bool
}

// Open opens path read-only and maps it into memory. Empty files cannot
// be mapped and are rejected.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if stat.Size() == 0 {
		_ = file.Close()
		return nil, fmt.Errorf("cannot map empty file %s", path)
	}

	// Memory map the file (platform-specific implementation)
	data, err := mmapFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("mmap failed: %w", err)
	}

	return &Reader{
		file: file,
		data: data,
		size: stat.Size(),
	}, nil
}

// Bytes returns the mapped region. The slice is valid only while the
// reader is open, and writing to it is undefined behavior.
func (r *Reader) Bytes() []byte {
	if r.closed {
		return nil
	}
	return r.data
}

// Size returns the mapped file's size in bytes.
func (r *Reader) Size() int64 {
	return r.size
}

// Close unmaps and closes the file. Closing a closed reader is a no-op.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	var err error
	if r.data != nil {
		err = munmapFile(r.data)
		r.data = nil
	}

	if closeErr := r.file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	return err
}
