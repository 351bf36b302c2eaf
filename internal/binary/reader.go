// Package binary provides bounds-checked little-endian reading and writing
// primitives for APE tag structures.
package binary

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/simonhull/apetag/internal/types"
)

// SafeReader wraps io.ReaderAt with bounds checking and helpful error messages.
type SafeReader struct {
	r    io.ReaderAt
	path string
	size int64
}

// NewSafeReader creates a new SafeReader.
func NewSafeReader(r io.ReaderAt, size int64, path string) *SafeReader {
	return &SafeReader{
		r:    r,
		size: size,
		path: path,
	}
}

// Path returns the file path associated with this reader.
func (sr *SafeReader) Path() string {
	return sr.path
}

// Size returns the number of readable bytes.
func (sr *SafeReader) Size() int64 {
	return sr.size
}

// ReadAt reads len(b) bytes at the given offset.
//
// Reads that fall outside [0, Size) fail with *types.OutOfBoundsError.
// Failures of the underlying reader are wrapped.
func (sr *SafeReader) ReadAt(b []byte, off int64, what string) error {
	if off < 0 || off >= sr.size || off+int64(len(b)) > sr.size {
		return &types.OutOfBoundsError{
			Path:   sr.path,
			What:   what,
			Offset: off,
			Length: len(b),
			Size:   sr.size,
		}
	}

	n, err := sr.r.ReadAt(b, off)
	if err != nil && err != io.EOF {
		return fmt.Errorf("%s: failed to read %s at offset %d: %w", sr.path, what, off, err)
	}

	if n < len(b) {
		return fmt.Errorf("%s: short read for %s at offset %d: got %d bytes, expected %d",
			sr.path, what, off, n, len(b))
	}

	return nil
}

// ReadBlock reads n bytes at the given offset into a new slice.
func (sr *SafeReader) ReadBlock(off int64, n int, what string) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%s: negative length %d while reading %s", sr.path, n, what)
	}
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	if err := sr.ReadAt(buf, off, what); err != nil {
		return nil, err
	}
	return buf, nil
}

// sizeOf returns the encoded width of T in bytes.
func sizeOf[T uint8 | uint16 | uint32 | uint64]() int {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	case uint32:
		return 4
	default:
		return 8
	}
}

// DecodeLE decodes a little-endian T from the start of buf.
// buf must hold at least the width of T.
func DecodeLE[T uint8 | uint16 | uint32 | uint64](buf []byte) T {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return T(buf[0])
	case uint16:
		return T(binary.LittleEndian.Uint16(buf))
	case uint32:
		return T(binary.LittleEndian.Uint32(buf))
	default:
		return T(binary.LittleEndian.Uint64(buf))
	}
}

// ReadLE reads a numeric value of type T at the given offset using
// little-endian byte order. Every APE integer field is little-endian.
//
// Example:
//
//	tagSize, err := binary.ReadLE[uint32](sr, offset+12, "APE tag size")
func ReadLE[T uint8 | uint16 | uint32 | uint64](sr *SafeReader, off int64, what string) (T, error) {
	buf := make([]byte, sizeOf[T]())
	if err := sr.ReadAt(buf, off, what); err != nil {
		var zero T
		return zero, err
	}
	return DecodeLE[T](buf), nil
}

// Reader provides sequential reading with automatic offset tracking.
type Reader struct {
	*SafeReader
	offset int64
}

// NewReader creates a new Reader starting at the given offset.
func NewReader(sr *SafeReader, offset int64) *Reader {
	return &Reader{
		SafeReader: sr,
		offset:     offset,
	}
}

// ReadValue reads a little-endian numeric value and advances the offset.
func ReadValue[T uint8 | uint16 | uint32 | uint64](r *Reader, what string) (T, error) {
	val, err := ReadLE[T](r.SafeReader, r.offset, what)
	if err != nil {
		var zero T
		return zero, err
	}

	r.offset += int64(sizeOf[T]())
	return val, nil
}

// ReadBytes reads n raw bytes and advances the offset.
func (r *Reader) ReadBytes(n int, what string) ([]byte, error) {
	buf, err := r.SafeReader.ReadBlock(r.offset, n, what)
	if err != nil {
		return nil, err
	}

	r.offset += int64(n)
	return buf, nil
}

// Skip advances the offset by n bytes.
func (r *Reader) Skip(n int64) {
	r.offset += n
}

// Offset returns the current offset.
func (r *Reader) Offset() int64 {
	return r.offset
}

// ChainReader allows chaining multiple reads with deferred error checking.
// This avoids repetitive "if err != nil" checks.
type ChainReader struct {
	*Reader
	err error
}

// NewChainReader creates a new ChainReader.
func NewChainReader(r *Reader) *ChainReader {
	return &ChainReader{Reader: r}
}

// ReadChained reads a value with deferred error checking.
// If a previous read failed, returns zero value without attempting read.
func ReadChained[T uint8 | uint16 | uint32 | uint64](cr *ChainReader, what string) T {
	if cr.err != nil {
		var zero T
		return zero
	}

	val, err := ReadValue[T](cr.Reader, what)
	if err != nil {
		cr.err = err
		var zero T
		return zero
	}

	return val
}

// Bytes reads n raw bytes, accumulating any error.
func (cr *ChainReader) Bytes(n int, what string) []byte {
	if cr.err != nil {
		return nil
	}

	val, err := cr.Reader.ReadBytes(n, what)
	if err != nil {
		cr.err = err
		return nil
	}

	return val
}

// Error returns the accumulated error, if any.
func (cr *ChainReader) Error() error {
	return cr.err
}
