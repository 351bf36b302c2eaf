package binary

import (
	"encoding/binary"
	"io"
)

// SafeWriter wraps io.Writer with position tracking.
//
// The first write error is sticky: later writes are skipped and Err
// reports it, so renderers can emit a whole structure and check once.
type SafeWriter struct {
	w      io.Writer
	err    error
	offset int64
}

// NewSafeWriter creates a new SafeWriter.
func NewSafeWriter(w io.Writer) *SafeWriter {
	return &SafeWriter{w: w}
}

// Offset returns the current position (number of bytes written).
func (sw *SafeWriter) Offset() int64 {
	return sw.offset
}

// Err returns the first write error, if any.
func (sw *SafeWriter) Err() error {
	return sw.err
}

// WriteBytes writes raw bytes to the underlying writer.
func (sw *SafeWriter) WriteBytes(b []byte) error {
	if sw.err != nil {
		return sw.err
	}
	n, err := sw.w.Write(b)
	sw.offset += int64(n)
	if err != nil {
		sw.err = err
	}
	return err
}

// WriteString writes a string as bytes to the underlying writer.
func (sw *SafeWriter) WriteString(s string) error {
	return sw.WriteBytes([]byte(s))
}

// WriteZeros writes n zero bytes.
func (sw *SafeWriter) WriteZeros(n int) error {
	return sw.WriteBytes(make([]byte, n))
}

// WriteLE writes a value of type T in little-endian byte order.
// T must be uint8, uint16, uint32, or uint64.
func WriteLE[T uint8 | uint16 | uint32 | uint64](sw *SafeWriter, val T) error {
	buf := make([]byte, sizeOf[T]())

	var zero T
	switch any(zero).(type) {
	case uint8:
		buf[0] = byte(val)
	case uint16:
		binary.LittleEndian.PutUint16(buf, uint16(val))
	case uint32:
		binary.LittleEndian.PutUint32(buf, uint32(val))
	case uint64:
		binary.LittleEndian.PutUint64(buf, uint64(val))
	}

	return sw.WriteBytes(buf)
}
