// Package buffer decodes and encodes the field-level contents of a single
// PostgreSQL wire protocol message. It knows nothing about framing or
// transport: a FieldReader is handed an already-delimited message payload
// (see pkg/frame.Frame.Payload) and a MsgWriter hands its finished body to a
// pkg/frame.Encoder.
package buffer

import (
	"bytes"
	"encoding/binary"
	"unsafe"
)

// FieldReader decodes the fixed-width and null-terminated fields that make
// up a single message payload, consuming the payload left to right.
type FieldReader struct {
	Msg []byte
}

// NewFieldReader constructs a FieldReader over an already-framed message
// payload. The payload is consumed directly; callers must not reuse it.
func NewFieldReader(payload []byte) *FieldReader {
	return &FieldReader{Msg: payload}
}

// Len returns the number of unconsumed bytes remaining in the payload.
func (reader *FieldReader) Len() int {
	return len(reader.Msg)
}

// GetString reads a null-terminated string.
func (reader *FieldReader) GetString() (string, error) {
	pos := bytes.IndexByte(reader.Msg, 0)
	if pos == -1 {
		return "", NewMissingNulTerminator()
	}

	// Conversion from a byte slice to a string without allocation or copy.
	// Safe because the underlying bytes are never reused once consumed.
	s := reader.Msg[:pos]
	reader.Msg = reader.Msg[pos+1:]
	return *((*string)(unsafe.Pointer(&s))), nil
}

// GetBytes returns the next n bytes of the payload. n == -1 represents a
// NULL parameter/column value and returns a nil slice with no error.
func (reader *FieldReader) GetBytes(n int) ([]byte, error) {
	if n == -1 {
		return nil, nil
	}
	if len(reader.Msg) < n {
		return nil, NewInsufficientData(len(reader.Msg))
	}

	v := reader.Msg[:n]
	reader.Msg = reader.Msg[n:]
	return v, nil
}

// GetByte returns the payload's next byte.
func (reader *FieldReader) GetByte() (byte, error) {
	if len(reader.Msg) < 1 {
		return 0, NewInsufficientData(len(reader.Msg))
	}

	v := reader.Msg[0]
	reader.Msg = reader.Msg[1:]
	return v, nil
}

// GetUint16 returns the buffer's contents as a uint16.
func (reader *FieldReader) GetUint16() (uint16, error) {
	if len(reader.Msg) < 2 {
		return 0, NewInsufficientData(len(reader.Msg))
	}

	v := binary.BigEndian.Uint16(reader.Msg[:2])
	reader.Msg = reader.Msg[2:]
	return v, nil
}

// GetInt16 returns the buffer's contents as an int16.
func (reader *FieldReader) GetInt16() (int16, error) {
	v, err := reader.GetUint16()
	return int16(v), err
}

// GetUint32 returns the buffer's contents as a uint32.
func (reader *FieldReader) GetUint32() (uint32, error) {
	if len(reader.Msg) < 4 {
		return 0, NewInsufficientData(len(reader.Msg))
	}

	v := binary.BigEndian.Uint32(reader.Msg[:4])
	reader.Msg = reader.Msg[4:]
	return v, nil
}

// GetInt32 returns the buffer's contents as an int32.
func (reader *FieldReader) GetInt32() (int32, error) {
	v, err := reader.GetUint32()
	return int32(v), err
}

// GetUint64 returns the buffer's contents as a uint64.
func (reader *FieldReader) GetUint64() (uint64, error) {
	if len(reader.Msg) < 8 {
		return 0, NewInsufficientData(len(reader.Msg))
	}

	v := binary.BigEndian.Uint64(reader.Msg[:8])
	reader.Msg = reader.Msg[8:]
	return v, nil
}

// GetInt64 returns the buffer's contents as an int64.
func (reader *FieldReader) GetInt64() (int64, error) {
	v, err := reader.GetUint64()
	return int64(v), err
}
