package buffer

import (
	"bytes"
	"encoding/binary"

	"github.com/nyxdb/pgwire/pkg/types"
)

// MsgWriter builds the body of a single outbound message. It knows nothing
// about the transport or the frame length prefix; once End is called the
// finished type and body are handed to a pkg/frame.Encoder.
type MsgWriter struct {
	typ  types.ClientMessage
	body bytes.Buffer
	err  error
}

// NewMsgWriter constructs an empty MsgWriter.
func NewMsgWriter() *MsgWriter {
	return &MsgWriter{}
}

// Start resets the writer and begins building a message of the given type.
func (writer *MsgWriter) Start(t types.ClientMessage) {
	writer.typ = t
	writer.body.Reset()
	writer.err = nil
}

// AddByte appends a single byte.
func (writer *MsgWriter) AddByte(b byte) {
	if writer.err != nil {
		return
	}

	writer.err = writer.body.WriteByte(b)
}

// AddInt16 appends a big-endian int16.
func (writer *MsgWriter) AddInt16(i int16) {
	if writer.err != nil {
		return
	}

	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], uint16(i))
	_, writer.err = writer.body.Write(buf[:])
}

// AddInt32 appends a big-endian int32.
func (writer *MsgWriter) AddInt32(i int32) {
	if writer.err != nil {
		return
	}

	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(i))
	_, writer.err = writer.body.Write(buf[:])
}

// AddInt64 appends a big-endian int64.
func (writer *MsgWriter) AddInt64(i int64) {
	if writer.err != nil {
		return
	}

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(i))
	_, writer.err = writer.body.Write(buf[:])
}

// AddBytes appends b verbatim.
func (writer *MsgWriter) AddBytes(b []byte) {
	if writer.err != nil {
		return
	}

	_, writer.err = writer.body.Write(b)
}

// AddString appends s verbatim, with no terminator.
func (writer *MsgWriter) AddString(s string) {
	if writer.err != nil {
		return
	}

	_, writer.err = writer.body.WriteString(s)
}

// AddNullTerminate appends a null terminator.
func (writer *MsgWriter) AddNullTerminate() {
	if writer.err != nil {
		return
	}

	writer.err = writer.body.WriteByte(0)
}

// Error returns the first error encountered while building the message, if
// any.
func (writer *MsgWriter) Error() error {
	return writer.err
}

// Type returns the message type set by Start.
func (writer *MsgWriter) Type() types.ClientMessage {
	return writer.typ
}

// End returns the finished message body. The caller passes it, together
// with Type(), to a pkg/frame.Encoder to add the length-prefixed header.
func (writer *MsgWriter) End() ([]byte, error) {
	if writer.err != nil {
		return nil, writer.err
	}

	return writer.body.Bytes(), nil
}
