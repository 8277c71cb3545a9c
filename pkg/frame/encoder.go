package frame

import (
	"encoding/binary"
	"io"
)

// minGrow is the smallest chunk the Encoder's backing array grows by once it
// needs to grow at all, to avoid repeated tiny reallocations for a
// connection that writes many small messages.
const minGrow = 4096

// Encoder is a grow-on-demand contiguous buffer used to build one or more
// outbound messages before flushing them to the transport in a single
// write. The usage pattern is: Reserve the bytes a message needs, fill in
// the returned view, Commit the number of bytes actually used, repeat for
// every message in the batch, then Flush.
type Encoder struct {
	buf    []byte
	cursor int
}

// NewEncoder constructs an empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Reserve grows the backing buffer if necessary and returns a view into it
// starting at the current cursor, with length n. The caller fills the view
// and then calls Commit with the number of bytes it actually used (which may
// be less than n, e.g. when n was an upper bound).
func (e *Encoder) Reserve(n int) []byte {
	need := e.cursor + n
	if cap(e.buf) < need {
		grow := need
		if grow < len(e.buf)+minGrow {
			grow = len(e.buf) + minGrow
		}

		next := make([]byte, len(e.buf), grow)
		copy(next, e.buf)
		e.buf = next
	}

	e.buf = e.buf[:need]
	return e.buf[e.cursor:need]
}

// Commit advances the cursor by n bytes, which must be <= the length most
// recently returned by Reserve.
func (e *Encoder) Commit(n int) {
	e.cursor += n
	e.buf = e.buf[:e.cursor]
}

// WriteMessage is a convenience helper that reserves, fills, and commits a
// complete length-prefixed message in one call: it writes the 1-byte type,
// a placeholder length, the body, and then backpatches the length field.
func (e *Encoder) WriteMessage(msgType byte, body []byte) {
	total := 1 + 4 + len(body)
	view := e.Reserve(total)

	view[0] = msgType
	binary.BigEndian.PutUint32(view[1:5], uint32(4+len(body)))
	copy(view[5:], body)

	e.Commit(total)
}

// WriteUntyped writes a length-prefixed message with no leading type byte,
// used only for the startup message, which predates the protocol's type-tag
// convention.
func (e *Encoder) WriteUntyped(body []byte) {
	total := 4 + len(body)
	view := e.Reserve(total)

	binary.BigEndian.PutUint32(view[0:4], uint32(total))
	copy(view[4:], body)

	e.Commit(total)
}

// Flush writes the committed prefix of the buffer to w and resets the
// cursor to zero. The backing array's capacity is retained across calls so
// repeated request/flush cycles do not reallocate once warmed up.
func (e *Encoder) Flush(w io.Writer) error {
	if e.cursor == 0 {
		return nil
	}

	_, err := w.Write(e.buf[:e.cursor])
	e.cursor = 0
	e.buf = e.buf[:0]
	return err
}

// Len reports the number of committed, not-yet-flushed bytes.
func (e *Encoder) Len() int {
	return e.cursor
}
