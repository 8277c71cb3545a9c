// Package frame implements the PostgreSQL wire protocol's length-prefixed
// message framing, independent of any particular connection state: an
// inbound Framer slices an arbitrary, caller-fed byte stream into whole
// messages, and an Encoder builds outbound messages into a grow-on-demand
// buffer.
package frame

import "encoding/binary"

// Frame is one complete, length-delimited protocol message.
//
// Type is zero for the very first frame exchanged on a connection (the
// untagged StartupMessage), and the message type byte for every frame after
// that.
type Frame struct {
	Type    byte
	Payload []byte
}

// Framer accepts arbitrary byte chunks via Feed and emits whole Frames in
// arrival order. It never blocks and never reads from anything itself; the
// caller is the sole driver, handing it bytes as they arrive from the
// transport.
//
// The first frame fed to a Framer constructed with NewFramer (tagged mode)
// is expected to carry a leading type byte. Use NewUntypedFramer for the
// startup exchange, where the very first frame on the wire has no type byte.
type Framer struct {
	typed  bool
	header [5]byte
	// hdrFill is the number of header bytes already read for the frame
	// currently being assembled.
	hdrFill int
	// headerSize is 5 for typed frames (1-byte type + 4-byte length) and 4
	// for the untyped startup frame (length only).
	headerSize int

	frame    []byte
	wantSize int
	have     int
	inFrame  bool
}

// NewFramer constructs a Framer for the steady-state, post-startup portion
// of a connection, where every frame begins with a 1-byte type tag.
func NewFramer() *Framer {
	return &Framer{typed: true, headerSize: 5}
}

// NewUntypedFramer constructs a Framer for the single startup frame, which
// carries no leading type byte — only the 4-byte length.
func NewUntypedFramer() *Framer {
	return &Framer{typed: false, headerSize: 4}
}

// Feed appends a chunk of bytes read from the transport and returns every
// whole Frame completed by this call, in order. Excess bytes past the last
// completed frame are retained for the next call. Feed never blocks and
// never mutates the caller's slice.
func (f *Framer) Feed(chunk []byte) ([]Frame, error) {
	var out []Frame

	for len(chunk) > 0 {
		if !f.inFrame {
			n := copy(f.header[f.hdrFill:f.headerSize], chunk)
			f.hdrFill += n
			chunk = chunk[n:]

			if f.hdrFill < f.headerSize {
				// Header still incomplete; wait for more bytes.
				break
			}

			size, err := f.decodeSize()
			if err != nil {
				return out, err
			}

			f.wantSize = size
			f.have = 0
			f.frame = make([]byte, size)
			f.inFrame = true
			f.hdrFill = 0
		}

		n := copy(f.frame[f.have:], chunk)
		f.have += n
		chunk = chunk[n:]

		if f.have == f.wantSize {
			var typ byte
			if f.typed {
				typ = f.header[0]
			}

			out = append(out, Frame{Type: typ, Payload: f.frame})
			f.inFrame = false
			f.frame = nil
		}
	}

	return out, nil
}

// decodeSize interprets the just-completed header and returns the payload
// size (excluding the header itself, the 4-byte length field included in
// the on-wire length is subtracted out, but the 1-byte type tag, if any, is
// not part of the length field and so needs no adjustment).
func (f *Framer) decodeSize() (int, error) {
	var lengthField []byte
	if f.typed {
		lengthField = f.header[1:5]
	} else {
		lengthField = f.header[0:4]
	}

	length := binary.BigEndian.Uint32(lengthField)
	if length < 4 {
		return 0, ErrInvalidFrameLength
	}

	return int(length) - 4, nil
}

// Reset discards any partially-assembled frame, returning the Framer to its
// initial state. Conn does not call it: a framing error closes the
// connection instead.
func (f *Framer) Reset() {
	f.hdrFill = 0
	f.inFrame = false
	f.frame = nil
	f.wantSize = 0
	f.have = 0
}
