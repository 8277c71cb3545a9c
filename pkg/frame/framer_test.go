package frame

import (
	"bytes"
	"testing"
)

// buildMessage returns a well-formed typed frame: 1-byte type, 4-byte
// big-endian length (including itself), then body.
func buildMessage(typ byte, body []byte) []byte {
	enc := NewEncoder()
	enc.WriteMessage(typ, body)

	var out bytes.Buffer
	if err := enc.Flush(&out); err != nil {
		panic(err)
	}

	return out.Bytes()
}

func TestFramerSingleChunkMultipleFrames(t *testing.T) {
	var wire []byte
	wire = append(wire, buildMessage('Q', []byte("select 1"))...)
	wire = append(wire, buildMessage('X', nil)...)

	f := NewFramer()
	frames, err := f.Feed(wire)
	if err != nil {
		t.Fatal(err)
	}

	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[0].Type != 'Q' || string(frames[0].Payload) != "select 1" {
		t.Fatalf("unexpected first frame %+v", frames[0])
	}
	if frames[1].Type != 'X' || len(frames[1].Payload) != 0 {
		t.Fatalf("unexpected second frame %+v", frames[1])
	}
}

// TestFramerArbitraryChunking feeds the same byte stream split at every
// possible boundary and asserts the resulting frames are always identical,
// regardless of how the transport happens to deliver the bytes.
func TestFramerArbitraryChunking(t *testing.T) {
	var wire []byte
	wire = append(wire, buildMessage('Q', []byte("select 1"))...)
	wire = append(wire, buildMessage('D', bytes.Repeat([]byte{0x42}, 300))...)
	wire = append(wire, buildMessage('X', nil)...)

	for split := 1; split < len(wire); split++ {
		f := NewFramer()

		var got []Frame
		for _, chunk := range [][]byte{wire[:split], wire[split:]} {
			frames, err := f.Feed(chunk)
			if err != nil {
				t.Fatalf("split %d: %v", split, err)
			}
			got = append(got, frames...)
		}

		if len(got) != 3 {
			t.Fatalf("split %d: expected 3 frames, got %d", split, len(got))
		}
		if got[0].Type != 'Q' || string(got[0].Payload) != "select 1" {
			t.Fatalf("split %d: unexpected frame 0: %+v", split, got[0])
		}
		if got[1].Type != 'D' || len(got[1].Payload) != 300 {
			t.Fatalf("split %d: unexpected frame 1: %+v", split, got[1])
		}
		if got[2].Type != 'X' || len(got[2].Payload) != 0 {
			t.Fatalf("split %d: unexpected frame 2: %+v", split, got[2])
		}
	}
}

func TestFramerByteAtATime(t *testing.T) {
	wire := buildMessage('Q', []byte("x"))

	f := NewFramer()
	var got []Frame
	for i := range wire {
		frames, err := f.Feed(wire[i : i+1])
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, frames...)
	}

	if len(got) != 1 || got[0].Type != 'Q' || string(got[0].Payload) != "x" {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestFramerInvalidLength(t *testing.T) {
	var header [5]byte
	header[0] = 'Q'
	// Length field smaller than its own 4 bytes: invalid.
	header[1], header[2], header[3], header[4] = 0, 0, 0, 2

	f := NewFramer()
	if _, err := f.Feed(header[:]); err != ErrInvalidFrameLength {
		t.Fatalf("expected ErrInvalidFrameLength, got %v", err)
	}
}

func TestFramerUntyped(t *testing.T) {
	enc := NewEncoder()
	enc.WriteUntyped([]byte("startup-body"))

	var out bytes.Buffer
	if err := enc.Flush(&out); err != nil {
		t.Fatal(err)
	}

	f := NewUntypedFramer()
	frames, err := f.Feed(out.Bytes())
	if err != nil {
		t.Fatal(err)
	}

	if len(frames) != 1 || string(frames[0].Payload) != "startup-body" {
		t.Fatalf("unexpected result %+v", frames)
	}
}
