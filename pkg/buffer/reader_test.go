package buffer

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func TestFieldReaderGetString(t *testing.T) {
	payload := append([]byte("John Doe"), 0)
	reader := NewFieldReader(payload)

	got, err := reader.GetString()
	if err != nil {
		t.Fatal(err)
	}
	if got != "John Doe" {
		t.Fatalf("unexpected string %q, expected %q", got, "John Doe")
	}
	if reader.Len() != 0 {
		t.Fatalf("expected reader to be drained, %d bytes remaining", reader.Len())
	}
}

func TestFieldReaderGetStringMissingTerminator(t *testing.T) {
	reader := &FieldReader{Msg: []byte("John Doe")}

	_, err := reader.GetString()
	if !errors.As(err, new(*MissingNulTerminator)) {
		t.Fatalf("unexpected err %v, expected MissingNulTerminator", err)
	}
}

func TestFieldReaderGetBytesNull(t *testing.T) {
	reader := &FieldReader{Msg: []byte("irrelevant")}

	v, err := reader.GetBytes(-1)
	if err != nil {
		t.Fatal(err)
	}
	if v != nil {
		t.Fatalf("expected nil for NULL, got %+v", v)
	}
}

func TestFieldReaderGetBytesInsufficient(t *testing.T) {
	reader := &FieldReader{Msg: []byte{1, 2}}

	_, err := reader.GetBytes(5)
	if !errors.As(err, new(*InsufficientData)) {
		t.Fatalf("unexpected err %v, expected InsufficientData", err)
	}
}

func TestFieldReaderIntegers(t *testing.T) {
	var payload []byte
	payload = append(payload, 0xFF)
	payload = append(payload, 0xFF, 0xFF)
	payload = append(payload, 0xFF, 0xFF, 0xFF, 0xFF)
	payload = append(payload, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)

	reader := NewFieldReader(payload)

	b, err := reader.GetByte()
	if err != nil || b != 0xFF {
		t.Fatalf("GetByte: got (%v, %v)", b, err)
	}

	u16, err := reader.GetUint16()
	if err != nil || u16 != math.MaxUint16 {
		t.Fatalf("GetUint16: got (%v, %v)", u16, err)
	}

	u32, err := reader.GetUint32()
	if err != nil || u32 != math.MaxUint32 {
		t.Fatalf("GetUint32: got (%v, %v)", u32, err)
	}

	u64, err := reader.GetUint64()
	if err != nil || u64 != math.MaxUint64 {
		t.Fatalf("GetUint64: got (%v, %v)", u64, err)
	}

	if reader.Len() != 0 {
		t.Fatalf("expected reader to be drained, %d bytes remaining", reader.Len())
	}
}

func TestFieldReaderConsumesLeftToRight(t *testing.T) {
	var payload bytes.Buffer
	payload.WriteString("name")
	payload.WriteByte(0)
	payload.WriteByte(7)

	reader := NewFieldReader(payload.Bytes())

	name, err := reader.GetString()
	if err != nil || name != "name" {
		t.Fatalf("unexpected (%q, %v)", name, err)
	}

	b, err := reader.GetByte()
	if err != nil || b != 7 {
		t.Fatalf("unexpected (%v, %v)", b, err)
	}
}
