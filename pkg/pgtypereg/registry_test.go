package pgtypereg

import (
	"bytes"
	"errors"
	"net"
	"testing"
	"time"
)

// TestWireExactLayouts pins the bit-exact encodings called out by the core's
// testable properties: bool true/false, int4, and int8 beyond 32 bits.
func TestWireExactLayouts(t *testing.T) {
	r := New()

	cases := []struct {
		name string
		oid  uint32
		in   any
		want []byte
	}{
		{"bool true", Bool, true, []byte{0x01}},
		{"bool false", Bool, false, []byte{0x00}},
		{"int4 one", Int4, int32(1), []byte{0x00, 0x00, 0x00, 0x01}},
		{"int8 2^32", Int8, int64(1) << 32, []byte{0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00}},
		{
			"inet 127.0.0.1/32",
			Inet,
			net.IPNet{IP: net.IPv4(127, 0, 0, 1), Mask: net.CIDRMask(32, 32)},
			[]byte{0x02, 0x20, 0x00, 0x04, 0x7f, 0x00, 0x00, 0x01},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.Serialize(tc.oid, tc.in)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, tc.want) {
				t.Fatalf("got % x, want % x", got, tc.want)
			}
		})
	}
}

// TestCatalogueRoundTrip exercises deserialize(serialize(v)) == v for the
// scalar portion of the catalogue whose Go value representation pgx's
// default codecs agree on unambiguously.
func TestCatalogueRoundTrip(t *testing.T) {
	r := New()

	boolCases := []bool{true, false}
	for _, v := range boolCases {
		raw, err := r.Serialize(Bool, v)
		if err != nil {
			t.Fatal(err)
		}
		got, err := r.Deserialize(Bool, raw)
		if err != nil {
			t.Fatal(err)
		}
		if got != v {
			t.Fatalf("bool round trip: got %v, want %v", got, v)
		}
	}

	int2Cases := []int16{0, 1, -1, 32767, -32768}
	for _, v := range int2Cases {
		raw, err := r.Serialize(Int2, v)
		if err != nil {
			t.Fatal(err)
		}
		got, err := r.Deserialize(Int2, raw)
		if err != nil {
			t.Fatal(err)
		}
		if got != v {
			t.Fatalf("int2 round trip: got %v, want %v", got, v)
		}
	}

	int4Cases := []int32{0, 1, -1, 2147483647, -2147483648}
	for _, v := range int4Cases {
		raw, err := r.Serialize(Int4, v)
		if err != nil {
			t.Fatal(err)
		}
		got, err := r.Deserialize(Int4, raw)
		if err != nil {
			t.Fatal(err)
		}
		if got != v {
			t.Fatalf("int4 round trip: got %v, want %v", got, v)
		}
	}

	int8Cases := []int64{0, 1, -1, 1 << 40, -(1 << 40)}
	for _, v := range int8Cases {
		raw, err := r.Serialize(Int8, v)
		if err != nil {
			t.Fatal(err)
		}
		got, err := r.Deserialize(Int8, raw)
		if err != nil {
			t.Fatal(err)
		}
		if got != v {
			t.Fatalf("int8 round trip: got %v, want %v", got, v)
		}
	}

	textCases := []string{"", "hello", "unicode: héllo wörld"}
	for _, v := range textCases {
		raw, err := r.Serialize(Text, v)
		if err != nil {
			t.Fatal(err)
		}
		got, err := r.Deserialize(Text, raw)
		if err != nil {
			t.Fatal(err)
		}
		if got != v {
			t.Fatalf("text round trip: got %q, want %q", got, v)
		}
	}

	byteaCases := [][]byte{{}, {0x00, 0x01, 0xFF}, bytes.Repeat([]byte{0x42}, 64)}
	for _, v := range byteaCases {
		raw, err := r.Serialize(Bytea, v)
		if err != nil {
			t.Fatal(err)
		}
		got, err := r.Deserialize(Bytea, raw)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got.([]byte), v) {
			t.Fatalf("bytea round trip: got % x, want % x", got, v)
		}
	}
}

// TestTimestamptzZero pins the epoch used to convert the wire's
// microseconds-since-2000-01-01 representation: the PostgreSQL epoch itself
// must serialize to eight zero bytes, and decoding eight zero bytes must
// invert back to that same instant.
func TestTimestamptzZero(t *testing.T) {
	r := New()

	epoch := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	raw, err := r.Serialize(TimestampTZ, epoch)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(raw, make([]byte, 8)) {
		t.Fatalf("serialize(timestamptz, epoch): got % x, want eight zero bytes", raw)
	}

	got, err := r.Deserialize(TimestampTZ, make([]byte, 8))
	if err != nil {
		t.Fatal(err)
	}
	gotTime, ok := got.(time.Time)
	if !ok {
		t.Fatalf("deserialize(timestamptz, zero bytes): got %T, want time.Time", got)
	}
	if !gotTime.Equal(epoch) {
		t.Fatalf("deserialize(timestamptz, zero bytes): got %v, want %v", gotTime, epoch)
	}
}

// TestDateRoundTrip exercises deserialize(serialize(d)) == d across the
// 1900-2100 span the core's date/Julian-day conversion is specified to
// cover, including the calendar's awkward edges: century years that are not
// leap years (1900, 2100), the leap day in a leap century (2000-02-29), and
// ordinary month/year boundaries.
func TestDateRoundTrip(t *testing.T) {
	r := New()

	dates := []time.Time{
		time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1900, 2, 28, 0, 0, 0, 0, time.UTC),
		time.Date(1900, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2000, 12, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2100, 2, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2100, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2100, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	// Every 37th day from 1900-01-01 to 2100-12-31, to cover the full
	// specified range without an exhaustive day-by-day grid.
	for d := dates[0]; !d.After(dates[len(dates)-1]); d = d.AddDate(0, 0, 37) {
		dates = append(dates, d)
	}

	for _, d := range dates {
		raw, err := r.Serialize(Date, d)
		if err != nil {
			t.Fatalf("serialize(%v): %v", d, err)
		}

		got, err := r.Deserialize(Date, raw)
		if err != nil {
			t.Fatalf("deserialize(%v): %v", d, err)
		}

		gotTime, ok := got.(time.Time)
		if !ok {
			t.Fatalf("deserialize(date, %v): got %T, want time.Time", d, got)
		}
		if gotTime.Year() != d.Year() || gotTime.Month() != d.Month() || gotTime.Day() != d.Day() {
			t.Fatalf("date round trip: serialize/deserialize(%v) == %v", d, gotTime)
		}
	}
}

func TestDeserializeNullIsNil(t *testing.T) {
	r := New()

	got, err := r.Deserialize(Int4, nil)
	if err != nil || got != nil {
		t.Fatalf("unexpected (%v, %v)", got, err)
	}
}

func TestSerializeTypeMismatch(t *testing.T) {
	r := New()

	_, err := r.Serialize(Int4, "not an int")
	if err == nil {
		t.Fatal("expected an error encoding a string as int4")
	}

	if !errors.As(err, new(*TypeMismatchError)) {
		t.Fatalf("expected *TypeMismatchError, got %T: %v", err, err)
	}
}

func TestDeserializeLengthMismatch(t *testing.T) {
	r := New()

	_, err := r.Deserialize(Int4, []byte{0x00, 0x01})
	if err == nil {
		t.Fatal("expected an error decoding a 2-byte payload as int4")
	}

	var mismatch *LengthMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected *LengthMismatchError, got %T: %v", err, err)
	}
	if mismatch.Expected != 4 || mismatch.Got != 2 {
		t.Fatalf("unexpected mismatch %+v", mismatch)
	}
}
