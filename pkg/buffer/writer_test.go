package buffer

import (
	"testing"

	"github.com/nyxdb/pgwire/pkg/types"
)

func TestMsgWriterRoundTrip(t *testing.T) {
	writer := NewMsgWriter()
	writer.Start(types.ClientParse)
	writer.AddString("stmt")
	writer.AddNullTerminate()
	writer.AddInt16(1)
	writer.AddInt32(2)
	writer.AddByte(9)

	if writer.Type() != types.ClientParse {
		t.Fatalf("unexpected type %v, expected %v", writer.Type(), types.ClientParse)
	}

	body, err := writer.End()
	if err != nil {
		t.Fatal(err)
	}

	reader := NewFieldReader(body)

	name, err := reader.GetString()
	if err != nil || name != "stmt" {
		t.Fatalf("unexpected (%q, %v)", name, err)
	}

	i16, err := reader.GetInt16()
	if err != nil || i16 != 1 {
		t.Fatalf("unexpected (%v, %v)", i16, err)
	}

	i32, err := reader.GetInt32()
	if err != nil || i32 != 2 {
		t.Fatalf("unexpected (%v, %v)", i32, err)
	}

	b, err := reader.GetByte()
	if err != nil || b != 9 {
		t.Fatalf("unexpected (%v, %v)", b, err)
	}
}

func TestMsgWriterStartResets(t *testing.T) {
	writer := NewMsgWriter()
	writer.Start(types.ClientBind)
	writer.AddString("leftover")

	writer.Start(types.ClientSync)
	body, err := writer.End()
	if err != nil {
		t.Fatal(err)
	}

	if len(body) != 0 {
		t.Fatalf("expected Start to reset the body, got %d bytes", len(body))
	}
}
