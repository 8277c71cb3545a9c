package pgwire

import (
	"testing"

	"github.com/nyxdb/pgwire/pkg/buffer"
	"github.com/stretchr/testify/require"
)

func TestDecodeNotice(t *testing.T) {
	msg := buffer.NewMsgWriter()
	msg.Start(0)
	msg.AddByte('V')
	msg.AddString("FATAL")
	msg.AddNullTerminate()
	msg.AddByte('C')
	msg.AddString("57P01")
	msg.AddNullTerminate()
	msg.AddByte('M')
	msg.AddString("terminating connection")
	msg.AddNullTerminate()
	msg.AddByte(0)

	body, err := msg.End()
	require.NoError(t, err)

	notice, err := decodeNotice(buffer.NewFieldReader(body))
	require.NoError(t, err)

	require.Equal(t, "FATAL", notice.Severity)
	require.Equal(t, "57P01", notice.Code)
	require.Equal(t, "terminating connection", notice.Message)
}
