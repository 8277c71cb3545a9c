// Package mock provides an in-memory transport and a scripted backend
// writer for exercising a Conn without a real PostgreSQL server.
package mock

import (
	"net"

	"github.com/nyxdb/pgwire/pkg/buffer"
	"github.com/nyxdb/pgwire/pkg/frame"
	"github.com/nyxdb/pgwire/pkg/types"
)

// Pipe returns two connected in-memory transports: client is passed to
// pgwire.New/pgwire.Connect, server is driven by the test via NewServer to
// script the backend's half of the conversation.
func Pipe() (client, server net.Conn) {
	return net.Pipe()
}

// Writer builds the body of a single scripted server message. It reuses
// buffer.MsgWriter by casting between the client/server message type
// spaces, which share the same underlying byte representation.
type Writer struct {
	*buffer.MsgWriter
}

// NewWriter constructs an empty Writer.
func NewWriter() *Writer {
	return &Writer{buffer.NewMsgWriter()}
}

// Start begins building a message of the given server message type.
func (w *Writer) Start(t types.ServerMessage) {
	w.MsgWriter.Start(types.ClientMessage(t))
}

// Server writes scripted backend messages onto one end of a Pipe.
type Server struct {
	conn net.Conn
	enc  *frame.Encoder
}

// NewServer constructs a Server writing onto conn.
func NewServer(conn net.Conn) *Server {
	return &Server{conn: conn, enc: frame.NewEncoder()}
}

// Send builds, frames, and flushes a single tagged message. build may be nil
// for messages with no body (e.g. ParseComplete).
func (s *Server) Send(t types.ServerMessage, build func(*Writer)) error {
	w := NewWriter()
	w.Start(t)
	if build != nil {
		build(w)
	}

	body, err := w.End()
	if err != nil {
		return err
	}

	s.enc.WriteMessage(byte(t), body)
	return s.enc.Flush(s.conn)
}

// Ready sends a ReadyForQuery message carrying the given transaction status.
func (s *Server) Ready(status types.ServerStatus) error {
	return s.Send(types.ServerReady, func(w *Writer) {
		w.AddByte(byte(status))
	})
}

// AuthOK sends an AuthenticationOk message.
func (s *Server) AuthOK() error {
	return s.Send(types.ServerAuth, func(w *Writer) {
		w.AddInt32(int32(types.AuthOK))
	})
}

// AuthMD5 sends an AuthenticationMD5Password message carrying salt.
func (s *Server) AuthMD5(salt [4]byte) error {
	return s.Send(types.ServerAuth, func(w *Writer) {
		w.AddInt32(int32(types.AuthMD5))
		w.AddBytes(salt[:])
	})
}

// BackendKeyData sends a BackendKeyData message.
func (s *Server) BackendKeyData(pid, secret int32) error {
	return s.Send(types.ServerBackendKeyData, func(w *Writer) {
		w.AddInt32(pid)
		w.AddInt32(secret)
	})
}

// ParameterStatus sends a ParameterStatus message.
func (s *Server) ParameterStatus(key, value string) error {
	return s.Send(types.ServerParameterStatus, func(w *Writer) {
		w.AddString(key)
		w.AddNullTerminate()
		w.AddString(value)
		w.AddNullTerminate()
	})
}

// CommandComplete sends a CommandComplete message carrying tag.
func (s *Server) CommandComplete(tag string) error {
	return s.Send(types.ServerCommandComplete, func(w *Writer) {
		w.AddString(tag)
		w.AddNullTerminate()
	})
}

// ErrorResponse sends an ErrorResponse built from a field-code-keyed notice,
// e.g. {'V': "ERROR", 'C': "42601", 'M': "syntax error"}.
func (s *Server) ErrorResponse(fields map[byte]string) error {
	return s.Send(types.ServerErrorResponse, func(w *Writer) {
		for code, value := range fields {
			w.AddByte(code)
			w.AddString(value)
			w.AddNullTerminate()
		}
		w.AddByte(0)
	})
}

// ParseComplete sends a ParseComplete message.
func (s *Server) ParseComplete() error {
	return s.Send(types.ServerParseComplete, nil)
}

// BindComplete sends a BindComplete message.
func (s *Server) BindComplete() error {
	return s.Send(types.ServerBindComplete, nil)
}

// CloseComplete sends a CloseComplete message.
func (s *Server) CloseComplete() error {
	return s.Send(types.ServerCloseComplete, nil)
}

// NoData sends a NoData message.
func (s *Server) NoData() error {
	return s.Send(types.ServerNoData, nil)
}

// EmptyQueryResponse sends an EmptyQueryResponse message.
func (s *Server) EmptyQueryResponse() error {
	return s.Send(types.ServerEmptyQuery, nil)
}

// ParameterDescription sends a ParameterDescription message listing the
// given parameter type OIDs in order.
func (s *Server) ParameterDescription(oids []uint32) error {
	return s.Send(types.ServerParameterDescription, func(w *Writer) {
		w.AddInt16(int16(len(oids)))
		for _, oid := range oids {
			w.AddInt32(int32(oid))
		}
	})
}

// Column describes one field of a scripted RowDescription.
type Column struct {
	Name    string
	TypeOID uint32
}

// RowDescription sends a RowDescription message for the given columns, all
// reported in binary format with no table/attribute association.
func (s *Server) RowDescription(columns []Column) error {
	return s.Send(types.ServerRowDescription, func(w *Writer) {
		w.AddInt16(int16(len(columns)))
		for _, c := range columns {
			w.AddString(c.Name)
			w.AddNullTerminate()
			w.AddInt32(0)                  // table OID
			w.AddInt16(0)                  // attribute number
			w.AddInt32(int32(c.TypeOID))   // type OID
			w.AddInt16(-1)                 // type size
			w.AddInt32(-1)                 // type modifier
			w.AddInt16(int16(types.BinaryFormat))
		}
	})
}

// DataRow sends a DataRow message for the given column values. A nil entry
// encodes as SQL NULL.
func (s *Server) DataRow(values [][]byte) error {
	return s.Send(types.ServerDataRow, func(w *Writer) {
		w.AddInt16(int16(len(values)))
		for _, v := range values {
			if v == nil {
				w.AddInt32(-1)
				continue
			}
			w.AddInt32(int32(len(v)))
			w.AddBytes(v)
		}
	})
}

// Handshake sends the standard AuthenticationOk, BackendKeyData, and
// ReadyForQuery(Idle) sequence that concludes a successful unauthenticated
// (trust) handshake.
func (s *Server) Handshake(pid, secret int32) error {
	if err := s.AuthOK(); err != nil {
		return err
	}
	if err := s.BackendKeyData(pid, secret); err != nil {
		return err
	}
	return s.Ready(types.ServerIdle)
}
