package pgwire

import (
	"context"
	"fmt"

	"github.com/nyxdb/pgwire/pkg/buffer"
	"github.com/nyxdb/pgwire/pkg/types"
)

// rowsPhase tracks where a Rows stream is in the extended-query receive
// sequence: BindComplete, then the portal's RowDescription/NoData, then zero
// or more DataRow/CommandComplete, then CloseComplete, then ReadyForQuery.
type rowsPhase int

const (
	phaseBindComplete rowsPhase = iota
	phaseDescribe
	phaseRows
	phaseCloseComplete
	phaseDone
)

// Rows is a lazy, one-pass stream of results from an extended-query
// operation. A Rows must be advanced with Next until it returns false, or
// closed with Close, before the Conn it was created from can run another
// operation.
type Rows struct {
	conn    *Conn
	columns []ColumnDescription
	phase   rowsPhase

	values []byte
	row    [][]byte

	tag CommandTag
	err error
}

// Columns returns the result set's column descriptions, or nil for a
// statement that produces no rows.
func (r *Rows) Columns() []ColumnDescription {
	return r.columns
}

// Tag returns the completion tag of the finished command. It is only valid
// once Next has returned false or Close has been called.
func (r *Rows) Tag() CommandTag {
	return r.tag
}

// Err returns the first error encountered while streaming, if any.
func (r *Rows) Err() error {
	return r.err
}

// Values returns the current row's column values in wire (binary) format,
// valid until the next call to Next. A nil entry means SQL NULL.
func (r *Rows) Values() [][]byte {
	return r.row
}

// Decode deserializes the current row's value at index i using the
// connection's type codec registry and the column's reported type OID.
func (r *Rows) Decode(i int) (any, error) {
	if i < 0 || i >= len(r.row) {
		return nil, usageErr(fmt.Sprintf("column index %d out of range", i))
	}

	return r.conn.registry.Deserialize(r.columns[i].TypeOID, r.row[i])
}

// Next advances to the next row, returning false when the stream is
// exhausted (either normally or due to an error, retrievable via Err). Once
// Next returns false the connection's single-operation interlock has been
// released and another operation may begin.
func (r *Rows) Next(ctx context.Context) (bool, error) {
	for {
		switch r.phase {
		case phaseDone:
			return false, r.err

		case phaseBindComplete:
			t, _, err := r.conn.readMessage(ctx)
			if err != nil {
				return r.fail(ctx, err)
			}
			if t != types.ServerBindComplete {
				return r.fail(ctx, protocolErr(fmt.Sprintf("expected BindComplete, got %q", t)))
			}
			r.phase = phaseDescribe

		case phaseDescribe:
			t, fr, err := r.conn.readMessage(ctx)
			if err != nil {
				return r.fail(ctx, err)
			}
			switch t {
			case types.ServerNoData:
				r.phase = phaseRows
			case types.ServerRowDescription:
				columns, err := readRowDescription(fr)
				if err != nil {
					return r.fail(ctx, protocolErr(err.Error()))
				}
				r.columns = columns
				r.phase = phaseRows
			default:
				return r.fail(ctx, protocolErr(fmt.Sprintf("expected NoData or RowDescription, got %q", t)))
			}

		case phaseRows:
			t, fr, err := r.conn.readMessage(ctx)
			if err != nil {
				return r.fail(ctx, err)
			}

			switch t {
			case types.ServerDataRow:
				row, err := decodeDataRow(fr)
				if err != nil {
					return r.fail(ctx, protocolErr(err.Error()))
				}
				r.row = row
				return true, nil
			case types.ServerCommandComplete:
				text, err := fr.GetString()
				if err != nil {
					return r.fail(ctx, protocolErr(err.Error()))
				}
				r.tag = CommandTag(text)
				r.phase = phaseCloseComplete
			case types.ServerEmptyQuery:
				if r.err == nil {
					r.err = usageErr("empty query")
				}
				r.phase = phaseCloseComplete
			case types.ServerPortalSuspended:
				// The core always executes with a row limit of 0 (no
				// limit), so a real server should never send this.
				return r.fail(ctx, protocolErr("unexpected PortalSuspended"))
			default:
				return r.fail(ctx, protocolErr(fmt.Sprintf("unexpected message %q while streaming rows", t)))
			}

		case phaseCloseComplete:
			t, _, err := r.conn.readMessage(ctx)
			if err != nil {
				return r.fail(ctx, err)
			}
			if t != types.ServerCloseComplete {
				return r.fail(ctx, protocolErr(fmt.Sprintf("expected CloseComplete, got %q", t)))
			}

			t, fr, err := r.conn.readMessage(ctx)
			if err != nil {
				return r.fail(ctx, err)
			}
			if t != types.ServerReady {
				return r.fail(ctx, protocolErr(fmt.Sprintf("expected ReadyForQuery, got %q", t)))
			}
			status, err := fr.GetByte()
			if err != nil {
				return r.fail(ctx, protocolErr(err.Error()))
			}
			r.conn.txStatus = types.ServerStatus(status)

			r.phase = phaseDone
			r.conn.release()
			return false, r.err
		}
	}
}

// fail records err, releases the connection's interlock (the stream cannot
// continue), and marks the stream done.
func (r *Rows) fail(ctx context.Context, err error) (bool, error) {
	r.err = r.conn.loopErr(ctx, err)
	r.phase = phaseDone
	r.conn.release()
	return false, r.err
}

// Close drains any remaining rows and waits for ReadyForQuery, so the
// connection is usable again even if the caller never exhausted the stream.
func (r *Rows) Close(ctx context.Context) error {
	for r.phase != phaseDone {
		if _, err := r.Next(ctx); err != nil {
			return err
		}
	}

	return r.err
}

// decodeDataRow reads a DataRow message's column values: a 2-byte count
// followed by, for each column, a 4-byte length (-1 meaning NULL) and that
// many bytes of value.
func decodeDataRow(fr *buffer.FieldReader) ([][]byte, error) {
	n, err := fr.GetInt16()
	if err != nil {
		return nil, err
	}

	row := make([][]byte, n)
	for i := range row {
		size, err := fr.GetInt32()
		if err != nil {
			return nil, err
		}

		row[i], err = fr.GetBytes(int(size))
		if err != nil {
			return nil, err
		}
	}

	return row, nil
}
