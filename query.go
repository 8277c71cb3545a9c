package pgwire

import (
	"context"
	"fmt"

	"github.com/nyxdb/pgwire/pkg/types"
)

// ColumnDescription is one field of a RowDescription message.
type ColumnDescription struct {
	Name         string
	TableOID     int32
	AttrNo       int16
	TypeOID      uint32
	Size         int16
	TypeModifier int32
	Format       types.FormatCode
}

// extendedQuery runs the Parse/Describe/Bind/Describe/Execute/Close/Sync
// sequence described for the extended-query protocol and returns a Rows
// stream over the unnamed portal. The interlock acquired here is released
// by Rows once it reaches ReadyForQuery (or immediately, on any error that
// aborts before a Rows value exists).
func (c *Conn) extendedQuery(ctx context.Context, sql string, args []any) (*Rows, error) {
	if err := c.acquire(); err != nil {
		return nil, err
	}

	fail := func(err error) (*Rows, error) {
		c.release()
		return nil, err
	}

	// 1-3: Parse, Describe(statement), Flush.
	c.msg.Start(types.ClientParse)
	c.msg.AddString("")
	c.msg.AddNullTerminate()
	c.msg.AddString(sql)
	c.msg.AddNullTerminate()
	c.msg.AddInt16(0)
	if err := c.send(c.msg); err != nil {
		c.closed = true
		return fail(err)
	}

	c.msg.Start(types.ClientDescribe)
	c.msg.AddByte(byte(types.DescribeStatement))
	c.msg.AddString("")
	c.msg.AddNullTerminate()
	if err := c.send(c.msg); err != nil {
		c.closed = true
		return fail(err)
	}

	c.msg.Start(types.ClientFlush)
	if err := c.send(c.msg); err != nil {
		c.closed = true
		return fail(err)
	}

	if err := c.flush(); err != nil {
		c.closed = true
		return fail(err)
	}

	if t, _, err := c.readMessage(ctx); err != nil {
		return fail(c.loopErr(ctx, err))
	} else if t != types.ServerParseComplete {
		return fail(c.loopErr(ctx, protocolErr(fmt.Sprintf("expected ParseComplete, got %q", t))))
	}

	paramOIDs, err := c.readParameterDescription(ctx)
	if err != nil {
		return fail(err)
	}

	var columns []ColumnDescription
	t, fr, err := c.readMessage(ctx)
	if err != nil {
		return fail(c.loopErr(ctx, err))
	}
	switch t {
	case types.ServerNoData:
	case types.ServerRowDescription:
		columns, err = readRowDescription(fr)
		if err != nil {
			return fail(c.loopErr(ctx, protocolErr(err.Error())))
		}
	default:
		return fail(c.loopErr(ctx, protocolErr(fmt.Sprintf("expected NoData or RowDescription, got %q", t))))
	}

	if len(args) != len(paramOIDs) && len(paramOIDs) != 0 {
		return fail(usageErr(fmt.Sprintf("expected %d arguments, got %d", len(paramOIDs), len(args))))
	}

	params := make([]Parameter, len(args))
	for i, arg := range args {
		var oid uint32
		if i < len(paramOIDs) {
			oid = paramOIDs[i]
		}

		raw, err := c.registry.Serialize(oid, arg)
		if err != nil {
			return fail(codecErr(err))
		}

		params[i] = NewParameter(types.BinaryFormat, raw)
	}

	// 5-9: Bind, Describe(portal), Execute, Close(statement), Sync.
	c.msg.Start(types.ClientBind)
	c.msg.AddString("")
	c.msg.AddNullTerminate()
	c.msg.AddString("")
	c.msg.AddNullTerminate()
	c.msg.AddInt16(1)
	c.msg.AddInt16(int16(types.BinaryFormat))
	c.msg.AddInt16(int16(len(params)))
	for _, p := range params {
		if p.Value() == nil {
			c.msg.AddInt32(-1)
			continue
		}
		c.msg.AddInt32(int32(len(p.Value())))
		c.msg.AddBytes(p.Value())
	}
	c.msg.AddInt16(1)
	c.msg.AddInt16(int16(types.BinaryFormat))
	if err := c.send(c.msg); err != nil {
		c.closed = true
		return fail(err)
	}

	c.msg.Start(types.ClientDescribe)
	c.msg.AddByte(byte(types.DescribePortal))
	c.msg.AddString("")
	c.msg.AddNullTerminate()
	if err := c.send(c.msg); err != nil {
		c.closed = true
		return fail(err)
	}

	c.msg.Start(types.ClientExecute)
	c.msg.AddString("")
	c.msg.AddNullTerminate()
	c.msg.AddInt32(0)
	if err := c.send(c.msg); err != nil {
		c.closed = true
		return fail(err)
	}

	c.msg.Start(types.ClientClose)
	c.msg.AddByte('S')
	c.msg.AddString("")
	c.msg.AddNullTerminate()
	if err := c.send(c.msg); err != nil {
		c.closed = true
		return fail(err)
	}

	c.msg.Start(types.ClientSync)
	if err := c.send(c.msg); err != nil {
		c.closed = true
		return fail(err)
	}

	if err := c.flush(); err != nil {
		c.closed = true
		return fail(err)
	}

	return &Rows{conn: c, columns: columns, phase: phaseBindComplete}, nil
}

// readParameterDescription reads a ParameterDescription message's list of
// parameter type OIDs.
func (c *Conn) readParameterDescription(ctx context.Context) ([]uint32, error) {
	t, fr, err := c.readMessage(ctx)
	if err != nil {
		return nil, c.loopErr(ctx, err)
	}
	if t != types.ServerParameterDescription {
		return nil, c.loopErr(ctx, protocolErr(fmt.Sprintf("expected ParameterDescription, got %q", t)))
	}

	n, err := fr.GetInt16()
	if err != nil {
		return nil, c.loopErr(ctx, protocolErr(err.Error()))
	}

	oids := make([]uint32, n)
	for i := range oids {
		oids[i], err = fr.GetUint32()
		if err != nil {
			return nil, c.loopErr(ctx, protocolErr(err.Error()))
		}
	}

	return oids, nil
}

// readRowDescription parses a RowDescription message's field list.
func readRowDescription(fr interface {
	GetInt16() (int16, error)
	GetInt32() (int32, error)
	GetUint32() (uint32, error)
	GetString() (string, error)
}) ([]ColumnDescription, error) {
	n, err := fr.GetInt16()
	if err != nil {
		return nil, err
	}

	columns := make([]ColumnDescription, n)
	for i := range columns {
		name, err := fr.GetString()
		if err != nil {
			return nil, err
		}
		tableOID, err := fr.GetInt32()
		if err != nil {
			return nil, err
		}
		attrNo, err := fr.GetInt16()
		if err != nil {
			return nil, err
		}
		typeOID, err := fr.GetUint32()
		if err != nil {
			return nil, err
		}
		size, err := fr.GetInt16()
		if err != nil {
			return nil, err
		}
		typeMod, err := fr.GetInt32()
		if err != nil {
			return nil, err
		}
		format, err := fr.GetInt16()
		if err != nil {
			return nil, err
		}

		columns[i] = ColumnDescription{
			Name:         name,
			TableOID:     tableOID,
			AttrNo:       attrNo,
			TypeOID:      typeOID,
			Size:         size,
			TypeModifier: typeMod,
			Format:       types.FormatCode(format),
		}
	}

	return columns, nil
}
