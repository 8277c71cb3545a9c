package pgwire

import (
	"context"
	"fmt"

	"github.com/nyxdb/pgwire/pkg/types"
)

// Exec runs sql with no parameters using the simple query protocol and
// returns the server's completion tag. If sql produces rows they are
// discarded.
func (c *Conn) Exec(ctx context.Context, sql string) (CommandTag, error) {
	if err := c.acquire(); err != nil {
		return "", err
	}
	defer c.release()

	c.msg.Start(types.ClientSimpleQuery)
	c.msg.AddString(sql)
	c.msg.AddNullTerminate()

	if err := c.send(c.msg); err != nil {
		c.closed = true
		return "", err
	}
	if err := c.flush(); err != nil {
		c.closed = true
		return "", err
	}

	var tag CommandTag
	var gotTag bool
	var pending error

	for {
		t, fr, err := c.readMessage(ctx)
		if err != nil {
			return "", c.loopErr(ctx, err)
		}

		switch t {
		case types.ServerRowDescription, types.ServerDataRow, types.ServerNoData, types.ServerCopyOutResponse:
			// Discarded: Exec never exposes rows.
		case types.ServerCommandComplete:
			if gotTag {
				return "", c.loopErr(ctx, protocolErr("multiple CommandComplete in a simple query"))
			}
			text, err := fr.GetString()
			if err != nil {
				return "", c.loopErr(ctx, protocolErr(err.Error()))
			}
			tag, gotTag = CommandTag(text), true
		case types.ServerEmptyQuery:
			if pending == nil {
				pending = usageErr("empty query")
			}
		case types.ServerReady:
			status, err := fr.GetByte()
			if err != nil {
				return "", c.loopErr(ctx, protocolErr(err.Error()))
			}
			c.txStatus = types.ServerStatus(status)
			return tag, pending
		default:
			return "", c.loopErr(ctx, protocolErr(fmt.Sprintf("unexpected message %q during simple query", t)))
		}
	}
}

// ExecParams runs sql with positional parameters using the extended-query
// protocol and returns the server's completion tag. Any rows produced are
// drained and discarded.
func (c *Conn) ExecParams(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	rows, err := c.extendedQuery(ctx, sql, args)
	if err != nil {
		return "", err
	}

	if err := rows.Close(ctx); err != nil {
		return "", err
	}

	return rows.Tag(), rows.Err()
}

// Query runs sql with positional parameters using the extended-query
// protocol and returns a lazy, one-pass Rows stream.
func (c *Conn) Query(ctx context.Context, sql string, args ...any) (*Rows, error) {
	return c.extendedQuery(ctx, sql, args)
}
