package pgwire

import "context"

// Tx is a handle to an in-progress transaction. A Conn holds at most one
// live Tx at a time; Begin fails if one is already open.
type Tx struct {
	conn *Conn
	done bool
}

// Begin issues BEGIN and returns a handle for committing or rolling back.
// Fails with ErrAlreadyEngaged if a Rows stream is open, and with a separate
// usage error if another Tx is already live on this connection.
func (c *Conn) Begin(ctx context.Context) (*Tx, error) {
	if c.tx != nil {
		return nil, usageErr("a transaction is already open on this connection")
	}

	if _, err := c.Exec(ctx, "BEGIN"); err != nil {
		return nil, err
	}

	tx := &Tx{conn: c}
	c.tx = tx
	return tx, nil
}

// Commit issues COMMIT. A second call on the same Tx is a no-op.
func (tx *Tx) Commit(ctx context.Context) error {
	return tx.finish(ctx, "COMMIT")
}

// Rollback issues ROLLBACK. A second call on the same Tx is a no-op.
func (tx *Tx) Rollback(ctx context.Context) error {
	return tx.finish(ctx, "ROLLBACK")
}

func (tx *Tx) finish(ctx context.Context, sql string) error {
	if tx.done {
		return nil
	}

	tx.done = true
	tx.conn.tx = nil

	_, err := tx.conn.Exec(ctx, sql)
	return err
}
