// Package pgwire implements the core of the PostgreSQL frontend/backend wire
// protocol, version 3.0: frame codec, connection state machine, and type
// codec registry. Connection-string parsing, TCP dialing/TLS, a higher-level
// database façade, and SCRAM-SHA-256 are intentionally out of scope; the
// core consumes any transport shaped like io.Reader/io.Writer/io.Closer.
package pgwire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	pgerror "github.com/nyxdb/pgwire/errors"
	"github.com/nyxdb/pgwire/pkg/buffer"
	"github.com/nyxdb/pgwire/pkg/frame"
	"github.com/nyxdb/pgwire/pkg/pgtypereg"
	"github.com/nyxdb/pgwire/pkg/types"
)

// readBufferSize is the chunk size used to pull bytes off the transport and
// feed them to the inbound framer.
const readBufferSize = 4096

// Transport is the bidirectional byte-stream the core is driven over. Any
// net.Conn, net.Pipe half, or in-memory pipe satisfies it.
type Transport interface {
	io.Reader
	io.Writer
	io.Closer
}

// Config carries the session-level parameters sent during the startup
// handshake.
type Config struct {
	User            string
	Database        string
	Password        string
	ApplicationName string
}

// Notification is a server-pushed NOTIFY payload delivered asynchronously
// via the onNotification callback.
type Notification struct {
	PID     int32
	Channel string
	Payload string
}

// CommandTag is the human-readable completion tag a server attaches to a
// finished command, e.g. "INSERT 0 1" or "CREATE TABLE".
type CommandTag string

// Conn is a single PostgreSQL wire-protocol connection. A Conn processes at
// most one logical operation (Exec, Query, Begin) at a time; a second one
// issued while a Rows stream is open fails immediately with
// ErrAlreadyEngaged.
type Conn struct {
	transport Transport
	framer    *frame.Framer
	enc       *frame.Encoder
	msg       *buffer.MsgWriter
	pending   []frame.Frame
	registry  *pgtypereg.Registry

	logger         *slog.Logger
	onNotice       func(pgerror.Notice)
	onNotification func(Notification)

	params     map[string]string
	txStatus   types.ServerStatus
	backendPID int32
	backendKey int32

	handshakeDone bool
	closed        bool
	rowsOpen      bool
	tx            *Tx
}

// Option configures a Conn at construction time.
type Option func(*Conn)

// WithLogger overrides the default no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Conn) { c.logger = logger }
}

// WithOnNotice registers the callback invoked for every NoticeResponse.
func WithOnNotice(fn func(pgerror.Notice)) Option {
	return func(c *Conn) { c.onNotice = fn }
}

// WithOnNotification registers the callback invoked for every
// NotificationResponse (the server side of LISTEN/NOTIFY).
func WithOnNotification(fn func(Notification)) Option {
	return func(c *Conn) { c.onNotification = fn }
}

// WithRegistry replaces the Conn's type codec registry, mainly useful in
// tests that register additional OIDs. By default each Conn builds its own
// registry with pgtypereg.New(); no registry is shared between connections.
func WithRegistry(registry *pgtypereg.Registry) Option {
	return func(c *Conn) { c.registry = registry }
}

// New constructs a Conn over transport. The connection is inert until
// Handshake succeeds.
func New(transport Transport, opts ...Option) *Conn {
	c := &Conn{
		transport: transport,
		framer:    frame.NewFramer(),
		enc:       frame.NewEncoder(),
		msg:       buffer.NewMsgWriter(),
		registry:  pgtypereg.New(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		params:    make(map[string]string),
		txStatus:  types.ServerIdle,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Connect constructs a Conn over transport and runs the handshake with cfg.
func Connect(ctx context.Context, transport Transport, cfg Config, opts ...Option) (*Conn, error) {
	c := New(transport, opts...)
	if err := c.Handshake(ctx, cfg); err != nil {
		return nil, err
	}

	return c, nil
}

// TxStatus returns the transaction status observed on the last ReadyForQuery.
func (c *Conn) TxStatus() types.ServerStatus {
	return c.txStatus
}

// BackendPID returns the backend process ID announced by BackendKeyData.
func (c *Conn) BackendPID() int32 {
	return c.backendPID
}

// Parameter returns the last ParameterStatus value the server reported for
// key, and whether it has been set at all.
func (c *Conn) Parameter(key string) (string, bool) {
	v, ok := c.params[key]
	return v, ok
}

// Close closes the underlying transport. Idempotent; no Terminate message
// is required for correctness.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}

	c.closed = true
	return c.transport.Close()
}

// acquire enforces the single-operation interlock: Conn, handshake-complete,
// and not-already-engaged.
func (c *Conn) acquire() error {
	if c.closed {
		return usageErr("connection is closed")
	}
	if !c.handshakeDone {
		return usageErr("handshake has not completed")
	}
	if c.rowsOpen {
		return ErrAlreadyEngaged
	}

	c.rowsOpen = true
	return nil
}

func (c *Conn) release() {
	c.rowsOpen = false
}

// ErrAlreadyEngaged is returned by Exec/Query/Begin when a previous
// operation's Rows stream has not yet been drained to completion or closed.
var ErrAlreadyEngaged = usageErr("pgwire: connection already has an operation in progress")

func usageErr(msg string) error {
	return pgerror.WithKind(fmt.Errorf("%s", msg), pgerror.KindUsage)
}

func protocolErr(msg string) error {
	return pgerror.WithKind(fmt.Errorf("%s", msg), pgerror.KindProtocol)
}

func codecErr(err error) error {
	return pgerror.WithKind(err, pgerror.KindCodec)
}

// send hands msg's finished body to the outbound encoder; it does not flush.
func (c *Conn) send(msg *buffer.MsgWriter) error {
	body, err := msg.End()
	if err != nil {
		return err
	}

	c.enc.WriteMessage(byte(msg.Type()), body)
	return nil
}

// flush writes every message queued since the last flush to the transport.
func (c *Conn) flush() error {
	return c.enc.Flush(c.transport)
}

// nextFrame returns the next whole inbound frame, pulling and feeding
// transport bytes to the framer as needed.
func (c *Conn) nextFrame(ctx context.Context) (frame.Frame, error) {
	for len(c.pending) == 0 {
		if err := ctx.Err(); err != nil {
			return frame.Frame{}, pgerror.WithKind(err, pgerror.KindTransport)
		}

		buf := make([]byte, readBufferSize)
		n, err := c.transport.Read(buf)
		if n > 0 {
			frames, ferr := c.framer.Feed(buf[:n])
			if ferr != nil {
				return frame.Frame{}, protocolErr(ferr.Error())
			}

			c.pending = append(c.pending, frames...)
		}

		if err != nil {
			return frame.Frame{}, pgerror.WithKind(err, pgerror.KindTransport)
		}
	}

	f := c.pending[0]
	c.pending = c.pending[1:]
	return f, nil
}

func (c *Conn) nextMessage(ctx context.Context) (types.ServerMessage, *buffer.FieldReader, error) {
	f, err := c.nextFrame(ctx)
	if err != nil {
		return 0, nil, err
	}

	return types.ServerMessage(f.Type), buffer.NewFieldReader(f.Payload), nil
}

// readMessage returns the next message not handled inline: NoticeResponse
// and NotificationResponse are dispatched to their callbacks and consumed;
// ErrorResponse decodes into a PgError and is returned as a KindServer error.
func (c *Conn) readMessage(ctx context.Context) (types.ServerMessage, *buffer.FieldReader, error) {
	for {
		t, fr, err := c.nextMessage(ctx)
		if err != nil {
			return 0, nil, err
		}

		switch t {
		case types.ServerNoticeResponse:
			notice, derr := decodeNotice(fr)
			if derr != nil {
				return 0, nil, protocolErr(derr.Error())
			}
			if c.onNotice != nil {
				c.onNotice(notice)
			}
			continue
		case types.ServerNotificationResponse:
			pid, err := fr.GetInt32()
			if err != nil {
				return 0, nil, protocolErr(err.Error())
			}
			channel, err := fr.GetString()
			if err != nil {
				return 0, nil, protocolErr(err.Error())
			}
			payload, err := fr.GetString()
			if err != nil {
				return 0, nil, protocolErr(err.Error())
			}
			if c.onNotification != nil {
				c.onNotification(Notification{PID: pid, Channel: channel, Payload: payload})
			}
			continue
		case types.ServerErrorResponse:
			notice, derr := decodeNotice(fr)
			if derr != nil {
				return 0, nil, protocolErr(derr.Error())
			}
			return t, fr, pgerror.WithKind(&pgerror.PgError{Notice: notice}, pgerror.KindServer)
		default:
			return t, fr, nil
		}
	}
}

// drainToReady discards messages until ReadyForQuery, recording the
// resulting transaction status. Used to resynchronize after a KindServer
// error so the connection is usable again.
func (c *Conn) drainToReady(ctx context.Context) error {
	for {
		t, fr, err := c.nextMessage(ctx)
		if err != nil {
			return err
		}

		switch t {
		case types.ServerNoticeResponse:
			if notice, derr := decodeNotice(fr); derr == nil && c.onNotice != nil {
				c.onNotice(notice)
			}
		case types.ServerNotificationResponse:
			pid, errPID := fr.GetInt32()
			channel, errCh := fr.GetString()
			payload, errPl := fr.GetString()
			if errPID == nil && errCh == nil && errPl == nil && c.onNotification != nil {
				c.onNotification(Notification{PID: pid, Channel: channel, Payload: payload})
			}
		case types.ServerErrorResponse:
			// Already reported to the caller; discard the extra fields.
			_, _ = decodeNotice(fr)
		case types.ServerReady:
			status, err := fr.GetByte()
			if err != nil {
				return protocolErr(err.Error())
			}
			c.txStatus = types.ServerStatus(status)
			return nil
		default:
			// Discard any other message type while resynchronizing.
		}
	}
}

// loopErr classifies an error from readMessage: a non-fatal KindServer error
// resyncs the connection (drains to ReadyForQuery); every other error, and a
// KindServer error the backend itself marked FATAL or PANIC, closes the
// connection.
func (c *Conn) loopErr(ctx context.Context, err error) error {
	if kind, ok := pgerror.GetKind(err); ok && kind == pgerror.KindServer {
		var pgErr *pgerror.PgError
		if e := errors.Unwrap(err); e != nil {
			pgErr, _ = e.(*pgerror.PgError)
		}

		if pgErr == nil || !pgErr.IsFatal() {
			if derr := c.drainToReady(ctx); derr != nil {
				c.closed = true
				return derr
			}

			return err
		}
	}

	c.closed = true
	return err
}
