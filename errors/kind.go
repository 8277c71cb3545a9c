package errors

import "errors"

// Kind categorizes an error along the taxonomy this core distinguishes:
// whether the connection can recover, and who is responsible (the server,
// the transport, or the caller).
type Kind string

const (
	// KindProtocol marks unexpected messages, truncated frames, or bad field
	// layouts. Fatal to the connection.
	KindProtocol Kind = "protocol"
	// KindServer marks an ErrorResponse received from the server. Non-fatal;
	// the connection recovers at the next ReadyForQuery.
	KindServer Kind = "server"
	// KindAuth marks an unsupported authentication method or a rejected
	// password. Fatal.
	KindAuth Kind = "auth"
	// KindCodec marks an unknown type OID, a type or length mismatch, or
	// similar serialization failures. Fails the operation; the connection
	// recovers.
	KindCodec Kind = "codec"
	// KindUsage marks caller misuse: AlreadyEngaged, wrong argument count, no
	// handshake, or operating on a closed connection. Non-fatal.
	KindUsage Kind = "usage"
	// KindTransport marks read/write/close errors from the transport. Fatal.
	KindTransport Kind = "transport"
)

// WithKind decorates the error with a Kind.
func WithKind(err error, kind Kind) error {
	if err == nil {
		return nil
	}

	return &withKind{cause: err, kind: kind}
}

// GetKind returns the Kind inside the given error, if any.
func GetKind(err error) (kind Kind, ok bool) {
	if c, isKind := err.(*withKind); isKind {
		return c.kind, true
	}

	if n := errors.Unwrap(err); n != nil {
		return GetKind(n)
	}

	return "", false
}

// Fatal reports whether an error of this Kind terminates the connection.
func (k Kind) Fatal() bool {
	switch k {
	case KindProtocol, KindAuth, KindTransport:
		return true
	default:
		return false
	}
}

type withKind struct {
	cause error
	kind  Kind
}

func (w *withKind) Error() string { return w.cause.Error() }
func (w *withKind) Unwrap() error { return w.cause }
