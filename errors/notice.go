package errors

import (
	"fmt"

	"github.com/nyxdb/pgwire/codes"
)

// Notice is a keyed bag of optional string fields carried by an
// ErrorResponse or NoticeResponse message.
// https://www.postgresql.org/docs/current/protocol-error-fields.html
type Notice struct {
	Severity         string
	Code             string // sqlstate
	Message          string
	Detail           string
	Hint             string
	Position         string
	InternalPosition string
	InternalQuery    string
	Where            string
	SchemaName       string
	TableName        string
	ColumnName       string
	DataTypeName     string
	ConstraintName   string
	File             string
	Line             string
	Routine          string
}

// Field assigns the value carried under the given Postgres field-code byte.
// Unknown codes are ignored, matching the protocol's forward-compatibility
// rule that clients must tolerate unrecognized fields.
func (n *Notice) Field(code byte, value string) {
	switch code {
	case 'V':
		n.Severity = value
	case 'C':
		n.Code = value
	case 'M':
		n.Message = value
	case 'D':
		n.Detail = value
	case 'H':
		n.Hint = value
	case 'P':
		n.Position = value
	case 'p':
		n.InternalPosition = value
	case 'q':
		n.InternalQuery = value
	case 'W':
		n.Where = value
	case 's':
		n.SchemaName = value
	case 't':
		n.TableName = value
	case 'c':
		n.ColumnName = value
	case 'd':
		n.DataTypeName = value
	case 'n':
		n.ConstraintName = value
	case 'F':
		n.File = value
	case 'L':
		n.Line = value
	case 'R':
		n.Routine = value
	}
}

// PgError is a Notice surfaced as an error.
type PgError struct {
	Notice Notice
}

func (e *PgError) Error() string {
	if e.Notice.Code != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Notice.Severity, e.Notice.Message, e.Notice.Code)
	}

	return fmt.Sprintf("%s: %s", e.Notice.Severity, e.Notice.Message)
}

// Code returns the error's SQLSTATE as a typed codes.Code, for comparison
// against the named constants in the codes package.
func (e *PgError) Code() codes.Code {
	return codes.Code(e.Notice.Code)
}

// IsFatal reports whether the server marked this error FATAL or PANIC,
// meaning the connection it arrived on is no longer usable.
func (e *PgError) IsFatal() bool {
	return e.Notice.Severity == string(LevelFatal) || e.Notice.Severity == string(LevelPanic)
}
