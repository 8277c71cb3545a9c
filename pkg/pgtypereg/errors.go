package pgtypereg

import "fmt"

// TypeMismatchError is returned when a value cannot be serialized into, or
// wire bytes cannot be deserialized into, a given OID's declared Go value
// type (§4.3's "TypeMismatch" codec error kind).
type TypeMismatchError struct {
	OID   uint32
	Value any
	cause error
}

func (e *TypeMismatchError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("pgtypereg: oid %d: %v", e.OID, e.cause)
	}

	return fmt.Sprintf("pgtypereg: value %v (%[1]T) does not satisfy oid %d's wire layout", e.Value, e.OID)
}

func (e *TypeMismatchError) Unwrap() error { return e.cause }

// LengthMismatchError is returned when an inbound payload's length doesn't
// match the OID's fixed wire size (§4.3's "LengthMismatch" codec error kind).
type LengthMismatchError struct {
	OID      uint32
	Expected int
	Got      int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("pgtypereg: oid %d expects a %d-byte payload, got %d", e.OID, e.Expected, e.Got)
}
