// Package pgtypereg adapts github.com/jackc/pgx/v5/pgtype's binary type
// codecs into a small OID-keyed registry: Serialize turns a Go value into
// the wire bytes for a column or parameter, Deserialize turns wire bytes
// back into a Go value, both always in binary format.
package pgtypereg

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
)

// Registry wraps a pgtype.Map, replacing two of pgx's default entries: OID
// 1187 (pgx's interval array type, this catalogue's scalar interval) and
// numeric (decoded into decimal.Decimal).
type Registry struct {
	types *pgtype.Map
}

// New constructs a Registry pre-loaded with the fixed OID catalogue: pgx's
// built-in binary codecs for the standard scalar types, plus the custom
// Interval and Numeric entries registered by this package.
func New() *Registry {
	r := &Registry{types: pgtype.NewMap()}
	r.registerInterval()
	r.registerNumeric()
	return r
}

// Register adds the codec for oid. Registering the same OID
// twice is almost always a bug (two codecs silently fighting over one wire
// representation), so the second call fails loudly rather than overwrite.
func (r *Registry) Register(oid uint32, t *pgtype.Type) error {
	if _, has := r.types.TypeForOID(oid); has {
		return fmt.Errorf("pgtypereg: oid %d is already registered", oid)
	}

	t.OID = oid
	r.types.RegisterType(t)
	return nil
}

// Lookup returns the registered pgtype.Type for oid, if any.
func (r *Registry) Lookup(oid uint32) (*pgtype.Type, bool) {
	return r.types.TypeForOID(oid)
}

// Serialize encodes value into the binary wire representation for oid. A
// nil value encodes as a SQL NULL (a nil return with no error). A value
// that cannot satisfy oid's wire layout fails with a *TypeMismatchError.
func (r *Registry) Serialize(oid uint32, value any) ([]byte, error) {
	if value == nil {
		return nil, nil
	}

	raw, err := r.types.Encode(oid, pgtype.BinaryFormatCode, value, nil)
	if err != nil {
		return nil, &TypeMismatchError{OID: oid, Value: value, cause: err}
	}

	return raw, nil
}

// Deserialize decodes the binary wire representation raw into the default
// Go value pgx associates with oid. raw == nil represents SQL NULL and
// decodes to nil with no error. A payload whose length disagrees with oid's
// fixed wire size fails with a *LengthMismatchError; any other decode
// failure fails with a *TypeMismatchError.
func (r *Registry) Deserialize(oid uint32, raw []byte) (any, error) {
	if raw == nil {
		return nil, nil
	}

	if n, ok := fixedSize(oid); ok && len(raw) != n {
		return nil, &LengthMismatchError{OID: oid, Expected: n, Got: len(raw)}
	}

	typed, has := r.types.TypeForOID(oid)
	if !has {
		return nil, fmt.Errorf("pgtypereg: unregistered oid %d", oid)
	}

	v, err := typed.Codec.DecodeValue(r.types, oid, pgtype.BinaryFormatCode, raw)
	if err != nil {
		return nil, &TypeMismatchError{OID: oid, cause: err}
	}

	return v, nil
}

// Map exposes the underlying pgtype.Map for callers (the connection's
// parameter/result planning) that need direct access to pgx's plan cache.
func (r *Registry) Map() *pgtype.Map {
	return r.types
}
