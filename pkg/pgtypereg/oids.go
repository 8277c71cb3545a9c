package pgtypereg

import "github.com/lib/pq/oid"

// Catalogue OIDs. Most reuse lib/pq's real-Postgres constants directly;
// Interval is a deliberate exception (see registerInterval).
const (
	Bool        = uint32(oid.T_bool)
	Bytea       = uint32(oid.T_bytea)
	Int2        = uint32(oid.T_int2)
	Int4        = uint32(oid.T_int4)
	Int8        = uint32(oid.T_int8)
	OIDType     = uint32(oid.T_oid)
	Text        = uint32(oid.T_text)
	Name        = uint32(oid.T_name)
	Date        = uint32(oid.T_date)
	Time        = uint32(oid.T_time)
	TimeTZ      = uint32(oid.T_timetz)
	Timestamp   = uint32(oid.T_timestamp)
	TimestampTZ = uint32(oid.T_timestamptz)
	UUID        = uint32(oid.T_uuid)
	Inet        = uint32(oid.T_inet)
	CIDR        = uint32(oid.T_cidr)
	MACAddr     = uint32(oid.T_macaddr)
	JSON        = uint32(oid.T_json)
	JSONB       = uint32(oid.T_jsonb)
	Float4      = uint32(oid.T_float4)
	Float8      = uint32(oid.T_float8)

	// Interval is 1187 per the catalogue this core implements. Real
	// PostgreSQL assigns 1186; see DESIGN.md's Open Question decisions.
	Interval = uint32(1187)

	// Numeric is the supplemental arbitrary-precision type, decoded into
	// github.com/shopspring/decimal.Decimal.
	Numeric = uint32(oid.T_numeric)
)

// fixedWireSize holds the declared binary payload size for every catalogue
// OID whose wire layout is a fixed number of bytes (§4.3); variable-length
// types (bytea, text, name, json, jsonb, inet, cidr, numeric) are absent.
var fixedWireSize = map[uint32]int{
	Bool:        1,
	Int2:        2,
	Int4:        4,
	OIDType:     4,
	Int8:        8,
	Date:        4,
	Time:        8,
	TimeTZ:      12,
	Timestamp:   8,
	TimestampTZ: 8,
	Interval:    16,
	UUID:        16,
	MACAddr:     6,
	Float4:      4,
	Float8:      8,
}

// fixedSize returns the expected payload length for oid, if its wire layout
// is fixed-size.
func fixedSize(oid uint32) (int, bool) {
	n, ok := fixedWireSize[oid]
	return n, ok
}
