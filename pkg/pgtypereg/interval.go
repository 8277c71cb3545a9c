package pgtypereg

import "github.com/jackc/pgx/v5/pgtype"

// registerInterval adds the interval codec at OID 1187. pgtype.NewMap
// already maps pgtype.IntervalCodec to OID 1186 (real PostgreSQL's interval
// OID) and 1187 to the interval array type; this core's catalogue uses 1187
// for the scalar interval, so the codec is registered on the map directly
// under that OID, replacing pgx's entry. Register refuses OIDs the map
// already knows, so it is not used here.
func (r *Registry) registerInterval() {
	r.types.RegisterType(&pgtype.Type{
		Name:  "interval",
		OID:   Interval,
		Codec: pgtype.IntervalCodec{},
	})
}
