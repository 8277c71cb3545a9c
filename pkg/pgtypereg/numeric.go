package pgtypereg

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// numeric wire format: int16 ndigits, int16 weight, uint16 sign, uint16
// dscale, then ndigits big-endian uint16 base-10000 digit groups. weight is
// the index (0-based, from the decimal point) of the first digit group.
// https://github.com/postgres/postgres/blob/master/src/backend/utils/adt/numeric.c
const (
	numericPositive = 0x0000
	numericNegative = 0x4000
	numericNaN      = 0xC000
)

// registerNumeric adds the supplemental numeric codec, decoding into
// github.com/shopspring/decimal.Decimal rather than pgtype's own
// math/big-backed pgtype.Numeric. It replaces pgx's default numeric entry
// on the map directly, since Register refuses OIDs the map already knows.
func (r *Registry) registerNumeric() {
	r.types.RegisterType(&pgtype.Type{
		Name:  "numeric",
		OID:   Numeric,
		Codec: decimalCodec{},
	})
}

type decimalCodec struct{}

func (decimalCodec) FormatSupported(format int16) bool {
	return format == pgtype.BinaryFormatCode
}

func (decimalCodec) PreferredFormat() int16 {
	return pgtype.BinaryFormatCode
}

func (decimalCodec) PlanEncode(m *pgtype.Map, oid uint32, format int16, value any) pgtype.EncodePlan {
	switch value.(type) {
	case decimal.Decimal, *decimal.Decimal:
		return decimalEncodePlan{}
	}

	return nil
}

func (decimalCodec) PlanScan(m *pgtype.Map, oid uint32, format int16, target any) pgtype.ScanPlan {
	switch target.(type) {
	case *decimal.Decimal, *any:
		return decimalScanPlan{}
	}

	return nil
}

func (c decimalCodec) DecodeDatabaseSQLValue(m *pgtype.Map, oid uint32, format int16, src []byte) (driver.Value, error) {
	v, err := c.DecodeValue(m, oid, format, src)
	if err != nil {
		return nil, err
	}

	if v == nil {
		return nil, nil
	}

	return v.(decimal.Decimal).String(), nil
}

func (decimalCodec) DecodeValue(m *pgtype.Map, oid uint32, format int16, src []byte) (any, error) {
	if src == nil {
		return nil, nil
	}

	var d decimal.Decimal
	if err := (decimalScanPlan{}).Scan(src, &d); err != nil {
		return nil, err
	}

	return d, nil
}

type decimalEncodePlan struct{}

func (decimalEncodePlan) Encode(value any, buf []byte) ([]byte, error) {
	var d decimal.Decimal

	switch v := value.(type) {
	case decimal.Decimal:
		d = v
	case *decimal.Decimal:
		if v == nil {
			return nil, nil
		}
		d = *v
	default:
		return nil, fmt.Errorf("pgtypereg: cannot encode %T as numeric", value)
	}

	neg := d.Sign() < 0
	s := d.Abs().String()

	intPart, fracPart, _ := strings.Cut(s, ".")
	dscale := len(fracPart)

	padLeft := (4 - len(intPart)%4) % 4
	intPart = strings.Repeat("0", padLeft) + intPart
	padRight := (4 - len(fracPart)%4) % 4
	fracPart = fracPart + strings.Repeat("0", padRight)

	groups := splitGroups(intPart + fracPart)
	weight := len(intPart)/4 - 1

	// Drop leading all-zero groups (insignificant integer padding),
	// adjusting weight so the remaining groups keep their wire position.
	lead := 0
	for lead < len(groups) && groups[lead] == 0 {
		lead++
	}
	groups = groups[lead:]
	weight -= lead

	// Drop trailing all-zero groups; dscale already recorded the true
	// fractional precision so this is a pure wire-size optimization.
	for len(groups) > 0 && groups[len(groups)-1] == 0 {
		groups = groups[:len(groups)-1]
	}

	if len(groups) == 0 {
		weight = 0
	}

	sign := uint16(numericPositive)
	if neg {
		sign = numericNegative
	}

	out := buf
	out = appendUint16(out, uint16(len(groups)))
	out = appendUint16(out, uint16(int16(weight)))
	out = appendUint16(out, sign)
	out = appendUint16(out, uint16(dscale))
	for _, g := range groups {
		out = appendUint16(out, g)
	}

	return out, nil
}

type decimalScanPlan struct{}

func (decimalScanPlan) Scan(src []byte, dst any) error {
	if src == nil {
		return nil
	}

	if len(src) < 8 {
		return fmt.Errorf("pgtypereg: numeric payload too short: %d bytes", len(src))
	}

	ndigits := beUint16(src[0:2])
	weight := int16(beUint16(src[2:4]))
	sign := beUint16(src[4:6])
	dscale := beUint16(src[6:8])

	if sign == numericNaN {
		return fmt.Errorf("pgtypereg: NaN numeric is not representable")
	}

	pos := 8
	groups := make([]uint16, ndigits)
	for i := range groups {
		if pos+2 > len(src) {
			return fmt.Errorf("pgtypereg: truncated numeric digit group")
		}
		groups[i] = beUint16(src[pos : pos+2])
		pos += 2
	}

	var b strings.Builder
	if sign == numericNegative {
		b.WriteByte('-')
	}

	if len(groups) == 0 {
		b.WriteByte('0')
	} else {
		for _, g := range groups {
			fmt.Fprintf(&b, "%04d", g)
		}
	}

	// Every group is four digits wide and the decimal point falls after
	// weight+1 groups: pad with the zero groups the encoder dropped on either
	// side, then cut the fraction to dscale digits.
	digits := b.String()
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}

	wantIntDigits := (int(weight) + 1) * 4
	for len(digits) < wantIntDigits {
		digits += "0"
	}
	for wantIntDigits < 0 {
		digits = "0" + digits
		wantIntDigits++
	}

	intPart := digits[:wantIntDigits]
	fracPart := digits[wantIntDigits:]
	for len(fracPart) < int(dscale) {
		fracPart += "0"
	}
	fracPart = fracPart[:dscale]
	if intPart == "" {
		intPart = "0"
	}

	text := intPart
	if dscale > 0 {
		text += "." + fracPart
	}
	if neg {
		text = "-" + text
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return fmt.Errorf("pgtypereg: parsing decoded numeric %q: %w", text, err)
	}

	switch v := dst.(type) {
	case *decimal.Decimal:
		*v = d
	case *any:
		*v = d
	default:
		return fmt.Errorf("pgtypereg: cannot scan numeric into %T", dst)
	}

	return nil
}

func splitGroups(digits string) []uint16 {
	groups := make([]uint16, len(digits)/4)
	for i := range groups {
		chunk := digits[i*4 : i*4+4]
		var v uint16
		for _, c := range []byte(chunk) {
			v = v*10 + uint16(c-'0')
		}
		groups[i] = v
	}
	return groups
}

func appendUint16(buf []byte, v uint16) []byte {
	return append(buf, byte(v>>8), byte(v))
}

func beUint16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}
