package pgwire

import "github.com/nyxdb/pgwire/pkg/types"

// NewParameter wraps an already-serialized Bind parameter value together
// with the wire format it was encoded in.
func NewParameter(format types.FormatCode, value []byte) Parameter {
	return Parameter{
		format: format,
		value:  value,
	}
}

// Parameter is one positional argument of an extended-query Bind message.
type Parameter struct {
	format types.FormatCode
	value  []byte
}

func (p Parameter) Format() types.FormatCode {
	return p.format
}

func (p Parameter) Value() []byte {
	return p.value
}
