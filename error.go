package pgwire

import (
	pgerror "github.com/nyxdb/pgwire/errors"
	"github.com/nyxdb/pgwire/pkg/buffer"
)

// decodeNotice reads the letter-coded field stream carried by an
// ErrorResponse/NoticeResponse payload, terminated by a 0x00 byte.
// https://www.postgresql.org/docs/current/protocol-error-fields.html
func decodeNotice(reader *buffer.FieldReader) (pgerror.Notice, error) {
	var notice pgerror.Notice

	for {
		code, err := reader.GetByte()
		if err != nil {
			return notice, err
		}

		if code == 0 {
			return notice, nil
		}

		value, err := reader.GetString()
		if err != nil {
			return notice, err
		}

		notice.Field(code, value)
	}
}
