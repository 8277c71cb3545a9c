package pgwire

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	pgerror "github.com/nyxdb/pgwire/errors"
)

func pgAuthErr(msg string) error {
	return pgerror.WithKind(fmt.Errorf("%s", msg), pgerror.KindAuth)
}

// md5Password builds the MD5 PasswordMessage payload:
// "md5" + hex(md5(hex(md5(password ∥ user)) ∥ salt)).
// https://www.postgresql.org/docs/current/auth-password.html
func md5Password(user, password string, salt []byte) string {
	inner := md5.Sum([]byte(password + user))
	innerHex := hex.EncodeToString(inner[:])

	outer := md5.Sum(append([]byte(innerHex), salt...))
	return "md5" + hex.EncodeToString(outer[:])
}
