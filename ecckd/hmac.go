package ecckd

import (
	"crypto/hmac"
	"crypto/sha512"
	"errors"

	"github.com/ModChain/p256"
)

var (
	ErrShaKeyInvalid = errors.New("ecckd: derived scalar is zero or not below the group order")
)

// maxDeriveAttempts bounds the SLIP-0010 retry loops.  Each attempt fails with
// probability below 2^-32.
const maxDeriveAttempts = 64

// hmacCKD returns IL and IR of I = HMAC-SHA512(Key = salt, Data = data).
//
// See: https://github.com/satoshilabs/slips/blob/master/slip-0010.md
func hmacCKD(data, salt []byte) (il, ir []byte) {
	mac := hmac.New(sha512.New, salt)
	mac.Write(data)
	I := mac.Sum(nil)
	return I[:32], I[32:]
}

// parseIL interprets IL as a scalar and fails with ErrShaKeyInvalid when
// parse256(IL) >= n, in which case the caller proceeds with the next value.
func parseIL(il []byte) (*p256.ModNScalar, error) {
	var s p256.ModNScalar
	if overflow := s.SetByteSlice(il); overflow {
		return nil, ErrShaKeyInvalid
	}
	return &s, nil
}
