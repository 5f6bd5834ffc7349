// Copyright (c) 2015 The btcsuite developers
// Copyright (c) 2015-2023 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	"fmt"
	"io"

	"github.com/minio/sha256-simd"
	"golang.org/x/crypto/hkdf"
)

// GenerateSharedSecret generates a shared secret based on a private key and a
// public key using Diffie-Hellman key exchange (ECDH) (RFC 5903).
// RFC5903 Section 9 states we should only return x.
//
// It is recommended to securely hash the result before using as a cryptographic
// key, for example with DeriveSharedKey.
func GenerateSharedSecret(privkey *PrivateKey, pubkey *PublicKey) []byte {
	var point, result ProjectivePoint
	pubkey.AsProjective(&point)
	ScalarMult(&privkey.Key, &point, &result)
	result.ToAffine()
	xBytes := result.X.Bytes()
	return xBytes[:]
}

// ECDH generates a shared secret and is an alias to GenerateSharedSecret, however
// by being part of the private key it is closer to go's own ecdh api.  It fails
// for a zero private key or a public key that is not on the curve.
func (privkey *PrivateKey) ECDH(remote *PublicKey) ([]byte, error) {
	if privkey.Key.IsZero() {
		return nil, makeError(ErrPrivKeyIsZero, "invalid private key: value "+
			"is zero")
	}
	if remote == nil || !remote.IsOnCurve() {
		return nil, makeError(ErrPubKeyNotOnCurve, "invalid public key: not "+
			"on the P-256 curve")
	}
	return GenerateSharedSecret(privkey, remote), nil
}

// maxSharedKeyLen is the most output HKDF-SHA256 can expand to.
const maxSharedKeyLen = 255 * sha256.Size

// DeriveSharedKey performs ECDH between the private and public key and expands
// the shared x coordinate into a key of the requested length with
// HKDF-SHA256 (RFC 5869) using the optional salt and context info.
func DeriveSharedKey(privkey *PrivateKey, remote *PublicKey, salt, info []byte, length int) ([]byte, error) {
	if length < 1 || length > maxSharedKeyLen {
		str := fmt.Sprintf("derived key length %d is not in [1, %d]", length,
			maxSharedKeyLen)
		return nil, makeError(ErrInvalidOperand, str)
	}

	secret, err := privkey.ECDH(remote)
	if err != nil {
		return nil, err
	}
	defer func() {
		for i := range secret {
			secret[i] = 0
		}
	}()

	key := make([]byte, length)
	kdf := hkdf.New(sha256.New, secret, salt, info)
	if _, err := io.ReadFull(kdf, key); err != nil {
		str := fmt.Sprintf("unable to derive %d byte key: %v", length, err)
		return nil, makeError(ErrInvalidOperand, str)
	}
	return key, nil
}
