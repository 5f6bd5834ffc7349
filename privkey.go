// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

const (
	// PrivKeyBytesLen defines the length in bytes of a serialized private key.
	PrivKeyBytesLen = 32

	// maxKeyGenAttempts bounds the number of 32-byte draws made while
	// generating a private key.  A single draw is rejected with probability
	// below 2^-32, so reaching the bound means the source is broken.
	maxKeyGenAttempts = 64
)

// PrivateKey provides facilities for working with P-256 private keys within
// this package and includes functionality such as serializing and parsing them
// as well as computing their associated public key.
type PrivateKey struct {
	Key ModNScalar
}

// NewPrivateKey instantiates a new private key from a scalar.  The caller is
// responsible for ensuring the scalar is not zero.
func NewPrivateKey(key *ModNScalar) *PrivateKey {
	return &PrivateKey{Key: *key}
}

// ParsePrivateKey returns a private key for the passed 32-byte big-endian
// encoding.  Unlike loose decoders it does not reduce its input: values that
// are zero or not less than the group order are rejected.
func ParsePrivateKey(privKeyBytes []byte) (*PrivateKey, error) {
	if len(privKeyBytes) != PrivKeyBytesLen {
		str := fmt.Sprintf("malformed private key: invalid length: %d",
			len(privKeyBytes))
		return nil, makeError(ErrPrivKeyInvalidLen, str)
	}

	var b32 [32]byte
	defer zeroArray32(&b32)
	copy(b32[:], privKeyBytes)

	var privKey PrivateKey
	if overflow := privKey.Key.SetBytes(&b32); overflow != 0 {
		privKey.Key.Zero()
		return nil, makeError(ErrPrivKeyTooBig, "invalid private key: "+
			"value >= group order")
	}
	if privKey.Key.IsZero() {
		return nil, makeError(ErrPrivKeyIsZero, "invalid private key: value "+
			"is zero")
	}
	return &privKey, nil
}

// GeneratePrivateKey generates and returns a new cryptographically secure
// private key that is suitable for use with P-256.
func GeneratePrivateKey() (*PrivateKey, error) {
	return GeneratePrivateKeyFromRand(rand.Reader)
}

// GeneratePrivateKeyFromRand generates a private key that is suitable for use
// with P-256 using the provided reader as a source of entropy.  The provided
// reader must be a source of cryptographically secure randomness, such as
// [crypto/rand.Reader], to avoid producing insecure keys.  A nil reader uses
// crypto/rand.Reader.
//
// Draws that are zero or not less than the group order are discarded and
// redrawn rather than reduced, so the result is uniform over [1, n-1].
func GeneratePrivateKeyFromRand(rand io.Reader) (*PrivateKey, error) {
	if rand == nil {
		return GeneratePrivateKey()
	}

	var keyBytes [32]byte
	defer zeroArray32(&keyBytes)
	for attempt := 0; attempt < maxKeyGenAttempts; attempt++ {
		if _, err := io.ReadFull(rand, keyBytes[:]); err != nil {
			str := fmt.Sprintf("unable to read from randomness source: %v", err)
			return nil, makeError(ErrRandomSourceFailed, str)
		}

		var key ModNScalar
		overflow := key.SetBytes(&keyBytes)
		if (overflow | key.IsZeroBit()) != 0 {
			key.Zero()
			continue
		}
		return NewPrivateKey(&key), nil
	}

	str := fmt.Sprintf("randomness source did not produce a valid private "+
		"key in %d attempts", maxKeyGenAttempts)
	return nil, makeError(ErrRandomSourceExhausted, str)
}

// PubKey computes and returns the public key corresponding to this private key.
// The private key must not be zero; see DerivePublicKey for a checked variant.
func (p *PrivateKey) PubKey() *PublicKey {
	var result ProjectivePoint
	ScalarBaseMult(&p.Key, &result)
	result.ToAffine()
	return &PublicKey{x: result.X, y: result.Y}
}

// Zero manually clears the memory associated with the private key.  This can be
// used to explicitly clear key material from memory for enhanced security
// against memory scraping.
func (p *PrivateKey) Zero() {
	p.Key.Zero()
}

// Serialize returns the private key as a 256-bit big-endian binary-encoded
// number, padded to a length of 32 bytes.
func (p PrivateKey) Serialize() []byte {
	var privKeyBytes [PrivKeyBytesLen]byte
	p.Key.PutBytes(&privKeyBytes)
	return privKeyBytes[:]
}

// ToECDSA returns the private key as a *ecdsa.PrivateKey on the standard
// library P-256 curve.
func (p *PrivateKey) ToECDSA() *ecdsa.PrivateKey {
	b := p.Key.Bytes()
	defer zeroArray32(&b)
	return &ecdsa.PrivateKey{
		PublicKey: *p.PubKey().ToECDSA(),
		D:         new(big.Int).SetBytes(b[:]),
	}
}

// NewPrivateKeyFromECDSA converts a standard library ECDSA private key on the
// P-256 curve into a private key for this package.
func NewPrivateKeyFromECDSA(priv *ecdsa.PrivateKey) (*PrivateKey, error) {
	if priv == nil || priv.Curve != elliptic.P256() {
		return nil, makeError(ErrPubKeyUnsupportedCurve, "invalid private "+
			"key: not a P-256 key")
	}
	if priv.D == nil || priv.D.Sign() < 0 || priv.D.BitLen() > 256 {
		return nil, makeError(ErrPrivKeyTooBig, "invalid private key: value "+
			"out of range")
	}
	var b [32]byte
	defer zeroArray32(&b)
	priv.D.FillBytes(b[:])
	return ParsePrivateKey(b[:])
}
