// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"fmt"
	"math/big"
)

const (
	// PubKeyBytesLenCompressed is the number of bytes of a serialized
	// compressed public key.
	PubKeyBytesLenCompressed = 33

	// PubKeyBytesLenUncompressed is the number of bytes of a serialized
	// uncompressed public key.
	PubKeyBytesLenUncompressed = 65

	// PubKeyFormatCompressedEven is the identifier prefix byte for a public key
	// whose Y coordinate is even when serialized in the compressed format per
	// section 2.3.3 of [SEC1](https://secg.org/sec1-v2.pdf#subsubsection.2.3.4).
	PubKeyFormatCompressedEven byte = 0x02

	// PubKeyFormatCompressedOdd is the identifier prefix byte for a public key
	// whose Y coordinate is odd when serialized in the compressed format per
	// section 2.3.3 of [SEC1](https://secg.org/sec1-v2.pdf#subsubsection.2.3.4).
	PubKeyFormatCompressedOdd byte = 0x03

	// PubKeyFormatUncompressed is the identifier prefix byte for a public key
	// when serialized according in the uncompressed format per section 2.3.3 of
	// [SEC1](https://secg.org/sec1-v2.pdf#subsubsection.2.3.3).
	PubKeyFormatUncompressed byte = 0x04
)

// PublicKey provides facilities for efficiently working with P-256 public
// keys within this package and includes functions to serialize in both
// uncompressed and compressed SEC (Standards for Efficient Cryptography)
// formats.
//
// A PublicKey obtained from this package is always a valid point on the curve
// other than the point at infinity.
type PublicKey struct {
	x FieldVal
	y FieldVal
}

// NewPublicKey instantiates a new public key with the given x and y
// coordinates.  It fails with ErrPubKeyNotOnCurve when the coordinates do not
// describe a point on the P-256 curve.
func NewPublicKey(x, y *FieldVal) (*PublicKey, error) {
	if !isOnCurve(x, y) {
		str := fmt.Sprintf("invalid public key: x coordinate %v is not on "+
			"the P-256 curve", x)
		return nil, makeError(ErrPubKeyNotOnCurve, str)
	}
	var pubKey PublicKey
	pubKey.x.Set(x)
	pubKey.y.Set(y)
	return &pubKey, nil
}

// NewPublicKeyFromPoint converts the passed projective point into a public
// key.  The point is expected to be on the curve, which is the case for every
// point produced by the arithmetic in this package from valid inputs, and it
// fails with ErrPubKeyIsIdentity for the point at infinity.
func NewPublicKeyFromPoint(point *ProjectivePoint) (*PublicKey, error) {
	if point.IsIdentity() {
		return nil, makeError(ErrPubKeyIsIdentity, "invalid public key: "+
			"point at infinity")
	}
	var p ProjectivePoint
	p.Set(point)
	p.ToAffine()
	return NewPublicKey(&p.X, &p.Y)
}

// ParsePubKey parses a P-256 public key encoded according to the format
// specified by ANSI X9.62-1998, which means it is also compatible with the
// SEC (Standards for Efficient Cryptography) specification which is a subset
// of the former.  In other words, it supports the uncompressed and compressed
// formats as follows:
//
// Compressed:
//
//	<format byte = 0x02/0x03><32-byte X coordinate>
//
// Uncompressed:
//
//	<format byte = 0x04><32-byte X coordinate><32-byte Y coordinate>
//
// NOTE: The hybrid formats are deliberately not accepted, nor is the single
// zero byte encoding of the point at infinity.
//
// Coordinates that are not less than the field prime are rejected rather than
// reduced, as are points that are not on the curve.
func ParsePubKey(serialized []byte) (key *PublicKey, err error) {
	var x, y FieldVal
	switch len(serialized) {
	case PubKeyBytesLenUncompressed:
		// Reject unsupported public key formats for the given length.
		format := serialized[0]
		switch format {
		case PubKeyFormatUncompressed:
		default:
			str := fmt.Sprintf("invalid public key: unsupported format: %x",
				format)
			return nil, makeError(ErrPubKeyInvalidFormat, str)
		}

		// Parse the x and y coordinates while ensuring that they are in the
		// allowed range.
		if overflow := x.SetByteSlice(serialized[1:33]); overflow {
			str := "invalid public key: x >= field prime"
			return nil, makeError(ErrPubKeyXTooBig, str)
		}
		if overflow := y.SetByteSlice(serialized[33:]); overflow {
			str := "invalid public key: y >= field prime"
			return nil, makeError(ErrPubKeyYTooBig, str)
		}

		// Ensure the public key is on the P-256 curve.
		if !isOnCurve(&x, &y) {
			str := fmt.Sprintf("invalid public key: [%v,%v] not on P-256 "+
				"curve", x, y)
			return nil, makeError(ErrPubKeyNotOnCurve, str)
		}

	case PubKeyBytesLenCompressed:
		// Reject unsupported public key formats for the given length.
		format := serialized[0]
		switch format {
		case PubKeyFormatCompressedEven, PubKeyFormatCompressedOdd:
		default:
			str := fmt.Sprintf("invalid public key: unsupported format: %x",
				format)
			return nil, makeError(ErrPubKeyInvalidFormat, str)
		}

		// Parse the x coordinate while ensuring that it is in the allowed
		// range.
		if overflow := x.SetByteSlice(serialized[1:33]); overflow {
			str := "invalid public key: x >= field prime"
			return nil, makeError(ErrPubKeyXTooBig, str)
		}

		// Attempt to calculate the y coordinate for the given x coordinate
		// such that the result pair is a point on the P-256 curve and the
		// solution with desired oddness is chosen.
		wantOddY := format == PubKeyFormatCompressedOdd
		if !DecompressY(&x, wantOddY, &y) {
			str := fmt.Sprintf("invalid public key: x coordinate %v is not on "+
				"the P-256 curve", x)
			return nil, makeError(ErrPubKeyNoSquareRoot, str)
		}

	default:
		str := fmt.Sprintf("malformed public key: invalid length: %d",
			len(serialized))
		return nil, makeError(ErrPubKeyInvalidLen, str)
	}

	return &PublicKey{x: x, y: y}, nil
}

// SerializeUncompressed serializes a public key in the 65-byte uncompressed
// format.
func (p PublicKey) SerializeUncompressed() []byte {
	// 0x04 || 32-byte x coordinate || 32-byte y coordinate
	var b [PubKeyBytesLenUncompressed]byte
	b[0] = PubKeyFormatUncompressed
	p.x.PutBytesUnchecked(b[1:33])
	p.y.PutBytesUnchecked(b[33:65])
	return b[:]
}

// SerializeCompressed serializes a public key in the 33-byte compressed
// format.
func (p PublicKey) SerializeCompressed() []byte {
	// Choose the format byte depending on the oddness of the Y coordinate.
	format := PubKeyFormatCompressedEven
	if p.y.IsOdd() {
		format = PubKeyFormatCompressedOdd
	}

	// 0x02 or 0x03 || 32-byte x coordinate
	var b [PubKeyBytesLenCompressed]byte
	b[0] = format
	p.x.PutBytesUnchecked(b[1:33])
	return b[:]
}

// IsEqual compares this public key instance to the one passed, returning true
// if both public keys are equivalent.  A public key is equivalent to another,
// if they both have the same X and Y coordinates.
func (p *PublicKey) IsEqual(otherPubKey *PublicKey) bool {
	xEq := p.x.Equals(&otherPubKey.x)
	yEq := p.y.Equals(&otherPubKey.y)
	return xEq && yEq
}

// AsProjective converts the public key into a projective point with Z=1 and
// stores the result in the provided result param.
func (p *PublicKey) AsProjective(result *ProjectivePoint) {
	result.SetAffine(&p.x, &p.y)
}

// IsOnCurve returns whether or not the public key represents a point on the
// P-256 curve.  It is true for every key created by this package except the
// result of PubKey on a zero private key.
func (p *PublicKey) IsOnCurve() bool {
	return isOnCurve(&p.x, &p.y)
}

// X returns the x coordinate of the public key.
func (p *PublicKey) X() *big.Int {
	return new(big.Int).SetBytes(p.x.Bytes()[:])
}

// Y returns the y coordinate of the public key.
func (p *PublicKey) Y() *big.Int {
	return new(big.Int).SetBytes(p.y.Bytes()[:])
}

// ToECDSA returns the public key as a *ecdsa.PublicKey on the standard library
// P-256 curve.
func (p *PublicKey) ToECDSA() *ecdsa.PublicKey {
	return &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     p.X(),
		Y:     p.Y(),
	}
}

// NewPublicKeyFromECDSA converts a standard library ECDSA public key into a
// public key for this package.  The key must be on the P-256 curve.
func NewPublicKeyFromECDSA(pub *ecdsa.PublicKey) (*PublicKey, error) {
	if pub == nil || pub.Curve == nil || pub.Curve.Params().Name != "P-256" {
		return nil, makeError(ErrPubKeyUnsupportedCurve, "invalid public key: "+
			"not a P-256 key")
	}
	if pub.X == nil || pub.Y == nil || pub.X.Sign() < 0 || pub.Y.Sign() < 0 ||
		pub.X.BitLen() > 256 || pub.Y.BitLen() > 256 {

		return nil, makeError(ErrPubKeyNotOnCurve, "invalid public key: "+
			"coordinates out of range")
	}

	var xb, yb [32]byte
	pub.X.FillBytes(xb[:])
	pub.Y.FillBytes(yb[:])
	var x, y FieldVal
	if x.SetBytes(&xb) != 0 {
		return nil, makeError(ErrPubKeyXTooBig, "invalid public key: x >= "+
			"field prime")
	}
	if y.SetBytes(&yb) != 0 {
		return nil, makeError(ErrPubKeyYTooBig, "invalid public key: y >= "+
			"field prime")
	}
	return NewPublicKey(&x, &y)
}

// DerivePublicKey computes the public key d*G for the passed private key.  A
// zero private key, such as one cleared with Zero, has no public key and
// fails with ErrPrivKeyIsZero.
func DerivePublicKey(priv *PrivateKey) (*PublicKey, error) {
	if priv == nil || priv.Key.IsZero() {
		return nil, makeError(ErrPrivKeyIsZero, "private key is zero")
	}
	return priv.PubKey(), nil
}

// validate ensures the key is a point on the curve.  Keys built by this
// package only fail it when they were computed from a zero private key.
func (p *PublicKey) validate() error {
	if p == nil || !p.IsOnCurve() {
		return makeError(ErrPubKeyNotOnCurve, "invalid public key: not on "+
			"P-256 curve")
	}
	return nil
}
