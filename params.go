// Copyright (c) 2020-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	"math/big"
)

// Hex encodings of the P-256 domain parameters from FIPS 186-4, D.1.2.3.
const (
	pHex  = "ffffffff00000001000000000000000000000000ffffffffffffffffffffffff"
	nHex  = "ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551"
	bHex  = "5ac635d8aa3a93e7b3ebbd55769886bc651d06b0cc53b0f63bce3c3e27d2604b"
	gxHex = "6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296"
	gyHex = "4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5"
)

var (
	// fieldMod and orderMod hold the Montgomery constants for the field
	// prime p and the group order n respectively.
	fieldMod = newMontModulus(pHex)
	orderMod = newMontModulus(nHex)

	// curveB is the b coefficient of y^2 = x^3 - 3x + b.
	curveB = fieldValFromHex(bHex)

	// halfOrder is (n-1)/2 in canonical (non-Montgomery) form.
	halfOrder = func() [4]uint64 {
		h := orderMod.m
		h[0] = h[0]>>1 | h[1]<<63
		h[1] = h[1]>>1 | h[2]<<63
		h[2] = h[2]>>1 | h[3]<<63
		h[3] >>= 1
		return h
	}()

	// curveParams is the frozen set of domain parameters handed out by
	// Params.
	curveParams = CurveParams{
		P:       hexToBig(pHex),
		N:       hexToBig(nHex),
		B:       hexToBig(bHex),
		Gx:      hexToBig(gxHex),
		Gy:      hexToBig(gyHex),
		BitSize: 256,
		Name:    "P-256",
	}
)

// CurveParams contains the parameters for the P-256 curve.
type CurveParams struct {
	// P is the prime used in the field.
	P *big.Int

	// N is the order of the group generated by the base point.
	N *big.Int

	// B is the constant of the curve equation y^2 = x^3 - 3x + b.
	B *big.Int

	// Gx and Gy are the x and y coordinates of the base point.
	Gx, Gy *big.Int

	// BitSize is the size of the underlying field in bits.
	BitSize int

	// Name is the canonical name of the curve.
	Name string
}

// Params returns a copy of the P-256 domain parameters.  The returned values
// may be freely modified by the caller without affecting the package.
func Params() *CurveParams {
	return &CurveParams{
		P:       new(big.Int).Set(curveParams.P),
		N:       new(big.Int).Set(curveParams.N),
		B:       new(big.Int).Set(curveParams.B),
		Gx:      new(big.Int).Set(curveParams.Gx),
		Gy:      new(big.Int).Set(curveParams.Gy),
		BitSize: curveParams.BitSize,
		Name:    curveParams.Name,
	}
}

// hexToBig converts the passed hex string into a big integer and panics on
// error.  It is only used for the hard-coded constants.
func hexToBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("invalid hex in source file: " + s)
	}
	return v
}

// fieldValFromHex converts the passed hex string into a field value and panics
// on error.  It is only used for the hard-coded constants.
func fieldValFromHex(s string) FieldVal {
	var f FieldVal
	x := hexToLimbs(s)
	fieldMod.toMont(&f.n, &x)
	return f
}
