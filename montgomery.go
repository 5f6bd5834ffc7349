// Copyright (c) 2020-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	"encoding/hex"
	"math/bits"
)

// montModulus houses the constants needed to perform constant-time arithmetic
// in Montgomery form for an odd 256-bit modulus greater than 2^255.  Values are
// stored as four little-endian 64-bit limbs and R = 2^256.
type montModulus struct {
	m   [4]uint64 // the modulus
	m0  uint64    // -m^-1 mod 2^64
	one [4]uint64 // R mod m, which is 1 in Montgomery form
	rr  [4]uint64 // R^2 mod m, used to convert into Montgomery form

	// invExp is m-2 and is used to compute inverses via Fermat's little
	// theorem.
	invExp [4]uint64
}

// hexToLimbs converts a 64 character big-endian hex string to little-endian
// limbs.  It panics on invalid input and is only used for the hard-coded
// curve constants.
func hexToLimbs(s string) [4]uint64 {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 32 {
		panic("invalid hex in source file: " + s)
	}
	var out [4]uint64
	bytesToLimbs(&out, (*[32]byte)(b))
	return out
}

// bytesToLimbs interprets the passed big-endian bytes as little-endian limbs.
func bytesToLimbs(z *[4]uint64, b *[32]byte) {
	for i := 0; i < 4; i++ {
		off := 24 - 8*i
		z[i] = uint64(b[off])<<56 | uint64(b[off+1])<<48 |
			uint64(b[off+2])<<40 | uint64(b[off+3])<<32 |
			uint64(b[off+4])<<24 | uint64(b[off+5])<<16 |
			uint64(b[off+6])<<8 | uint64(b[off+7])
	}
}

// limbsToBytes writes the passed little-endian limbs as big-endian bytes.
func limbsToBytes(b *[32]byte, x *[4]uint64) {
	for i := 0; i < 4; i++ {
		off := 24 - 8*i
		v := x[i]
		b[off] = byte(v >> 56)
		b[off+1] = byte(v >> 48)
		b[off+2] = byte(v >> 40)
		b[off+3] = byte(v >> 32)
		b[off+4] = byte(v >> 24)
		b[off+5] = byte(v >> 16)
		b[off+6] = byte(v >> 8)
		b[off+7] = byte(v)
	}
}

// newMontModulus derives the Montgomery constants for the given modulus, which
// is expected to be odd and greater than 2^255.
func newMontModulus(modHex string) *montModulus {
	md := &montModulus{m: hexToLimbs(modHex)}

	// Newton iteration for m[0]^-1 mod 2^64.  Every odd value is its own
	// inverse mod 8 and each step doubles the number of correct bits.
	inv := md.m[0]
	for i := 0; i < 6; i++ {
		inv *= 2 - md.m[0]*inv
	}
	md.m0 = -inv

	// R mod m = 2^256 - m since m > 2^255.
	var borrow uint64
	md.one[0], borrow = bits.Sub64(0, md.m[0], 0)
	md.one[1], borrow = bits.Sub64(0, md.m[1], borrow)
	md.one[2], borrow = bits.Sub64(0, md.m[2], borrow)
	md.one[3], _ = bits.Sub64(0, md.m[3], borrow)

	// R^2 mod m by doubling R mod m another 256 times.
	md.rr = md.one
	for i := 0; i < 256; i++ {
		md.add(&md.rr, &md.rr, &md.rr)
	}

	md.invExp[0], borrow = bits.Sub64(md.m[0], 2, 0)
	md.invExp[1], borrow = bits.Sub64(md.m[1], 0, borrow)
	md.invExp[2], borrow = bits.Sub64(md.m[2], 0, borrow)
	md.invExp[3], _ = bits.Sub64(md.m[3], 0, borrow)
	return md
}

// limbsSelect sets z = a when cond is 1 and z = b when cond is 0 in constant
// time.  cond must be 0 or 1.
func limbsSelect(z, a, b *[4]uint64, cond uint64) {
	mask := -cond
	z[0] = (a[0] & mask) | (b[0] &^ mask)
	z[1] = (a[1] & mask) | (b[1] &^ mask)
	z[2] = (a[2] & mask) | (b[2] &^ mask)
	z[3] = (a[3] & mask) | (b[3] &^ mask)
}

// limbsIsZero returns 1 when x is zero and 0 otherwise in constant time.
func limbsIsZero(x *[4]uint64) uint64 {
	v := x[0] | x[1] | x[2] | x[3]
	return ((v | -v) >> 63) ^ 1
}

// limbsEqual returns 1 when x and y are equal and 0 otherwise in constant time.
func limbsEqual(x, y *[4]uint64) uint64 {
	d := [4]uint64{x[0] ^ y[0], x[1] ^ y[1], x[2] ^ y[2], x[3] ^ y[3]}
	return limbsIsZero(&d)
}

// reduce conditionally subtracts the modulus from the 257-bit value carry:x so
// the result is in [0, m).  The input must be less than 2m.
func (md *montModulus) reduce(z, x *[4]uint64, carry uint64) {
	var d [4]uint64
	var b uint64
	d[0], b = bits.Sub64(x[0], md.m[0], 0)
	d[1], b = bits.Sub64(x[1], md.m[1], b)
	d[2], b = bits.Sub64(x[2], md.m[2], b)
	d[3], b = bits.Sub64(x[3], md.m[3], b)
	_, b = bits.Sub64(carry, 0, b)

	// A final borrow means x < m, so keep x.
	limbsSelect(z, x, &d, b)
}

// add sets z = x + y mod m.
func (md *montModulus) add(z, x, y *[4]uint64) {
	var s [4]uint64
	var c uint64
	s[0], c = bits.Add64(x[0], y[0], 0)
	s[1], c = bits.Add64(x[1], y[1], c)
	s[2], c = bits.Add64(x[2], y[2], c)
	s[3], c = bits.Add64(x[3], y[3], c)
	md.reduce(z, &s, c)
}

// sub sets z = x - y mod m.
func (md *montModulus) sub(z, x, y *[4]uint64) {
	var d [4]uint64
	var b uint64
	d[0], b = bits.Sub64(x[0], y[0], 0)
	d[1], b = bits.Sub64(x[1], y[1], b)
	d[2], b = bits.Sub64(x[2], y[2], b)
	d[3], b = bits.Sub64(x[3], y[3], b)

	// Add the modulus back when the subtraction wrapped.
	mask := -b
	var c uint64
	z[0], c = bits.Add64(d[0], md.m[0]&mask, 0)
	z[1], c = bits.Add64(d[1], md.m[1]&mask, c)
	z[2], c = bits.Add64(d[2], md.m[2]&mask, c)
	z[3], _ = bits.Add64(d[3], md.m[3]&mask, c)
}

// neg sets z = -x mod m.
func (md *montModulus) neg(z, x *[4]uint64) {
	var zero [4]uint64
	md.sub(z, &zero, x)
}

// mul sets z = x * y * R^-1 mod m using coarsely integrated operand scanning.
// z may alias x or y.
func (md *montModulus) mul(z, x, y *[4]uint64) {
	var t [6]uint64
	for i := 0; i < 4; i++ {
		// t += x * y[i]
		var c, cc uint64
		for j := 0; j < 4; j++ {
			hi, lo := bits.Mul64(x[j], y[i])
			lo, cc = bits.Add64(lo, t[j], 0)
			hi += cc
			lo, cc = bits.Add64(lo, c, 0)
			hi += cc
			t[j] = lo
			c = hi
		}
		t[4], cc = bits.Add64(t[4], c, 0)
		t[5] = cc

		// t = (t + u*m) / 2^64 where u makes the low limb vanish.
		u := t[0] * md.m0
		hi, lo := bits.Mul64(u, md.m[0])
		_, cc = bits.Add64(lo, t[0], 0)
		c = hi + cc
		for j := 1; j < 4; j++ {
			hi, lo = bits.Mul64(u, md.m[j])
			lo, cc = bits.Add64(lo, t[j], 0)
			hi += cc
			lo, cc = bits.Add64(lo, c, 0)
			hi += cc
			t[j-1] = lo
			c = hi
		}
		t[3], cc = bits.Add64(t[4], c, 0)
		t[4] = t[5] + cc
	}

	r := [4]uint64{t[0], t[1], t[2], t[3]}
	md.reduce(z, &r, t[4])
}

// exp sets z = x^e in Montgomery form.  The exponent is public, so the
// sequence of operations depends only on e and never on x.
func (md *montModulus) exp(z, x, e *[4]uint64) {
	base := *x
	acc := md.one
	for i := 3; i >= 0; i-- {
		for bit := 63; bit >= 0; bit-- {
			md.mul(&acc, &acc, &acc)
			if (e[i]>>uint(bit))&1 == 1 {
				md.mul(&acc, &acc, &base)
			}
		}
	}
	*z = acc
}

// toMont converts the canonical value x into Montgomery form.
func (md *montModulus) toMont(z, x *[4]uint64) {
	md.mul(z, x, &md.rr)
}

// fromMont converts x out of Montgomery form into its canonical value.
func (md *montModulus) fromMont(z, x *[4]uint64) {
	one := [4]uint64{1}
	md.mul(z, x, &one)
}

// setBytes sets z to the Montgomery form of the big-endian value b reduced
// modulo m and returns 1 when b was not less than m.  A single subtraction
// suffices since 2^256 < 2m.
func (md *montModulus) setBytes(z *[4]uint64, b *[32]byte) uint32 {
	var x, d [4]uint64
	bytesToLimbs(&x, b)
	var borrow uint64
	d[0], borrow = bits.Sub64(x[0], md.m[0], 0)
	d[1], borrow = bits.Sub64(x[1], md.m[1], borrow)
	d[2], borrow = bits.Sub64(x[2], md.m[2], borrow)
	d[3], borrow = bits.Sub64(x[3], md.m[3], borrow)
	overflow := borrow ^ 1
	limbsSelect(&x, &d, &x, overflow)
	md.toMont(z, &x)
	return uint32(overflow)
}

// putBytes writes the canonical big-endian encoding of the Montgomery form
// value x to b.
func (md *montModulus) putBytes(b *[32]byte, x *[4]uint64) {
	var c [4]uint64
	md.fromMont(&c, x)
	limbsToBytes(b, &c)
}

// isOdd returns 1 when the canonical value of x is odd.
func (md *montModulus) isOdd(x *[4]uint64) uint64 {
	var c [4]uint64
	md.fromMont(&c, x)
	return c[0] & 1
}

// cmpHalf returns 1 when the canonical value of x is greater than (m-1)/2.
// The comparison runs in constant time.
func (md *montModulus) cmpHalf(x, half *[4]uint64) uint64 {
	var c [4]uint64
	md.fromMont(&c, x)
	var borrow uint64
	_, borrow = bits.Sub64(half[0], c[0], 0)
	_, borrow = bits.Sub64(half[1], c[1], borrow)
	_, borrow = bits.Sub64(half[2], c[2], borrow)
	_, borrow = bits.Sub64(half[3], c[3], borrow)
	return borrow
}
