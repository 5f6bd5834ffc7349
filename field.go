// Copyright (c) 2013-2022 The btcsuite developers
// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	"encoding/hex"
)

// FieldVal implements optimized fixed-precision arithmetic over the P-256
// finite field.  This means all arithmetic is performed modulo
//
//	0xffffffff00000001000000000000000000000000ffffffffffffffffffffffff.
//
// Internally the value is kept in Montgomery form as four 64-bit limbs and it
// is always fully reduced, so two field values are equal exactly when their
// limbs are equal.  The zero value is a valid field value equal to 0.
//
// All arithmetic runs in constant time with respect to the operands.
//
// Methods that return a *FieldVal return the receiver so calls can be
// chained, for example:
//
//	f.Add(f2).Mul(f3)
type FieldVal struct {
	n [4]uint64
}

// String returns the field value as a human-readable hex string.
//
// Preconditions: None
// Output Normalized: Field is not modified -- same as input value
func (f FieldVal) String() string {
	b := f.Bytes()
	return hex.EncodeToString(b[:])
}

// Zero sets the field value to zero in constant time.
func (f *FieldVal) Zero() {
	f.n = [4]uint64{}
}

// Set sets the field value equal to the passed value in constant time.
//
// The field value is returned to support chaining.
func (f *FieldVal) Set(val *FieldVal) *FieldVal {
	*f = *val
	return f
}

// SetInt sets the field value to the passed integer in constant time.
//
// The field value is returned to support chaining.
func (f *FieldVal) SetInt(ui uint64) *FieldVal {
	x := [4]uint64{ui}
	fieldMod.toMont(&f.n, &x)
	return f
}

// SetBytes packs the passed 32-byte big-endian value into the field value in
// constant time.  Values greater than or equal to the field prime are reduced
// and the return value reports whether that happened: 1 for overflow, 0
// otherwise.
func (f *FieldVal) SetBytes(b *[32]byte) uint32 {
	return fieldMod.setBytes(&f.n, b)
}

// SetByteSlice interprets the provided slice as a 256-bit big-endian unsigned
// integer, packs it into the field value and reports whether it was reduced
// because it was not less than the field prime.
//
// Only the first 32 bytes of slices longer than 32 bytes are used.  Shorter
// slices are treated as if they were padded with leading zeros.
func (f *FieldVal) SetByteSlice(b []byte) bool {
	var b32 [32]byte
	b = b[:constantTimeMin(uint32(len(b)), 32)]
	copy(b32[32-len(b):], b)
	result := f.SetBytes(&b32)
	zeroArray32(&b32)
	return result != 0
}

// SetCanonicalBytes sets the field value from the passed 32-byte big-endian
// value and fails with ErrOutOfRange when the value is not less than the field
// prime.  The field value is left unmodified on failure.
func (f *FieldVal) SetCanonicalBytes(b *[32]byte) error {
	var v FieldVal
	if v.SetBytes(b) != 0 {
		return makeError(ErrOutOfRange, "field value is not less than the "+
			"field prime")
	}
	*f = v
	return nil
}

// PutBytes unpacks the field value to a 32-byte big-endian value in constant
// time.
func (f *FieldVal) PutBytes(b *[32]byte) {
	fieldMod.putBytes(b, &f.n)
}

// PutBytesUnchecked unpacks the field value to a 32-byte big-endian value
// directly into the passed byte slice.  The slice must be at least 32 bytes.
func (f *FieldVal) PutBytesUnchecked(b []byte) {
	f.PutBytes((*[32]byte)(b[:32]))
}

// Bytes unpacks the field value to a 32-byte big-endian value.
func (f *FieldVal) Bytes() *[32]byte {
	b := new([32]byte)
	f.PutBytes(b)
	return b
}

// IsZeroBit returns 1 when the field value is equal to zero or 0 otherwise in
// constant time.
func (f *FieldVal) IsZeroBit() uint32 {
	return uint32(limbsIsZero(&f.n))
}

// IsZero returns whether or not the field value is equal to zero in constant
// time.
func (f *FieldVal) IsZero() bool {
	return f.IsZeroBit() == 1
}

// IsOneBit returns 1 when the field value is equal to one or 0 otherwise in
// constant time.
func (f *FieldVal) IsOneBit() uint32 {
	return uint32(limbsEqual(&f.n, &fieldMod.one))
}

// IsOne returns whether or not the field value is equal to one in constant
// time.
func (f *FieldVal) IsOne() bool {
	return f.IsOneBit() == 1
}

// IsOddBit returns 1 when the field value is an odd number or 0 otherwise in
// constant time.
func (f *FieldVal) IsOddBit() uint32 {
	return uint32(fieldMod.isOdd(&f.n))
}

// IsOdd returns whether or not the field value is an odd number in constant
// time.
func (f *FieldVal) IsOdd() bool {
	return f.IsOddBit() == 1
}

// Equals returns whether or not the two field values are the same in constant
// time.
func (f *FieldVal) Equals(val *FieldVal) bool {
	return limbsEqual(&f.n, &val.n) == 1
}

// Select sets the field value to a when cond is 1 and to b when cond is 0 in
// constant time.  cond must be 0 or 1.
//
// The field value is returned to support chaining.
func (f *FieldVal) Select(a, b *FieldVal, cond uint32) *FieldVal {
	limbsSelect(&f.n, &a.n, &b.n, uint64(cond))
	return f
}

// NegateVal sets the field value to the negative of the passed value.
//
// The field value is returned to support chaining.
func (f *FieldVal) NegateVal(val *FieldVal) *FieldVal {
	fieldMod.neg(&f.n, &val.n)
	return f
}

// Negate replaces the field value with its negative.
//
// The field value is returned to support chaining.
func (f *FieldVal) Negate() *FieldVal {
	return f.NegateVal(f)
}

// Add adds the passed value to the existing field value and stores the
// result in f.
//
// The field value is returned to support chaining.
func (f *FieldVal) Add(val *FieldVal) *FieldVal {
	return f.Add2(f, val)
}

// Add2 adds the passed two field values together and stores the result in f.
//
// The field value is returned to support chaining.
func (f *FieldVal) Add2(val, val2 *FieldVal) *FieldVal {
	fieldMod.add(&f.n, &val.n, &val2.n)
	return f
}

// Sub subtracts the passed value from the existing field value and stores the
// result in f.
//
// The field value is returned to support chaining.
func (f *FieldVal) Sub(val *FieldVal) *FieldVal {
	return f.Sub2(f, val)
}

// Sub2 subtracts val2 from val and stores the result in f.
//
// The field value is returned to support chaining.
func (f *FieldVal) Sub2(val, val2 *FieldVal) *FieldVal {
	fieldMod.sub(&f.n, &val.n, &val2.n)
	return f
}

// Mul multiplies the passed value to the existing field value and stores the
// result in f.
//
// The field value is returned to support chaining.
func (f *FieldVal) Mul(val *FieldVal) *FieldVal {
	return f.Mul2(f, val)
}

// Mul2 multiplies the passed two field values together and stores the result
// in f.
//
// The field value is returned to support chaining.
func (f *FieldVal) Mul2(val, val2 *FieldVal) *FieldVal {
	fieldMod.mul(&f.n, &val.n, &val2.n)
	return f
}

// Square squares the field value.
//
// The field value is returned to support chaining.
func (f *FieldVal) Square() *FieldVal {
	return f.SquareVal(f)
}

// SquareVal squares the passed value and stores the result in f.
//
// The field value is returned to support chaining.
func (f *FieldVal) SquareVal(val *FieldVal) *FieldVal {
	fieldMod.mul(&f.n, &val.n, &val.n)
	return f
}

// Inverse finds the modular multiplicative inverse of the field value via
// Fermat's little theorem.  The inverse of zero is defined as zero here so it
// can be used inside constant-time formulas; use InverseChecked to reject it.
//
// The field value is returned to support chaining.
func (f *FieldVal) Inverse() *FieldVal {
	return f.InverseVal(f)
}

// InverseVal sets the field value to the modular multiplicative inverse of the
// passed value.  Zero maps to zero.
//
// The field value is returned to support chaining.
func (f *FieldVal) InverseVal(val *FieldVal) *FieldVal {
	fieldMod.exp(&f.n, &val.n, &fieldMod.invExp)
	return f
}

// InverseChecked sets the field value to the modular multiplicative inverse of
// the passed value and fails with ErrInvalidOperand when it is zero.  The field
// value is left unmodified on failure.
func (f *FieldVal) InverseChecked(val *FieldVal) (*FieldVal, error) {
	if val.IsZero() {
		return nil, makeError(ErrInvalidOperand, "field value zero has no "+
			"multiplicative inverse")
	}
	return f.InverseVal(val), nil
}

// SquareRootVal either calculates the square root of the passed value when it
// exists or the square root of the negation of the value when it does not
// exist and stores the result in f in constant time.  The return flag is true
// when the calculated square root is for the passed value itself.
//
// The prime is 3 mod 4, so a candidate root is val^((p+1)/4).
func (f *FieldVal) SquareRootVal(val *FieldVal) bool {
	var root FieldVal
	fieldMod.exp(&root.n, &val.n, &fieldSqrtExp)

	var check FieldVal
	check.SquareVal(&root)
	valid := check.Equals(val)
	*f = root
	return valid
}

// fieldSqrtExp is (p+1)/4.
var fieldSqrtExp = hexToLimbs("3fffffffc0000000400000000000000000000000400000000000000000000000")

// constantTimeMin returns the minimum of the two values in constant time.
func constantTimeMin(a, b uint32) uint32 {
	// a < b when the 64-bit subtraction borrows.
	lt := uint32((uint64(a) - uint64(b)) >> 63)
	return b ^ ((a ^ b) & -lt)
}

// zeroArray32 zeroes the provided 32-byte buffer.
func zeroArray32(b *[32]byte) {
	copy(b[:], zero32[:])
}

// zero32 is an array of 32 bytes used for the purposes of zeroing.
var zero32 [32]byte
