// Copyright (c) 2020-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	"encoding/hex"
)

// ModNScalar implements optimized 256-bit constant-time fixed-precision
// arithmetic over the P-256 group order.  This means all arithmetic is
// performed modulo:
//
//	0xffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551
//
// Like FieldVal, the value is held in Montgomery form and is always fully
// reduced.  The zero value is a valid scalar equal to 0.
//
// Methods that return a *ModNScalar return the receiver so calls can be
// chained, for example:
//
//	s.Add(s2).Mul(s3)
type ModNScalar struct {
	n [4]uint64
}

// String returns the scalar as a human-readable hex string.
//
// This is NOT constant time.
func (s ModNScalar) String() string {
	b := s.Bytes()
	return hex.EncodeToString(b[:])
}

// Set sets the scalar equal to a copy of the passed one in constant time.
//
// The scalar is returned to support chaining.
func (s *ModNScalar) Set(val *ModNScalar) *ModNScalar {
	*s = *val
	return s
}

// Zero sets the scalar to zero.  A newly created scalar is already set to zero.
// This function can be useful to clear an existing scalar for reuse.
func (s *ModNScalar) Zero() {
	s.n = [4]uint64{}
}

// IsZeroBit returns 1 when the scalar is equal to zero or 0 otherwise in
// constant time.
func (s *ModNScalar) IsZeroBit() uint32 {
	return uint32(limbsIsZero(&s.n))
}

// IsZero returns whether or not the scalar is equal to zero in constant time.
func (s *ModNScalar) IsZero() bool {
	return s.IsZeroBit() == 1
}

// IsOne returns whether or not the scalar is equal to one in constant time.
func (s *ModNScalar) IsOne() bool {
	return limbsEqual(&s.n, &orderMod.one) == 1
}

// IsOdd returns whether or not the scalar is an odd number in constant time.
func (s *ModNScalar) IsOdd() bool {
	return orderMod.isOdd(&s.n) == 1
}

// SetInt sets the scalar to the passed integer in constant time.
//
// The scalar is returned to support chaining.
func (s *ModNScalar) SetInt(ui uint32) *ModNScalar {
	x := [4]uint64{uint64(ui)}
	orderMod.toMont(&s.n, &x)
	return s
}

// SetBytes interprets the provided array as a 256-bit big-endian unsigned
// integer, reduces it modulo the group order, sets the scalar to the result,
// and returns either 1 if it was reduced (aka it overflowed) or 0 otherwise in
// constant time.
func (s *ModNScalar) SetBytes(b *[32]byte) uint32 {
	return orderMod.setBytes(&s.n, b)
}

// SetByteSlice interprets the provided slice as a 256-bit big-endian unsigned
// integer (meaning it is truncated to the first 32 bytes), reduces it modulo
// the group order, sets the scalar to the result, and returns whether or not
// the resulting truncated 256-bit integer overflowed.
func (s *ModNScalar) SetByteSlice(b []byte) bool {
	var b32 [32]byte
	b = b[:constantTimeMin(uint32(len(b)), 32)]
	copy(b32[32-len(b):], b)
	result := s.SetBytes(&b32)
	zeroArray32(&b32)
	return result != 0
}

// SetCanonicalBytes sets the scalar from the passed 32-byte big-endian value
// and fails with ErrOutOfRange when the value is not less than the group
// order.  The scalar is left unmodified on failure.
func (s *ModNScalar) SetCanonicalBytes(b *[32]byte) error {
	var v ModNScalar
	if v.SetBytes(b) != 0 {
		return makeError(ErrOutOfRange, "scalar is not less than the group "+
			"order")
	}
	*s = v
	return nil
}

// PutBytes unpacks the scalar to a 32-byte big-endian value in constant time.
func (s *ModNScalar) PutBytes(b *[32]byte) {
	orderMod.putBytes(b, &s.n)
}

// PutBytesUnchecked unpacks the scalar to a 32-byte big-endian value directly
// into the passed byte slice in constant time.  The slice must be at least 32
// bytes.
func (s *ModNScalar) PutBytesUnchecked(b []byte) {
	s.PutBytes((*[32]byte)(b[:32]))
}

// Bytes returns the scalar as a 32-byte big-endian unsigned integer in constant
// time.
func (s *ModNScalar) Bytes() [32]byte {
	var b [32]byte
	s.PutBytes(&b)
	return b
}

// Equals returns whether or not the two scalars are the same in constant time.
func (s *ModNScalar) Equals(val *ModNScalar) bool {
	return limbsEqual(&s.n, &val.n) == 1
}

// Select sets the scalar to a when cond is 1 and to b when cond is 0 in
// constant time.
//
// The scalar is returned to support chaining.
func (s *ModNScalar) Select(a, b *ModNScalar, cond uint32) *ModNScalar {
	limbsSelect(&s.n, &a.n, &b.n, uint64(cond))
	return s
}

// Add2 adds the passed two scalars together modulo the group order in constant
// time and stores the result in s.
//
// The scalar is returned to support chaining.
func (s *ModNScalar) Add2(val1, val2 *ModNScalar) *ModNScalar {
	orderMod.add(&s.n, &val1.n, &val2.n)
	return s
}

// Add adds the passed scalar to the existing one modulo the group order in
// constant time and stores the result in s.
//
// The scalar is returned to support chaining.
func (s *ModNScalar) Add(val *ModNScalar) *ModNScalar {
	return s.Add2(s, val)
}

// Sub2 subtracts val2 from val1 modulo the group order in constant time and
// stores the result in s.
//
// The scalar is returned to support chaining.
func (s *ModNScalar) Sub2(val1, val2 *ModNScalar) *ModNScalar {
	orderMod.sub(&s.n, &val1.n, &val2.n)
	return s
}

// Mul2 multiplies the passed two scalars together modulo the group order in
// constant time and stores the result in s.
//
// The scalar is returned to support chaining.
func (s *ModNScalar) Mul2(val, val2 *ModNScalar) *ModNScalar {
	orderMod.mul(&s.n, &val.n, &val2.n)
	return s
}

// Mul multiplies the passed scalar with the existing one modulo the group order
// in constant time and stores the result in s.
//
// The scalar is returned to support chaining.
func (s *ModNScalar) Mul(val *ModNScalar) *ModNScalar {
	return s.Mul2(s, val)
}

// SquareVal squares the passed scalar modulo the group order in constant time
// and stores the result in s.
//
// The scalar is returned to support chaining.
func (s *ModNScalar) SquareVal(val *ModNScalar) *ModNScalar {
	orderMod.mul(&s.n, &val.n, &val.n)
	return s
}

// Square squares the scalar modulo the group order in constant time.  The
// existing scalar is modified.
//
// The scalar is returned to support chaining.
func (s *ModNScalar) Square() *ModNScalar {
	return s.SquareVal(s)
}

// NegateVal negates the passed scalar modulo the group order and stores the
// result in s in constant time.
//
// The scalar is returned to support chaining.
func (s *ModNScalar) NegateVal(val *ModNScalar) *ModNScalar {
	orderMod.neg(&s.n, &val.n)
	return s
}

// Negate negates the scalar modulo the group order in constant time.  The
// existing scalar is modified.
//
// The scalar is returned to support chaining.
func (s *ModNScalar) Negate() *ModNScalar {
	return s.NegateVal(s)
}

// InverseVal finds the modular multiplicative inverse of the passed scalar and
// stores the result in s in constant time.  Zero maps to zero.
//
// The scalar is returned to support chaining.
func (s *ModNScalar) InverseVal(val *ModNScalar) *ModNScalar {
	orderMod.exp(&s.n, &val.n, &orderMod.invExp)
	return s
}

// Inverse finds the modular multiplicative inverse of the scalar in constant
// time.  The existing scalar is modified.
//
// The scalar is returned to support chaining.
func (s *ModNScalar) Inverse() *ModNScalar {
	return s.InverseVal(s)
}

// InverseChecked sets the scalar to the modular multiplicative inverse of the
// passed value and fails with ErrInvalidOperand when it is zero.  The scalar is
// left unmodified on failure.
func (s *ModNScalar) InverseChecked(val *ModNScalar) (*ModNScalar, error) {
	if val.IsZero() {
		return nil, makeError(ErrInvalidOperand, "scalar zero has no "+
			"multiplicative inverse")
	}
	return s.InverseVal(val), nil
}

// IsOverHalfOrder returns whether or not the scalar exceeds the group order
// divided by 2 in constant time.
func (s *ModNScalar) IsOverHalfOrder() bool {
	return orderMod.cmpHalf(&s.n, &halfOrder) == 1
}

// hashToModNScalar converts a message digest to a scalar by keeping its
// leftmost 256 bits and reducing the result modulo the group order.  Digests
// shorter than 32 bytes are treated as if left padded with zeros.
func hashToModNScalar(hash []byte) ModNScalar {
	var e ModNScalar
	e.SetByteSlice(hash)
	return e
}

// fieldToModNScalar converts a field value to a scalar modulo the group order.
// The field prime is larger than the group order, so the value is reduced.
func fieldToModNScalar(v *FieldVal) (ModNScalar, uint32) {
	var s ModNScalar
	b := v.Bytes()
	overflow := s.SetBytes(b)
	zeroArray32(b)
	return s, overflow
}
