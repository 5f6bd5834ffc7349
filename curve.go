// Copyright (c) 2015-2022 The Decred developers
// Copyright 2013-2014 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	"crypto/subtle"
	"sync"
)

// ProjectivePoint is an element of the group formed by the P-256 curve in
// homogeneous projective coordinates.  The affine point is (X/Z, Y/Z) and the
// point at infinity is (0:1:0).
//
// The zero value is NOT a valid point; use NewIdentityPoint or one of the
// Set methods before use.
type ProjectivePoint struct {
	// The X coordinate in projective coordinates.
	X FieldVal

	// The Y coordinate in projective coordinates.
	Y FieldVal

	// The Z coordinate in projective coordinates.
	Z FieldVal
}

// MakeProjectivePoint returns a projective point with the provided coordinates.
func MakeProjectivePoint(x, y, z *FieldVal) ProjectivePoint {
	var p ProjectivePoint
	p.X.Set(x)
	p.Y.Set(y)
	p.Z.Set(z)
	return p
}

// NewIdentityPoint returns the point at infinity.
func NewIdentityPoint() *ProjectivePoint {
	var p ProjectivePoint
	p.SetIdentity()
	return &p
}

// SetIdentity sets the point to the point at infinity.
func (p *ProjectivePoint) SetIdentity() {
	p.X.Zero()
	p.Y.SetInt(1)
	p.Z.Zero()
}

// Set sets the projective point to the provided point.
func (p *ProjectivePoint) Set(other *ProjectivePoint) {
	p.X.Set(&other.X)
	p.Y.Set(&other.Y)
	p.Z.Set(&other.Z)
}

// SetAffine sets the point to the affine point (x, y) without checking that it
// lies on the curve.
func (p *ProjectivePoint) SetAffine(x, y *FieldVal) {
	p.X.Set(x)
	p.Y.Set(y)
	p.Z.SetInt(1)
}

// IsIdentity returns whether or not the point is the point at infinity in
// constant time.
func (p *ProjectivePoint) IsIdentity() bool {
	return p.Z.IsZero()
}

// Select sets the point to a when cond is 1 and to b when cond is 0 in
// constant time.
func (p *ProjectivePoint) Select(a, b *ProjectivePoint, cond uint32) {
	p.X.Select(&a.X, &b.X, cond)
	p.Y.Select(&a.Y, &b.Y, cond)
	p.Z.Select(&a.Z, &b.Z, cond)
}

// ToAffine reduces the Z value of the existing point to 1 effectively making it
// an affine coordinate in constant time.  The point at infinity keeps the form
// (0:1:0).
func (p *ProjectivePoint) ToAffine() {
	isIdentity := p.Z.IsZeroBit()

	var zInv, one FieldVal
	zInv.InverseVal(&p.Z)
	one.SetInt(1)

	var y FieldVal
	y.Mul2(&p.Y, &zInv)
	p.X.Mul(&zInv)
	p.Y.Select(&one, &y, isIdentity)
	p.Z.Select(&p.Z, &one, isIdentity)
}

// Equals returns whether or not two projective points represent the same
// affine point in constant time.  All representations of the point at infinity
// are equal to each other.
func (p *ProjectivePoint) Equals(other *ProjectivePoint) bool {
	// X1*Z2 == X2*Z1 and Y1*Z2 == Y2*Z1.  Both sides vanish for every
	// representation of infinity and never for a finite point paired with
	// infinity since Y is nonzero at infinity.
	var lhs, rhs FieldVal
	lhs.Mul2(&p.X, &other.Z)
	rhs.Mul2(&other.X, &p.Z)
	xEq := lhs.Equals(&rhs)
	lhs.Mul2(&p.Y, &other.Z)
	rhs.Mul2(&other.Y, &p.Z)
	yEq := lhs.Equals(&rhs)
	return xEq && yEq
}

// Negate sets the point to its additive inverse.
func (p *ProjectivePoint) Negate() {
	p.Y.Negate()
}

// isOnCurve returns whether or not the affine point (x, y) satisfies the curve
// equation y^2 = x^3 - 3x + b.
func isOnCurve(x, y *FieldVal) bool {
	var y2, rhs, threeX FieldVal
	y2.SquareVal(y)
	rhs.SquareVal(x).Mul(x)
	threeX.Add2(x, x).Add(x)
	rhs.Sub(&threeX).Add(&curveB)
	return y2.Equals(&rhs)
}

// DecompressY attempts to calculate the Y coordinate for the given X coordinate
// such that the result pair is a point on the P-256 curve.  It adjusts Y based
// on the desired oddness and returns whether or not it was successful since not
// all X coordinates are valid.
func DecompressY(x *FieldVal, odd bool, resultY *FieldVal) bool {
	// y^2 = x^3 - 3x + b
	var rhs, threeX FieldVal
	rhs.SquareVal(x).Mul(x)
	threeX.Add2(x, x).Add(x)
	rhs.Sub(&threeX).Add(&curveB)
	if !resultY.SquareRootVal(&rhs) {
		return false
	}
	if resultY.IsOdd() != odd {
		resultY.Negate()
	}
	return true
}

// AddPoints adds the passed projective points together and stores the result
// in the provided result param in constant time.
//
// This uses the complete addition formula for a = -3 from "Complete addition
// formulas for prime order elliptic curves" (Renes, Costello, Batina 2015,
// algorithm 4), so the point at infinity and equal inputs need no special
// handling.
func AddPoints(p1, p2, result *ProjectivePoint) {
	var t0, t1, t2, t3, t4, x3, y3, z3 FieldVal
	t0.Mul2(&p1.X, &p2.X) // t0 := X1 * X2
	t1.Mul2(&p1.Y, &p2.Y) // t1 := Y1 * Y2
	t2.Mul2(&p1.Z, &p2.Z) // t2 := Z1 * Z2
	t3.Add2(&p1.X, &p1.Y) // t3 := X1 + Y1
	t4.Add2(&p2.X, &p2.Y) // t4 := X2 + Y2
	t3.Mul(&t4)           // t3 := t3 * t4
	t4.Add2(&t0, &t1)     // t4 := t0 + t1
	t3.Sub(&t4)           // t3 := t3 - t4
	t4.Add2(&p1.Y, &p1.Z) // t4 := Y1 + Z1
	x3.Add2(&p2.Y, &p2.Z) // X3 := Y2 + Z2
	t4.Mul(&x3)           // t4 := t4 * X3
	x3.Add2(&t1, &t2)     // X3 := t1 + t2
	t4.Sub(&x3)           // t4 := t4 - X3
	x3.Add2(&p1.X, &p1.Z) // X3 := X1 + Z1
	y3.Add2(&p2.X, &p2.Z) // Y3 := X2 + Z2
	x3.Mul(&y3)           // X3 := X3 * Y3
	y3.Add2(&t0, &t2)     // Y3 := t0 + t2
	y3.Sub2(&x3, &y3)     // Y3 := X3 - Y3
	z3.Mul2(&curveB, &t2) // Z3 := b * t2
	x3.Sub2(&y3, &z3)     // X3 := Y3 - Z3
	z3.Add2(&x3, &x3)     // Z3 := X3 + X3
	x3.Add(&z3)           // X3 := X3 + Z3
	z3.Sub2(&t1, &x3)     // Z3 := t1 - X3
	x3.Add2(&t1, &x3)     // X3 := t1 + X3
	y3.Mul(&curveB)       // Y3 := b * Y3
	t1.Add2(&t2, &t2)     // t1 := t2 + t2
	t2.Add2(&t1, &t2)     // t2 := t1 + t2
	y3.Sub(&t2)           // Y3 := Y3 - t2
	y3.Sub(&t0)           // Y3 := Y3 - t0
	t1.Add2(&y3, &y3)     // t1 := Y3 + Y3
	y3.Add2(&t1, &y3)     // Y3 := t1 + Y3
	t1.Add2(&t0, &t0)     // t1 := t0 + t0
	t0.Add2(&t1, &t0)     // t0 := t1 + t0
	t0.Sub(&t2)           // t0 := t0 - t2
	t1.Mul2(&t4, &y3)     // t1 := t4 * Y3
	t2.Mul2(&t0, &y3)     // t2 := t0 * Y3
	y3.Mul2(&x3, &z3)     // Y3 := X3 * Z3
	y3.Add(&t2)           // Y3 := Y3 + t2
	x3.Mul2(&t3, &x3)     // X3 := t3 * X3
	x3.Sub(&t1)           // X3 := X3 - t1
	z3.Mul2(&t4, &z3)     // Z3 := t4 * Z3
	t1.Mul2(&t3, &t0)     // t1 := t3 * t0
	z3.Add(&t1)           // Z3 := Z3 + t1

	result.X.Set(&x3)
	result.Y.Set(&y3)
	result.Z.Set(&z3)
}

// DoublePoint doubles the passed projective point and stores the result in the
// provided result parameter in constant time.
//
// This uses the complete doubling formula for a = -3 from Renes, Costello,
// Batina 2015, algorithm 6.
func DoublePoint(p, result *ProjectivePoint) {
	var t0, t1, t2, t3, x3, y3, z3 FieldVal
	t0.SquareVal(&p.X)    // t0 := X ^ 2
	t1.SquareVal(&p.Y)    // t1 := Y ^ 2
	t2.SquareVal(&p.Z)    // t2 := Z ^ 2
	t3.Mul2(&p.X, &p.Y)   // t3 := X * Y
	t3.Add(&t3)           // t3 := t3 + t3
	z3.Mul2(&p.X, &p.Z)   // Z3 := X * Z
	z3.Add(&z3)           // Z3 := Z3 + Z3
	y3.Mul2(&curveB, &t2) // Y3 := b * t2
	y3.Sub(&z3)           // Y3 := Y3 - Z3
	x3.Add2(&y3, &y3)     // X3 := Y3 + Y3
	y3.Add2(&x3, &y3)     // Y3 := X3 + Y3
	x3.Sub2(&t1, &y3)     // X3 := t1 - Y3
	y3.Add2(&t1, &y3)     // Y3 := t1 + Y3
	y3.Mul2(&x3, &y3)     // Y3 := X3 * Y3
	x3.Mul(&t3)           // X3 := X3 * t3
	t3.Add2(&t2, &t2)     // t3 := t2 + t2
	t2.Add(&t3)           // t2 := t2 + t3
	z3.Mul(&curveB)       // Z3 := b * Z3
	z3.Sub(&t2)           // Z3 := Z3 - t2
	z3.Sub(&t0)           // Z3 := Z3 - t0
	t3.Add2(&z3, &z3)     // t3 := Z3 + Z3
	z3.Add(&t3)           // Z3 := Z3 + t3
	t3.Add2(&t0, &t0)     // t3 := t0 + t0
	t0.Add2(&t3, &t0)     // t0 := t3 + t0
	t0.Sub(&t2)           // t0 := t0 - t2
	t0.Mul(&z3)           // t0 := t0 * Z3
	y3.Add(&t0)           // Y3 := Y3 + t0
	t0.Mul2(&p.Y, &p.Z)   // t0 := Y * Z
	t0.Add(&t0)           // t0 := t0 + t0
	z3.Mul2(&t0, &z3)     // Z3 := t0 * Z3
	x3.Sub(&z3)           // X3 := X3 - Z3
	z3.Mul2(&t0, &t1)     // Z3 := t0 * t1
	z3.Add(&z3)           // Z3 := Z3 + Z3
	z3.Add(&z3)           // Z3 := Z3 + Z3

	result.X.Set(&x3)
	result.Y.Set(&y3)
	result.Z.Set(&z3)
}

// pointTable holds the multiples 1P through 15P of a point for the fixed
// window scalar multiplication.
type pointTable [15]ProjectivePoint

// newPointTable computes the window table for the passed point.
func newPointTable(point *ProjectivePoint) *pointTable {
	var table pointTable
	table[0].Set(point)
	for i := 1; i < 15; i += 2 {
		DoublePoint(&table[i/2], &table[i])
		AddPoints(&table[i], point, &table[i+1])
	}
	return &table
}

// selectInto sets p to n times the table point, where 0 selects the point at
// infinity, reading every entry so the access pattern is independent of n.
func (table *pointTable) selectInto(p *ProjectivePoint, n uint8) {
	p.SetIdentity()
	for i := uint8(1); i < 16; i++ {
		cond := uint32(subtle.ConstantTimeByteEq(i, n))
		p.Select(&table[i-1], p, cond)
	}
}

// scalarMultTable multiplies the table point by the big-endian scalar bytes
// using a fixed 4-bit window.  The sequence of doublings and additions does not
// depend on the scalar.
func scalarMultTable(table *pointTable, scalar *[32]byte, result *ProjectivePoint) {
	var acc, t ProjectivePoint
	acc.SetIdentity()
	for i, b := range scalar {
		if i != 0 {
			DoublePoint(&acc, &acc)
			DoublePoint(&acc, &acc)
			DoublePoint(&acc, &acc)
			DoublePoint(&acc, &acc)
		}

		table.selectInto(&t, b>>4)
		AddPoints(&acc, &t, &acc)
		DoublePoint(&acc, &acc)
		DoublePoint(&acc, &acc)
		DoublePoint(&acc, &acc)
		DoublePoint(&acc, &acc)

		table.selectInto(&t, b&0x0f)
		AddPoints(&acc, &t, &acc)
	}
	result.Set(&acc)
}

// ScalarMult multiplies k*P where k is a scalar modulo the group order and P is
// a point in projective coordinates and stores the result in the provided
// projective point in constant time.  The result may alias the point.
func ScalarMult(k *ModNScalar, point, result *ProjectivePoint) {
	table := newPointTable(point)
	kb := k.Bytes()
	scalarMultTable(table, &kb, result)
	zeroArray32(&kb)
}

var (
	// baseTable holds the window table for the base point.  It is built on
	// first use and never modified afterwards.
	baseTable     *pointTable
	baseTableOnce sync.Once
)

// generator returns the base point in projective coordinates.
func generator() ProjectivePoint {
	var p ProjectivePoint
	gx := fieldValFromHex(gxHex)
	gy := fieldValFromHex(gyHex)
	p.SetAffine(&gx, &gy)
	return p
}

// ScalarBaseMult multiplies k*G where G is the base point of the group and k is
// a scalar modulo the group order in constant time.  The result is stored in
// the provided projective point.
func ScalarBaseMult(k *ModNScalar, result *ProjectivePoint) {
	baseTableOnce.Do(func() {
		g := generator()
		baseTable = newPointTable(&g)
	})
	kb := k.Bytes()
	scalarMultTable(baseTable, &kb, result)
	zeroArray32(&kb)
}
