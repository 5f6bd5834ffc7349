// Copyright (c) 2020-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

// Signature decoding error kinds.  All of them belong to the
// ErrInvalidEncoding class.
//
// The first group covers the outer DER envelope
//
//	0x30 <length> 0x02 <length r> r 0x02 <length s> s
//
// while the remaining groups cover the two integers and the raw 64-byte form.
const (
	// ErrSigTooShort means the input is shorter than the smallest possible
	// DER encoded signature.
	ErrSigTooShort = ErrorKind("ErrSigTooShort")

	// ErrSigTooLong means the input is longer than the largest DER encoded
	// signature with two 256-bit integers.
	ErrSigTooLong = ErrorKind("ErrSigTooLong")

	// ErrSigInvalidSeqID means the first byte is not the ASN.1 SEQUENCE tag.
	ErrSigInvalidSeqID = ErrorKind("ErrSigInvalidSeqID")

	// ErrSigInvalidDataLen means the SEQUENCE length does not match the
	// number of bytes that follow it.
	ErrSigInvalidDataLen = ErrorKind("ErrSigInvalidDataLen")

	// ErrSigMissingSTypeID means the input ends before the tag of S.
	ErrSigMissingSTypeID = ErrorKind("ErrSigMissingSTypeID")

	// ErrSigMissingSLen means the input ends before the length of S.
	ErrSigMissingSLen = ErrorKind("ErrSigMissingSLen")

	// ErrSigInvalidSLen means the length of S does not consume exactly the
	// remaining bytes.
	ErrSigInvalidSLen = ErrorKind("ErrSigInvalidSLen")
)

// R and S integer encoding.
const (
	// ErrSigInvalidRIntID means R is not tagged as an ASN.1 INTEGER.
	ErrSigInvalidRIntID = ErrorKind("ErrSigInvalidRIntID")

	// ErrSigZeroRLen means R is encoded with no content bytes.
	ErrSigZeroRLen = ErrorKind("ErrSigZeroRLen")

	// ErrSigNegativeR means the sign bit of R is set.
	ErrSigNegativeR = ErrorKind("ErrSigNegativeR")

	// ErrSigTooMuchRPadding means R carries a leading zero byte that is not
	// needed to clear the sign bit.
	ErrSigTooMuchRPadding = ErrorKind("ErrSigTooMuchRPadding")

	// ErrSigInvalidSIntID means S is not tagged as an ASN.1 INTEGER.
	ErrSigInvalidSIntID = ErrorKind("ErrSigInvalidSIntID")

	// ErrSigZeroSLen means S is encoded with no content bytes.
	ErrSigZeroSLen = ErrorKind("ErrSigZeroSLen")

	// ErrSigNegativeS means the sign bit of S is set.
	ErrSigNegativeS = ErrorKind("ErrSigNegativeS")

	// ErrSigTooMuchSPadding means S carries a leading zero byte that is not
	// needed to clear the sign bit.
	ErrSigTooMuchSPadding = ErrorKind("ErrSigTooMuchSPadding")
)

// Range checks shared by the DER and raw forms.
const (
	// ErrSigRIsZero means R decodes to zero.
	ErrSigRIsZero = ErrorKind("ErrSigRIsZero")

	// ErrSigRTooBig means R is not less than the group order.
	ErrSigRTooBig = ErrorKind("ErrSigRTooBig")

	// ErrSigSIsZero means S decodes to zero.
	ErrSigSIsZero = ErrorKind("ErrSigSIsZero")

	// ErrSigSTooBig means S is not less than the group order.
	ErrSigSTooBig = ErrorKind("ErrSigSTooBig")

	// ErrSigInvalidLen means a raw R || S signature is not 64 bytes.
	ErrSigInvalidLen = ErrorKind("ErrSigInvalidLen")
)

// signatureError returns an Error of the given signature kind.
func signatureError(kind ErrorKind, desc string) Error {
	return makeError(kind, desc)
}
