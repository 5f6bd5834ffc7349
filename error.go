// Copyright (c) 2020-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

// ErrorKind identifies a kind of error.  It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants identify the broad classes of errors.  Every more specific
// ErrorKind below belongs to exactly one of them, and an Error created for a
// specific kind matches its class via errors.Is as well.
const (
	// ErrOutOfRange is returned when a decoded integer is not less than the
	// modulus it is supposed to be reduced by.
	ErrOutOfRange = ErrorKind("ErrOutOfRange")

	// ErrInvalidOperand is returned when an arithmetic operation is not
	// defined for the provided operand, such as the inverse of zero.
	ErrInvalidOperand = ErrorKind("ErrInvalidOperand")

	// ErrInvalidPoint is returned when coordinates do not satisfy the curve
	// equation or are outside of the field.
	ErrInvalidPoint = ErrorKind("ErrInvalidPoint")

	// ErrInvalidEncoding is returned when a serialized key or signature has
	// a malformed layout, the wrong length, or a non-canonical encoding.
	ErrInvalidEncoding = ErrorKind("ErrInvalidEncoding")

	// ErrInsufficientRandomness is returned when the randomness source fails
	// or does not supply usable bytes.
	ErrInsufficientRandomness = ErrorKind("ErrInsufficientRandomness")

	// ErrSigningFailed is returned when a signature could not be produced.
	// It indicates a defect and is not expected to ever be observed.
	ErrSigningFailed = ErrorKind("ErrSigningFailed")
)

// These constants are used to identify a specific public key Error.
const (
	// ErrPubKeyInvalidLen indicates that the length of a serialized public
	// key is not one of the allowed lengths.
	ErrPubKeyInvalidLen = ErrorKind("ErrPubKeyInvalidLen")

	// ErrPubKeyInvalidFormat indicates an attempt was made to parse a public
	// key that does not specify one of the supported formats.
	ErrPubKeyInvalidFormat = ErrorKind("ErrPubKeyInvalidFormat")

	// ErrPubKeyXTooBig indicates that the x coordinate for a public key is
	// greater than or equal to the prime of the field underlying the group.
	ErrPubKeyXTooBig = ErrorKind("ErrPubKeyXTooBig")

	// ErrPubKeyYTooBig indicates that the y coordinate for a public key is
	// greater than or equal to the prime of the field underlying the group.
	ErrPubKeyYTooBig = ErrorKind("ErrPubKeyYTooBig")

	// ErrPubKeyNotOnCurve indicates that a public key is not a point on the
	// P-256 curve.
	ErrPubKeyNotOnCurve = ErrorKind("ErrPubKeyNotOnCurve")

	// ErrPubKeyNoSquareRoot indicates that the x coordinate of a compressed
	// public key does not have a corresponding y coordinate on the curve.
	ErrPubKeyNoSquareRoot = ErrorKind("ErrPubKeyNoSquareRoot")

	// ErrPubKeyIsIdentity indicates that a public key is the point at
	// infinity.
	ErrPubKeyIsIdentity = ErrorKind("ErrPubKeyIsIdentity")

	// ErrPubKeyMalformedPKIX indicates that a SubjectPublicKeyInfo structure
	// is not valid DER or does not have the expected layout.
	ErrPubKeyMalformedPKIX = ErrorKind("ErrPubKeyMalformedPKIX")

	// ErrPubKeyUnsupportedAlgorithm indicates that a SubjectPublicKeyInfo
	// structure names an algorithm other than id-ecPublicKey.
	ErrPubKeyUnsupportedAlgorithm = ErrorKind("ErrPubKeyUnsupportedAlgorithm")

	// ErrPubKeyUnsupportedCurve indicates that an encoded key names a curve
	// other than P-256.
	ErrPubKeyUnsupportedCurve = ErrorKind("ErrPubKeyUnsupportedCurve")

	// ErrPubKeyInvalidMultibase indicates that a multibase or did:key string
	// does not hold a P-256 public key.
	ErrPubKeyInvalidMultibase = ErrorKind("ErrPubKeyInvalidMultibase")

	// ErrUnknownKeyFormat indicates that the requested public key format is
	// not one of the supported formats.
	ErrUnknownKeyFormat = ErrorKind("ErrUnknownKeyFormat")

	// ErrKeyInvalidJWK indicates that a JSON Web Key is malformed or does
	// not describe a P-256 key.
	ErrKeyInvalidJWK = ErrorKind("ErrKeyInvalidJWK")
)

// These constants are used to identify a specific private key Error.
const (
	// ErrPrivKeyInvalidLen indicates that a serialized private key is not 32
	// bytes.
	ErrPrivKeyInvalidLen = ErrorKind("ErrPrivKeyInvalidLen")

	// ErrPrivKeyTooBig indicates that a serialized private key is greater
	// than or equal to the group order.
	ErrPrivKeyTooBig = ErrorKind("ErrPrivKeyTooBig")

	// ErrPrivKeyIsZero indicates that a serialized private key is zero.
	ErrPrivKeyIsZero = ErrorKind("ErrPrivKeyIsZero")

	// ErrPrivKeyMalformedDER indicates that a SEC 1 ECPrivateKey structure is
	// not valid DER or does not have the expected layout.
	ErrPrivKeyMalformedDER = ErrorKind("ErrPrivKeyMalformedDER")

	// ErrPrivKeyMismatchedPubKey indicates that the public key embedded in a
	// SEC 1 ECPrivateKey structure does not belong to its private key.
	ErrPrivKeyMismatchedPubKey = ErrorKind("ErrPrivKeyMismatchedPubKey")

	// ErrRandomSourceFailed indicates that reading from the randomness source
	// failed.
	ErrRandomSourceFailed = ErrorKind("ErrRandomSourceFailed")

	// ErrRandomSourceExhausted indicates that the randomness source did not
	// produce a valid private key within the allowed number of draws.
	ErrRandomSourceExhausted = ErrorKind("ErrRandomSourceExhausted")

	// ErrNonceExhausted indicates that the deterministic nonce generator did
	// not produce a usable nonce within the allowed number of candidates.
	ErrNonceExhausted = ErrorKind("ErrNonceExhausted")
)

// errorClasses maps each specific error kind to the class it belongs to.
var errorClasses = map[ErrorKind]ErrorKind{
	ErrPubKeyInvalidLen:           ErrInvalidEncoding,
	ErrPubKeyInvalidFormat:        ErrInvalidEncoding,
	ErrPubKeyXTooBig:              ErrInvalidPoint,
	ErrPubKeyYTooBig:              ErrInvalidPoint,
	ErrPubKeyNotOnCurve:           ErrInvalidPoint,
	ErrPubKeyNoSquareRoot:         ErrInvalidEncoding,
	ErrPubKeyIsIdentity:           ErrInvalidPoint,
	ErrPubKeyMalformedPKIX:        ErrInvalidEncoding,
	ErrPubKeyUnsupportedAlgorithm: ErrInvalidEncoding,
	ErrPubKeyUnsupportedCurve:     ErrInvalidEncoding,
	ErrPubKeyInvalidMultibase:     ErrInvalidEncoding,
	ErrUnknownKeyFormat:           ErrInvalidEncoding,
	ErrKeyInvalidJWK:              ErrInvalidEncoding,

	ErrPrivKeyInvalidLen:       ErrInvalidEncoding,
	ErrPrivKeyTooBig:           ErrOutOfRange,
	ErrPrivKeyIsZero:           ErrOutOfRange,
	ErrPrivKeyMalformedDER:     ErrInvalidEncoding,
	ErrPrivKeyMismatchedPubKey: ErrInvalidEncoding,
	ErrRandomSourceFailed:      ErrInsufficientRandomness,
	ErrRandomSourceExhausted:   ErrInsufficientRandomness,
	ErrNonceExhausted:          ErrSigningFailed,

	ErrSigTooShort:        ErrInvalidEncoding,
	ErrSigTooLong:         ErrInvalidEncoding,
	ErrSigInvalidSeqID:    ErrInvalidEncoding,
	ErrSigInvalidDataLen:  ErrInvalidEncoding,
	ErrSigMissingSTypeID:  ErrInvalidEncoding,
	ErrSigMissingSLen:     ErrInvalidEncoding,
	ErrSigInvalidSLen:     ErrInvalidEncoding,
	ErrSigInvalidRIntID:   ErrInvalidEncoding,
	ErrSigZeroRLen:        ErrInvalidEncoding,
	ErrSigNegativeR:       ErrInvalidEncoding,
	ErrSigTooMuchRPadding: ErrInvalidEncoding,
	ErrSigRIsZero:         ErrInvalidEncoding,
	ErrSigRTooBig:         ErrInvalidEncoding,
	ErrSigInvalidSIntID:   ErrInvalidEncoding,
	ErrSigZeroSLen:        ErrInvalidEncoding,
	ErrSigNegativeS:       ErrInvalidEncoding,
	ErrSigTooMuchSPadding: ErrInvalidEncoding,
	ErrSigSIsZero:         ErrInvalidEncoding,
	ErrSigSTooBig:         ErrInvalidEncoding,
	ErrSigInvalidLen:      ErrInvalidEncoding,
}

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Class returns the broad class the error kind belongs to.  A class kind is
// its own class.
func (e ErrorKind) Class() ErrorKind {
	if class, ok := errorClasses[e]; ok {
		return class
	}
	return e
}

// Error identifies an error related to P-256 keys, signatures and arithmetic.
// It has full support for errors.Is and errors.As, so the caller can
// ascertain the specific reason for the error by checking the underlying
// error, or its class.
type Error struct {
	Err         error
	Class       error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error kind followed by its class.
func (e Error) Unwrap() []error {
	if e.Class == nil || e.Class == e.Err {
		return []error{e.Err}
	}
	return []error{e.Err, e.Class}
}

// makeError creates an Error given a set of arguments.
func makeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Class: kind.Class(), Description: desc}
}
