// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	"fmt"

	"github.com/minio/sha256-simd"
)

// References:
//   [GECC]: Guide to Elliptic Curve Cryptography (Hankerson, Menezes, Vanstone)
//
//   [ISO/IEC 8825-1]: Information technology - ASN.1 encoding rules:
//     Specification of Basic Encoding Rules (BER), Canonical Encoding Rules
//     (CER) and Distinguished Encoding Rules (DER)
//
//   [RFC6979]: Deterministic Usage of the Digital Signature Algorithm (DSA)
//     and Elliptic Curve Digital Signature Algorithm (ECDSA)

const (
	// asn1SequenceID is the ASN.1 identifier for a sequence and is used when
	// parsing and serializing signatures encoded with the Distinguished
	// Encoding Rules (DER) format per section 10 of [ISO/IEC 8825-1].
	asn1SequenceID = 0x30

	// asn1IntegerID is the ASN.1 identifier for an integer and is used when
	// parsing and serializing signatures encoded with the Distinguished
	// Encoding Rules (DER) format per section 10 of [ISO/IEC 8825-1].
	asn1IntegerID = 0x02

	// RawSignatureLen is the length of a signature serialized as the 32-byte
	// big-endian R followed by the 32-byte big-endian S.
	RawSignatureLen = 64
)

// Signature is a type representing an ECDSA signature.
type Signature struct {
	r ModNScalar
	s ModNScalar
}

// NewSignature instantiates a new signature given some R,S values.
func NewSignature(r, s *ModNScalar) *Signature {
	return &Signature{*r, *s}
}

// R returns the r value of the signature.
func (sig *Signature) R() ModNScalar {
	return sig.r
}

// S returns the s value of the signature.
func (sig *Signature) S() ModNScalar {
	return sig.s
}

// Serialize returns the ECDSA signature in the Distinguished Encoding Rules
// (DER) format per section 10 of [ISO/IEC 8825-1].
//
// Unlike the low-S form used by some blockchains, S is serialized exactly as
// it was produced.  Use Normalize first when the low-S form is required.
func (sig *Signature) Serialize() []byte {
	// The format of a DER encoded signature is as follows:
	//
	// 0x30 <total length> 0x02 <length of R> <R> 0x02 <length of S> <S>
	//   - 0x30 is the ASN.1 identifier for a sequence.
	//   - Total length is 1 byte and specifies length of all remaining data.
	//   - 0x02 is the ASN.1 identifier that specifies an integer follows.
	//   - Length of R is 1 byte and specifies how many bytes R occupies.
	//   - R is the arbitrary length big-endian encoded number which
	//     represents the R value of the signature.  DER encoding dictates
	//     that the value must be encoded using the minimum possible number
	//     of bytes.  This implies the first byte can only be null if the
	//     highest bit of the next byte is set in order to prevent it from
	//     being interpreted as a negative number.
	//   - 0x02 is once again the ASN.1 integer identifier.
	//   - Length of S is 1 byte and specifies how many bytes S occupies.
	//   - S is the arbitrary length big-endian encoded number which
	//     represents the S value of the signature.  The encoding rules are
	//     identical as those for R.

	// Serialize the R and S components of the signature into their fixed
	// 32-byte big-endian encoding.
	var rBytes, sBytes [32]byte
	sig.r.PutBytes(&rBytes)
	sig.s.PutBytes(&sBytes)

	// Ensure the encoded bytes for the R and S components are canonical per DER
	// by trimming all leading zero bytes so long as the next byte does not have
	// the high bit set and it's not the final byte.
	var rBuf, sBuf [33]byte
	copy(rBuf[1:], rBytes[:])
	copy(sBuf[1:], sBytes[:])
	canonR, canonS := rBuf[:], sBuf[:]
	for len(canonR) > 1 && canonR[0] == 0x00 && canonR[1]&0x80 == 0 {
		canonR = canonR[1:]
	}
	for len(canonS) > 1 && canonS[0] == 0x00 && canonS[1]&0x80 == 0 {
		canonS = canonS[1:]
	}

	// Total length of returned signature is 1 byte for each magic and length
	// (6 total), plus lengths of R and S.
	totalLen := 6 + len(canonR) + len(canonS)
	b := make([]byte, 0, totalLen)
	b = append(b, asn1SequenceID)
	b = append(b, byte(totalLen-2))
	b = append(b, asn1IntegerID)
	b = append(b, byte(len(canonR)))
	b = append(b, canonR...)
	b = append(b, asn1IntegerID)
	b = append(b, byte(len(canonS)))
	b = append(b, canonS...)
	return b
}

// SerializeRaw returns the signature as the 64-byte concatenation of the
// 32-byte big-endian R and S values.
func (sig *Signature) SerializeRaw() []byte {
	var b [RawSignatureLen]byte
	sig.r.PutBytesUnchecked(b[:32])
	sig.s.PutBytesUnchecked(b[32:])
	return b[:]
}

// IsEqual compares this Signature instance to the one passed, returning true if
// both Signatures are equivalent.  A signature is equivalent to another, if
// they both have the same scalar value for R and S.
func (sig *Signature) IsEqual(otherSig *Signature) bool {
	return sig.r.Equals(&otherSig.r) && sig.s.Equals(&otherSig.s)
}

// IsLowS returns whether or not S is at most half the group order.
func (sig *Signature) IsLowS() bool {
	return !sig.s.IsOverHalfOrder()
}

// Normalize returns the low-S form of the signature.  Both S and its negation
// verify for the same message and key, so this picks the smaller of the two.
func (sig *Signature) Normalize() *Signature {
	s := sig.s
	if s.IsOverHalfOrder() {
		s.Negate()
	}
	return NewSignature(&sig.r, &s)
}

// Verify returns whether or not the signature is valid for the provided hash
// and P-256 public key.  It never panics and reports any invalid input as a
// failed verification.
func (sig *Signature) Verify(hash []byte, pubKey *PublicKey) bool {
	// The algorithm for verifying an ECDSA signature is given as algorithm 4.30
	// in [GECC].
	//
	// The following is a paraphrased version for reference:
	//
	// G = curve generator
	// N = curve order
	// Q = public key
	// m = message
	// R, S = signature
	//
	// 1. Fail if R and S are not in [1, N-1]
	// 2. e = H(m)
	// 3. w = S^-1 mod N
	// 4. u1 = e * w mod N
	//    u2 = R * w mod N
	// 5. X = u1G + u2Q
	// 6. Fail if X is the point at infinity
	// 7. x = X.x mod N (X.x is the x coordinate of X)
	// 8. Verified if x == R

	if sig == nil || pubKey == nil || !pubKey.IsOnCurve() {
		return false
	}

	// Step 1.
	//
	// Fail if R and S are not in [1, N-1].  Scalars are always reduced, so
	// only zero needs to be checked.
	if sig.r.IsZero() || sig.s.IsZero() {
		return false
	}

	// Step 2.
	//
	// e = H(m), keeping the leftmost 256 bits.
	e := hashToModNScalar(hash)

	// Step 3.
	//
	// w = S^-1 mod N
	w := new(ModNScalar).InverseVal(&sig.s)

	// Step 4.
	//
	// u1 = e * w mod N
	// u2 = R * w mod N
	u1 := new(ModNScalar).Mul2(&e, w)
	u2 := new(ModNScalar).Mul2(&sig.r, w)

	// Step 5.
	//
	// X = u1G + u2Q
	var X, Q, u1G, u2Q ProjectivePoint
	pubKey.AsProjective(&Q)
	ScalarBaseMult(u1, &u1G)
	ScalarMult(u2, &Q, &u2Q)
	AddPoints(&u1G, &u2Q, &X)

	// Step 6.
	//
	// Fail if X is the point at infinity
	if X.IsIdentity() {
		return false
	}

	// Step 7.
	//
	// x = X.x mod N
	X.ToAffine()
	x, _ := fieldToModNScalar(&X.X)

	// Step 8.
	//
	// Verified if x == R
	return x.Equals(&sig.r)
}

// ParseDERSignature parses a signature in the Distinguished Encoding Rules
// (DER) format per section 10 of [ISO/IEC 8825-1] and enforces the following
// additional restrictions specific to P-256:
//
//   - R and S must be positive and less than the P-256 group order, so
//     negative values, zero, and values of at least the order are rejected
//   - Integers must use the minimal encoding, so a leading zero byte is only
//     permitted when the next byte has its high bit set
func ParseDERSignature(sig []byte) (*Signature, error) {
	// The format of a DER encoded signature for P-256 is as follows:
	//
	// 0x30 <total length> 0x02 <length of R> <R> 0x02 <length of S> <S>
	//   - 0x30 is the ASN.1 identifier for a sequence
	//   - Total length is 1 byte and specifies length of all remaining data
	//   - 0x02 is the ASN.1 identifier that specifies an integer follows
	//   - Length of R is 1 byte and specifies how many bytes R occupies
	//   - R is the arbitrary length big-endian encoded number which
	//     represents the R value of the signature.  DER encoding dictates
	//     that the value must be encoded using the minimum possible number
	//     of bytes.  This implies the first byte can only be null if the
	//     highest bit of the next byte is set in order to prevent it from
	//     being interpreted as a negative number.
	//   - 0x02 is once again the ASN.1 integer identifier
	//   - Length of S is 1 byte and specifies how many bytes S occupies
	//   - S is the arbitrary length big-endian encoded number which
	//     represents the S value of the signature.  The encoding rules are
	//     identical as those for R.
	//
	// NOTE: The DER specification supports specifying lengths that can occupy
	// more than 1 byte, however, since the largest P-256 signature is 72
	// bytes, all lengths will be a single byte.
	const (
		// minSigLen is the minimum length of a DER encoded signature and is
		// when both R and S are 1 byte each.
		//
		// 0x30 + <1-byte> + 0x02 + 0x01 + <byte> + 0x2 + 0x01 + <byte>
		minSigLen = 8

		// maxSigLen is the maximum length of a DER encoded signature and is
		// when both R and S are 33 bytes each.  It is 33 bytes because a
		// 256-bit integer requires 32 bytes and an additional leading null byte
		// might be required if the high bit is set in the value.
		//
		// 0x30 + <1-byte> + 0x02 + 0x21 + <33 bytes> + 0x2 + 0x21 + <33 bytes>
		maxSigLen = 72

		// sequenceOffset is the byte offset within the signature of the
		// expected ASN.1 sequence identifier.
		sequenceOffset = 0

		// dataLenOffset is the byte offset within the signature of the expected
		// total length of all remaining data in the signature.
		dataLenOffset = 1

		// rTypeOffset is the byte offset within the signature of the ASN.1
		// identifier for R and is expected to indicate an ASN.1 integer.
		rTypeOffset = 2

		// rLenOffset is the byte offset within the signature of the length of
		// R.
		rLenOffset = 3

		// rOffset is the byte offset within the signature of R.
		rOffset = 4
	)

	// The signature must adhere to the minimum and maximum allowed length.
	sigLen := len(sig)
	if sigLen < minSigLen {
		str := fmt.Sprintf("malformed signature: too short: %d < %d", sigLen,
			minSigLen)
		return nil, signatureError(ErrSigTooShort, str)
	}
	if sigLen > maxSigLen {
		str := fmt.Sprintf("malformed signature: too long: %d > %d", sigLen,
			maxSigLen)
		return nil, signatureError(ErrSigTooLong, str)
	}

	// The signature must start with the ASN.1 sequence identifier.
	if sig[sequenceOffset] != asn1SequenceID {
		str := fmt.Sprintf("malformed signature: format has wrong type: %#x",
			sig[sequenceOffset])
		return nil, signatureError(ErrSigInvalidSeqID, str)
	}

	// The signature must indicate the correct amount of data for all elements
	// related to R and S.
	if int(sig[dataLenOffset]) != sigLen-2 {
		str := fmt.Sprintf("malformed signature: bad length: %d != %d",
			sig[dataLenOffset], sigLen-2)
		return nil, signatureError(ErrSigInvalidDataLen, str)
	}

	// Calculate the offsets of the elements related to S and ensure S is inside
	// the signature.
	//
	// rLen specifies the length of the big-endian encoded number which
	// represents the R value of the signature.
	//
	// sTypeOffset is the offset of the ASN.1 identifier for S and, like its R
	// counterpart, is expected to indicate an ASN.1 integer.
	//
	// sLenOffset and sOffset are the byte offsets within the signature of the
	// length of S and S itself, respectively.
	rLen := int(sig[rLenOffset])
	sTypeOffset := rOffset + rLen
	sLenOffset := sTypeOffset + 1
	if sTypeOffset >= sigLen {
		str := "malformed signature: S type indicator missing"
		return nil, signatureError(ErrSigMissingSTypeID, str)
	}
	if sLenOffset >= sigLen {
		str := "malformed signature: S length missing"
		return nil, signatureError(ErrSigMissingSLen, str)
	}

	// The lengths of R and S must match the overall length of the signature.
	//
	// sLen specifies the length of the big-endian encoded number which
	// represents the S value of the signature.
	sOffset := sLenOffset + 1
	sLen := int(sig[sLenOffset])
	if sOffset+sLen != sigLen {
		str := "malformed signature: invalid S length"
		return nil, signatureError(ErrSigInvalidSLen, str)
	}

	// R elements must be ASN.1 integers.
	if sig[rTypeOffset] != asn1IntegerID {
		str := fmt.Sprintf("malformed signature: R integer marker: %#x != %#x",
			sig[rTypeOffset], asn1IntegerID)
		return nil, signatureError(ErrSigInvalidRIntID, str)
	}

	// Zero-length integers are not allowed for R.
	if rLen == 0 {
		str := "malformed signature: R length is zero"
		return nil, signatureError(ErrSigZeroRLen, str)
	}

	// R must not be negative.
	if sig[rOffset]&0x80 != 0 {
		str := "malformed signature: R is negative"
		return nil, signatureError(ErrSigNegativeR, str)
	}

	// Null bytes at the start of R are not allowed, unless R would otherwise be
	// interpreted as a negative number.
	if rLen > 1 && sig[rOffset] == 0x00 && sig[rOffset+1]&0x80 == 0 {
		str := "malformed signature: R value has too much padding"
		return nil, signatureError(ErrSigTooMuchRPadding, str)
	}

	// S elements must be ASN.1 integers.
	if sig[sTypeOffset] != asn1IntegerID {
		str := fmt.Sprintf("malformed signature: S integer marker: %#x != %#x",
			sig[sTypeOffset], asn1IntegerID)
		return nil, signatureError(ErrSigInvalidSIntID, str)
	}

	// Zero-length integers are not allowed for S.
	if sLen == 0 {
		str := "malformed signature: S length is zero"
		return nil, signatureError(ErrSigZeroSLen, str)
	}

	// S must not be negative.
	if sig[sOffset]&0x80 != 0 {
		str := "malformed signature: S is negative"
		return nil, signatureError(ErrSigNegativeS, str)
	}

	// Null bytes at the start of S are not allowed, unless S would otherwise be
	// interpreted as a negative number.
	if sLen > 1 && sig[sOffset] == 0x00 && sig[sOffset+1]&0x80 == 0 {
		str := "malformed signature: S value has too much padding"
		return nil, signatureError(ErrSigTooMuchSPadding, str)
	}

	// The signature is validly encoded per DER at this point, however, enforce
	// additional restrictions to ensure R and S are in the range [1, N-1] since
	// valid ECDSA signatures are required to be in that range by FIPS 186-4.

	// Strip leading zeroes from R.
	rBytes := sig[rOffset : rOffset+rLen]
	for len(rBytes) > 0 && rBytes[0] == 0x00 {
		rBytes = rBytes[1:]
	}

	// R must be in the range [1, N-1].  Notice the check for the maximum number
	// of bytes is required because SetByteSlice truncates as noted in its
	// comment so it could otherwise fail to detect the overflow.
	var r ModNScalar
	if len(rBytes) > 32 {
		str := "invalid signature: R is larger than 256 bits"
		return nil, signatureError(ErrSigRTooBig, str)
	}
	if overflow := r.SetByteSlice(rBytes); overflow {
		str := "invalid signature: R >= group order"
		return nil, signatureError(ErrSigRTooBig, str)
	}
	if r.IsZero() {
		str := "invalid signature: R is 0"
		return nil, signatureError(ErrSigRIsZero, str)
	}

	// Strip leading zeroes from S.
	sBytes := sig[sOffset : sOffset+sLen]
	for len(sBytes) > 0 && sBytes[0] == 0x00 {
		sBytes = sBytes[1:]
	}

	// S must be in the range [1, N-1].  Notice the check for the maximum number
	// of bytes is required because SetByteSlice truncates as noted in its
	// comment so it could otherwise fail to detect the overflow.
	var s ModNScalar
	if len(sBytes) > 32 {
		str := "invalid signature: S is larger than 256 bits"
		return nil, signatureError(ErrSigSTooBig, str)
	}
	if overflow := s.SetByteSlice(sBytes); overflow {
		str := "invalid signature: S >= group order"
		return nil, signatureError(ErrSigSTooBig, str)
	}
	if s.IsZero() {
		str := "invalid signature: S is 0"
		return nil, signatureError(ErrSigSIsZero, str)
	}

	// Create and return the signature.
	return NewSignature(&r, &s), nil
}

// ParseRawSignature parses a 64-byte R || S signature.  Both values must be in
// the range [1, N-1].
func ParseRawSignature(sig []byte) (*Signature, error) {
	if len(sig) != RawSignatureLen {
		str := fmt.Sprintf("malformed signature: invalid length: %d != %d",
			len(sig), RawSignatureLen)
		return nil, signatureError(ErrSigInvalidLen, str)
	}

	var r, s ModNScalar
	if overflow := r.SetByteSlice(sig[:32]); overflow {
		str := "invalid signature: R >= group order"
		return nil, signatureError(ErrSigRTooBig, str)
	}
	if r.IsZero() {
		str := "invalid signature: R is 0"
		return nil, signatureError(ErrSigRIsZero, str)
	}
	if overflow := s.SetByteSlice(sig[32:]); overflow {
		str := "invalid signature: S >= group order"
		return nil, signatureError(ErrSigSTooBig, str)
	}
	if s.IsZero() {
		str := "invalid signature: S is 0"
		return nil, signatureError(ErrSigSIsZero, str)
	}
	return NewSignature(&r, &s), nil
}

// signRFC6979 generates a deterministic ECDSA signature according to
// [RFC6979].  The extra data is passed through to the nonce generator.
func signRFC6979(privateKey *PrivateKey, hash []byte, extra []byte) (*Signature, error) {
	// The algorithm for producing an ECDSA signature is given as algorithm 4.29
	// in [GECC].
	//
	// The following is a paraphrased version for reference:
	//
	// G = curve generator
	// N = curve order
	// d = private key
	// m = message
	// r, s = signature
	//
	// 1. Select random nonce k in [1, N-1]
	// 2. Compute kG
	// 3. r = kG.x mod N (kG.x is the x coordinate of the point kG)
	//    Repeat from step 1 if r = 0
	// 4. e = H(m)
	// 5. s = k^-1(e + dr) mod N
	//    Repeat from step 1 if s = 0
	// 6. Return (r,s)
	//
	// This is modified here to conform to [RFC6979]: instead of selecting a
	// random nonce in step 1, the next nonce of a deterministic stream seeded
	// by the private key and message hash is used, and every repeat draws the
	// following nonce of the same stream.

	if privateKey == nil || privateKey.Key.IsZero() {
		return nil, makeError(ErrPrivKeyIsZero, "invalid private key: value "+
			"is zero")
	}

	privKeyBytes := privateKey.Key.Bytes()
	defer zeroArray32(&privKeyBytes)
	stream := newNonceStream(&privKeyBytes, hash, extra)
	defer stream.wipe()

	// Step 4.
	//
	// e = H(m)
	//
	// Note that this actually sets e = H(m) mod N which is correct since
	// it is only used in step 5 which itself is mod N.
	e := hashToModNScalar(hash)

	for {
		// Step 1 with the RFC6979 modification.
		k, err := stream.next()
		if err != nil {
			return nil, err
		}

		// Step 2.
		//
		// Compute kG
		//
		// Note that the point must be in affine coordinates.
		var kG ProjectivePoint
		ScalarBaseMult(k, &kG)
		kG.ToAffine()

		// Step 3.
		//
		// r = kG.x mod N
		// Repeat from step 1 if r = 0
		r, _ := fieldToModNScalar(&kG.X)
		if kG.IsIdentity() || r.IsZero() {
			k.Zero()
			continue
		}

		// Step 5.
		//
		// s = k^-1(e + dr) mod N
		// Repeat from step 1 if s = 0
		kInv := new(ModNScalar).InverseVal(k)
		s := new(ModNScalar).Mul2(&privateKey.Key, &r).Add(&e).Mul(kInv)
		k.Zero()
		kInv.Zero()
		if s.IsZero() {
			continue
		}

		// Step 6.
		//
		// Return (r,s)
		return NewSignature(&r, s), nil
	}
}

// Sign generates an ECDSA signature over the P-256 curve for the provided hash
// (which should be the result of hashing a larger message) using the given
// private key.  The produced signature is deterministic (same message and same
// key yield the same signature) and canonical in accordance with RFC6979.
//
// S is not normalized to the lower half of the group order, so the result
// matches the reference vectors of RFC6979.  Hashes longer than 32 bytes are
// truncated to their leftmost 256 bits.
//
// The only failure is exhaustion of the nonce stream, which matches
// ErrSigningFailed and is not expected to ever occur, or a zero private key.
func Sign(key *PrivateKey, hash []byte) (*Signature, error) {
	return signRFC6979(key, hash, nil)
}

// SignWithExtraData is like Sign, but mixes 32 bytes of additional data into
// the nonce generation as described in section 3.6 of RFC6979.  Extra data of
// any other length is ignored.
func SignWithExtraData(key *PrivateKey, hash []byte, extra []byte) (*Signature, error) {
	return signRFC6979(key, hash, extra)
}

// SignMessage hashes the message with SHA-256 and signs the digest.
func SignMessage(key *PrivateKey, msg []byte) (*Signature, error) {
	hash := sha256.Sum256(msg)
	return Sign(key, hash[:])
}

// VerifyMessage hashes the message with SHA-256 and verifies the signature
// against the digest and public key.
func VerifyMessage(pubKey *PublicKey, msg []byte, sig *Signature) bool {
	hash := sha256.Sum256(msg)
	return sig.Verify(hash[:], pubKey)
}
