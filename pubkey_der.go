// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	encasn1 "encoding/asn1"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

var (
	// oidPublicKeyECDSA is id-ecPublicKey from RFC 5480.
	oidPublicKeyECDSA = encasn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}

	// oidNamedCurveP256 is secp256r1 (prime256v1) from RFC 5480.
	oidNamedCurveP256 = encasn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7}
)

// MarshalPKIX serializes the public key as a DER encoded X.509
// SubjectPublicKeyInfo structure per RFC 5480:
//
//	SubjectPublicKeyInfo ::= SEQUENCE {
//	  algorithm        SEQUENCE { id-ecPublicKey, secp256r1 },
//	  subjectPublicKey BIT STRING }
//
// The subject public key holds the SEC1 point in the compressed or
// uncompressed format.
func (p *PublicKey) MarshalPKIX(compressed bool) ([]byte, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	point := p.SerializeUncompressed()
	if compressed {
		point = p.SerializeCompressed()
	}

	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1ObjectIdentifier(oidPublicKeyECDSA)
			b.AddASN1ObjectIdentifier(oidNamedCurveP256)
		})
		b.AddASN1BitString(point)
	})
	return b.Bytes()
}

// ParsePKIXPublicKey parses a DER encoded X.509 SubjectPublicKeyInfo structure
// holding a P-256 public key.  Only the named curve form of the algorithm
// parameters is accepted and the embedded point must pass the same checks as
// ParsePubKey.
func ParsePKIXPublicKey(der []byte) (*PublicKey, error) {
	input := cryptobyte.String(der)
	var spki, algo cryptobyte.String
	var bits encasn1.BitString
	if !input.ReadASN1(&spki, cbasn1.SEQUENCE) || !input.Empty() ||
		!spki.ReadASN1(&algo, cbasn1.SEQUENCE) ||
		!spki.ReadASN1BitString(&bits) || !spki.Empty() {

		return nil, makeError(ErrPubKeyMalformedPKIX, "malformed public key: "+
			"invalid SubjectPublicKeyInfo")
	}

	var algOID encasn1.ObjectIdentifier
	if !algo.ReadASN1ObjectIdentifier(&algOID) {
		return nil, makeError(ErrPubKeyMalformedPKIX, "malformed public key: "+
			"invalid algorithm identifier")
	}
	if !algOID.Equal(oidPublicKeyECDSA) {
		str := "unsupported public key algorithm: " + algOID.String()
		return nil, makeError(ErrPubKeyUnsupportedAlgorithm, str)
	}

	var curveOID encasn1.ObjectIdentifier
	if !algo.ReadASN1ObjectIdentifier(&curveOID) || !algo.Empty() {
		return nil, makeError(ErrPubKeyMalformedPKIX, "malformed public key: "+
			"invalid named curve parameters")
	}
	if !curveOID.Equal(oidNamedCurveP256) {
		str := "unsupported public key curve: " + curveOID.String()
		return nil, makeError(ErrPubKeyUnsupportedCurve, str)
	}

	if bits.BitLength%8 != 0 {
		return nil, makeError(ErrPubKeyMalformedPKIX, "malformed public key: "+
			"subject public key is not a whole number of bytes")
	}
	return ParsePubKey(bits.Bytes)
}
