// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	encasn1 "encoding/asn1"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

const ecPrivKeyVersion = 1

var (
	// Context specific tags of the optional ECPrivateKey fields.
	tagECParameters = cbasn1.Tag(0).Constructed().ContextSpecific()
	tagECPublicKey  = cbasn1.Tag(1).Constructed().ContextSpecific()
)

// MarshalSEC1 serializes the private key as a DER encoded SEC 1 ECPrivateKey
// structure per RFC 5915, including the named curve and the uncompressed
// public key:
//
//	ECPrivateKey ::= SEQUENCE {
//	  version        INTEGER { ecPrivkeyVer1(1) },
//	  privateKey     OCTET STRING,
//	  parameters [0] ECParameters {{ NamedCurve }} OPTIONAL,
//	  publicKey  [1] BIT STRING OPTIONAL }
func (p *PrivateKey) MarshalSEC1() ([]byte, error) {
	keyBytes := p.Key.Bytes()
	defer zeroArray32(&keyBytes)
	pub := p.PubKey().SerializeUncompressed()

	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Int64(ecPrivKeyVersion)
		b.AddASN1OctetString(keyBytes[:])
		b.AddASN1(tagECParameters, func(b *cryptobyte.Builder) {
			b.AddASN1ObjectIdentifier(oidNamedCurveP256)
		})
		b.AddASN1(tagECPublicKey, func(b *cryptobyte.Builder) {
			b.AddASN1BitString(pub)
		})
	})
	return b.Bytes()
}

// ParseSEC1PrivateKey parses a DER encoded SEC 1 ECPrivateKey structure for
// P-256.  The curve parameters may be omitted, but when present they must name
// P-256, and an embedded public key must match the private key.
func ParseSEC1PrivateKey(der []byte) (*PrivateKey, error) {
	malformed := func(desc string) error {
		return makeError(ErrPrivKeyMalformedDER, "malformed private key: "+desc)
	}

	input := cryptobyte.String(der)
	var seq, keyField cryptobyte.String
	var version int64
	if !input.ReadASN1(&seq, cbasn1.SEQUENCE) || !input.Empty() {
		return nil, malformed("invalid ECPrivateKey sequence")
	}
	if !seq.ReadASN1Integer(&version) || version != ecPrivKeyVersion {
		return nil, malformed("unsupported ECPrivateKey version")
	}
	if !seq.ReadASN1(&keyField, cbasn1.OCTET_STRING) {
		return nil, malformed("invalid private key octet string")
	}

	var params cryptobyte.String
	var hasParams bool
	if !seq.ReadOptionalASN1(&params, &hasParams, tagECParameters) {
		return nil, malformed("invalid curve parameters")
	}
	if hasParams {
		var curveOID encasn1.ObjectIdentifier
		if !params.ReadASN1ObjectIdentifier(&curveOID) || !params.Empty() {
			return nil, malformed("invalid named curve")
		}
		if !curveOID.Equal(oidNamedCurveP256) {
			str := "unsupported private key curve: " + curveOID.String()
			return nil, makeError(ErrPubKeyUnsupportedCurve, str)
		}
	}

	var pubField cryptobyte.String
	var hasPub bool
	if !seq.ReadOptionalASN1(&pubField, &hasPub, tagECPublicKey) ||
		!seq.Empty() {

		return nil, malformed("invalid public key field")
	}

	// Some encoders strip leading zeros from the private key, so restore the
	// fixed 32-byte width before the strict parse.
	if len(keyField) > PrivKeyBytesLen {
		return nil, malformed("private key is longer than 32 bytes")
	}
	var keyBytes [PrivKeyBytesLen]byte
	defer zeroArray32(&keyBytes)
	copy(keyBytes[PrivKeyBytesLen-len(keyField):], keyField)
	privKey, err := ParsePrivateKey(keyBytes[:])
	if err != nil {
		return nil, err
	}

	if hasPub {
		var bits encasn1.BitString
		if !pubField.ReadASN1BitString(&bits) || !pubField.Empty() ||
			bits.BitLength%8 != 0 {

			privKey.Zero()
			return nil, malformed("invalid public key bit string")
		}
		pubKey, err := ParsePubKey(bits.Bytes)
		if err != nil {
			privKey.Zero()
			return nil, err
		}
		if !pubKey.IsEqual(privKey.PubKey()) {
			privKey.Zero()
			return nil, makeError(ErrPrivKeyMismatchedPubKey, "invalid private "+
				"key: embedded public key does not match")
		}
	}
	return privKey, nil
}
