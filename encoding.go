// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	"fmt"
	"strings"
)

// PublicKeyFormat identifies a serialization format for public keys.
type PublicKeyFormat int

const (
	// FormatCompressed is the 33-byte SEC1 compressed point.
	FormatCompressed PublicKeyFormat = iota

	// FormatUncompressed is the 65-byte SEC1 uncompressed point.
	FormatUncompressed

	// FormatDER is a DER encoded SubjectPublicKeyInfo holding the
	// uncompressed point.
	FormatDER

	// FormatDERCompressed is a DER encoded SubjectPublicKeyInfo holding the
	// compressed point.
	FormatDERCompressed

	// numFormats is the number of defined formats.
	numFormats
)

// formatStrings maps each public key format to its name.
var formatStrings = [numFormats]string{
	FormatCompressed:    "compressed",
	FormatUncompressed:  "uncompressed",
	FormatDER:           "der",
	FormatDERCompressed: "der-compressed",
}

// String returns the name of the format.
func (f PublicKeyFormat) String() string {
	if f < 0 || f >= numFormats {
		return fmt.Sprintf("Unknown PublicKeyFormat (%d)", int(f))
	}
	return formatStrings[f]
}

// ParsePublicKeyFormat returns the format with the given case-insensitive
// name.
func ParsePublicKeyFormat(name string) (PublicKeyFormat, error) {
	for f, s := range formatStrings {
		if strings.EqualFold(s, name) {
			return PublicKeyFormat(f), nil
		}
	}
	str := fmt.Sprintf("unknown public key format %q", name)
	return 0, makeError(ErrUnknownKeyFormat, str)
}

// EncodePublicKey serializes the public key in the requested format.
func EncodePublicKey(pub *PublicKey, form PublicKeyFormat) ([]byte, error) {
	if err := pub.validate(); err != nil {
		return nil, err
	}
	switch form {
	case FormatCompressed:
		return pub.SerializeCompressed(), nil
	case FormatUncompressed:
		return pub.SerializeUncompressed(), nil
	case FormatDER:
		return pub.MarshalPKIX(false)
	case FormatDERCompressed:
		return pub.MarshalPKIX(true)
	}
	return nil, makeError(ErrUnknownKeyFormat, "unknown public key format "+
		form.String())
}

// DecodePublicKey parses a public key serialized in the given format.  Both
// DER formats accept either point encoding inside the SubjectPublicKeyInfo.
func DecodePublicKey(b []byte, form PublicKeyFormat) (*PublicKey, error) {
	switch form {
	case FormatCompressed:
		if len(b) != PubKeyBytesLenCompressed {
			str := fmt.Sprintf("malformed public key: invalid length for "+
				"compressed format: %d", len(b))
			return nil, makeError(ErrPubKeyInvalidLen, str)
		}
		return ParsePubKey(b)
	case FormatUncompressed:
		if len(b) != PubKeyBytesLenUncompressed {
			str := fmt.Sprintf("malformed public key: invalid length for "+
				"uncompressed format: %d", len(b))
			return nil, makeError(ErrPubKeyInvalidLen, str)
		}
		return ParsePubKey(b)
	case FormatDER, FormatDERCompressed:
		return ParsePKIXPublicKey(b)
	}
	return nil, makeError(ErrUnknownKeyFormat, "unknown public key format "+
		form.String())
}

// EncodeSignature serializes the signature with DER.
func EncodeSignature(sig *Signature) []byte {
	return sig.Serialize()
}

// DecodeSignature parses a DER encoded signature, rejecting non-minimal
// integers and values outside [1, N-1].
func DecodeSignature(der []byte) (*Signature, error) {
	return ParseDERSignature(der)
}
