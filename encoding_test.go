// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	"testing"

	"github.com/minio/sha256-simd"
	"github.com/stretchr/testify/require"
)

// TestPublicKeyFormats ensures every format round trips and that the decoder
// enforces the length of the requested format.
func TestPublicKeyFormats(t *testing.T) {
	pubKey := rfcPrivateKey(t).PubKey()

	wantLens := map[PublicKeyFormat]int{
		FormatCompressed:    PubKeyBytesLenCompressed,
		FormatUncompressed:  PubKeyBytesLenUncompressed,
		FormatDER:           91,
		FormatDERCompressed: 59,
	}
	for form, wantLen := range wantLens {
		encoded, err := EncodePublicKey(pubKey, form)
		require.NoError(t, err, form.String())
		require.Len(t, encoded, wantLen, form.String())

		decoded, err := DecodePublicKey(encoded, form)
		require.NoError(t, err, form.String())
		require.True(t, decoded.IsEqual(pubKey), form.String())

		parsedForm, err := ParsePublicKeyFormat(form.String())
		require.NoError(t, err)
		require.Equal(t, form, parsedForm)
	}

	_, err := DecodePublicKey(pubKey.SerializeUncompressed(), FormatCompressed)
	require.ErrorIs(t, err, ErrPubKeyInvalidLen)
	_, err = DecodePublicKey(pubKey.SerializeCompressed(), FormatUncompressed)
	require.ErrorIs(t, err, ErrPubKeyInvalidLen)
	_, err = DecodePublicKey(pubKey.SerializeCompressed(), FormatDER)
	require.ErrorIs(t, err, ErrPubKeyMalformedPKIX)

	_, err = EncodePublicKey(pubKey, numFormats)
	require.ErrorIs(t, err, ErrUnknownKeyFormat)
	_, err = DecodePublicKey(nil, PublicKeyFormat(-1))
	require.ErrorIs(t, err, ErrUnknownKeyFormat)
}

// TestParsePublicKeyFormat ensures format names are case insensitive and
// unknown names are rejected.
func TestParsePublicKeyFormat(t *testing.T) {
	form, err := ParsePublicKeyFormat("DER-Compressed")
	require.NoError(t, err)
	require.Equal(t, FormatDERCompressed, form)

	_, err = ParsePublicKeyFormat("pem")
	require.ErrorIs(t, err, ErrUnknownKeyFormat)
	require.ErrorIs(t, err, ErrInvalidEncoding)

	require.Equal(t, "Unknown PublicKeyFormat (4)", numFormats.String())
}

// TestSignatureEncoding ensures the signature encoding helpers use DER.
func TestSignatureEncoding(t *testing.T) {
	privKey := rfcPrivateKey(t)
	hash := sha256.Sum256([]byte("sample"))
	sig, err := Sign(privKey, hash[:])
	require.NoError(t, err)

	encoded := EncodeSignature(sig)
	require.Equal(t, sig.Serialize(), encoded)

	decoded, err := DecodeSignature(encoded)
	require.NoError(t, err)
	require.True(t, decoded.IsEqual(sig))

	_, err = DecodeSignature(sig.SerializeRaw())
	require.ErrorIs(t, err, ErrInvalidEncoding)
}
