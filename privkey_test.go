// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// rfcPrivKey is the private key of the RFC 6979 appendix A.2.5 P-256 test key.
const rfcPrivKey = "c9afa9d845ba75166b5c215767b1d6934e50c3db36e89b127b8a622b120f6721"

// TestParsePrivateKey ensures private keys are parsed strictly.
func TestParsePrivateKey(t *testing.T) {
	tests := []struct {
		name  string    // test description
		key   string    // hex encoded private key
		err   error     // expected error
		class ErrorKind // expected error class
	}{{
		name: "rfc6979 key",
		key:  rfcPrivKey,
	}, {
		name: "one",
		key:  "0000000000000000000000000000000000000000000000000000000000000001",
	}, {
		name: "group order - 1",
		key:  "ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632550",
	}, {
		name:  "zero",
		key:   "0000000000000000000000000000000000000000000000000000000000000000",
		err:   ErrPrivKeyIsZero,
		class: ErrOutOfRange,
	}, {
		name:  "group order",
		key:   "ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551",
		err:   ErrPrivKeyTooBig,
		class: ErrOutOfRange,
	}, {
		name:  "2^256 - 1",
		key:   "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
		err:   ErrPrivKeyTooBig,
		class: ErrOutOfRange,
	}, {
		name:  "short",
		key:   "01",
		err:   ErrPrivKeyInvalidLen,
		class: ErrInvalidEncoding,
	}, {
		name:  "long",
		key:   "00" + rfcPrivKey,
		err:   ErrPrivKeyInvalidLen,
		class: ErrInvalidEncoding,
	}}

	for _, test := range tests {
		privKey, err := ParsePrivateKey(hexToBytes(test.key))
		if !errors.Is(err, test.err) {
			t.Errorf("%s: mismatched err -- got %v, want %v", test.name, err,
				test.err)
			continue
		}
		if err != nil {
			if !errors.Is(err, test.class) {
				t.Errorf("%s: error %v not in class %v", test.name, err,
					test.class)
			}
			continue
		}
		if !bytes.Equal(privKey.Serialize(), hexToBytes(test.key)) {
			t.Errorf("%s: mismatched serialization %x", test.name,
				privKey.Serialize())
		}
	}
}

// TestPrivKeyPubKey ensures the public key of the RFC 6979 key.
func TestPrivKeyPubKey(t *testing.T) {
	privKey, err := ParsePrivateKey(hexToBytes(rfcPrivKey))
	require.NoError(t, err)

	pubKey := privKey.PubKey()
	require.Equal(t, rfcPubKeyX, pubKey.x.String())
	require.Equal(t, rfcPubKeyY, pubKey.y.String())
	derived, err := DerivePublicKey(privKey)
	require.NoError(t, err)
	require.True(t, derived.IsEqual(pubKey))
}

// TestZeroPrivKeyPubKey ensures a cleared private key never yields an
// encodable public key.
func TestZeroPrivKeyPubKey(t *testing.T) {
	privKey, err := ParsePrivateKey(hexToBytes(rfcPrivKey))
	require.NoError(t, err)
	privKey.Zero()

	_, err = DerivePublicKey(privKey)
	require.ErrorIs(t, err, ErrPrivKeyIsZero)
	require.ErrorIs(t, err, ErrOutOfRange)

	// The unchecked path gives the point at infinity in affine form, which
	// every encoder must refuse.
	pubKey := privKey.PubKey()
	require.False(t, pubKey.IsOnCurve())
	for _, form := range []PublicKeyFormat{FormatCompressed,
		FormatUncompressed, FormatDER, FormatDERCompressed} {

		_, err := EncodePublicKey(pubKey, form)
		require.ErrorIs(t, err, ErrPubKeyNotOnCurve, form.String())
	}
	_, err = pubKey.MarshalPKIX(false)
	require.ErrorIs(t, err, ErrInvalidPoint)
}

// TestGeneratePrivateKey ensures generated keys are valid and distinct.
func TestGeneratePrivateKey(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 8; i++ {
		privKey, err := GeneratePrivateKey()
		require.NoError(t, err)
		require.False(t, privKey.Key.IsZero())

		_, err = ParsePrivateKey(privKey.Serialize())
		require.NoError(t, err)
		require.True(t, privKey.PubKey().IsOnCurve())

		seen[string(privKey.Serialize())] = struct{}{}
	}
	require.Len(t, seen, 8)

	privKey, err := GeneratePrivateKeyFromRand(nil)
	require.NoError(t, err)
	require.False(t, privKey.Key.IsZero())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy source offline")
}

// TestGeneratePrivateKeyFromRand ensures out of range draws are discarded and
// failures of the randomness source are reported.
func TestGeneratePrivateKeyFromRand(t *testing.T) {
	zeroKey := make([]byte, 32)
	overOrder := bytes.Repeat([]byte{0xff}, 32)
	validKey := hexToBytes(rfcPrivKey)

	var src []byte
	src = append(src, zeroKey...)
	src = append(src, overOrder...)
	src = append(src, validKey...)
	privKey, err := GeneratePrivateKeyFromRand(bytes.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, validKey, privKey.Serialize())

	_, err = GeneratePrivateKeyFromRand(failingReader{})
	require.ErrorIs(t, err, ErrRandomSourceFailed)
	require.ErrorIs(t, err, ErrInsufficientRandomness)

	_, err = GeneratePrivateKeyFromRand(bytes.NewReader(validKey[:16]))
	require.ErrorIs(t, err, ErrRandomSourceFailed)

	allOnes := bytes.Repeat([]byte{0xff}, 32*maxKeyGenAttempts+32)
	_, err = GeneratePrivateKeyFromRand(bytes.NewReader(allOnes))
	require.ErrorIs(t, err, ErrRandomSourceExhausted)
	require.ErrorIs(t, err, ErrInsufficientRandomness)

	_, err = GeneratePrivateKeyFromRand(io.MultiReader(bytes.NewReader(zeroKey),
		failingReader{}))
	require.ErrorIs(t, err, ErrRandomSourceFailed)
}

// TestPrivKeyZero ensures that zeroing a private key clears the memory
// associated with it.
func TestPrivKeyZero(t *testing.T) {
	privKey, err := GeneratePrivateKey()
	require.NoError(t, err)
	require.False(t, privKey.Key.IsZero())

	privKey.Zero()
	require.True(t, privKey.Key.IsZero())
}

// TestPrivKeyECDSA ensures conversion to and from the standard library types.
func TestPrivKeyECDSA(t *testing.T) {
	privKey, err := ParsePrivateKey(hexToBytes(rfcPrivKey))
	require.NoError(t, err)

	stdKey := privKey.ToECDSA()
	require.Equal(t, elliptic.P256(), stdKey.Curve)
	require.Equal(t, rfcPrivKey, stdKey.D.Text(16))

	back, err := NewPrivateKeyFromECDSA(stdKey)
	require.NoError(t, err)
	require.True(t, back.Key.Equals(&privKey.Key))

	generated, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	converted, err := NewPrivateKeyFromECDSA(generated)
	require.NoError(t, err)
	require.Zero(t, converted.PubKey().X().Cmp(generated.X))

	p384Key, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	require.NoError(t, err)
	_, err = NewPrivateKeyFromECDSA(p384Key)
	require.ErrorIs(t, err, ErrPubKeyUnsupportedCurve)
}

// TestKeyPair ensures key pairs hold matching halves.
func TestKeyPair(t *testing.T) {
	kp, err := GenerateKeyPair(nil)
	require.NoError(t, err)
	require.True(t, kp.Private.PubKey().IsEqual(kp.Public))

	privKey, err := ParsePrivateKey(hexToBytes(rfcPrivKey))
	require.NoError(t, err)
	kp = NewKeyPair(privKey)
	require.Equal(t, rfcPubKeyX, kp.Public.x.String())

	kp.Zero()
	require.True(t, privKey.Key.IsZero())

	_, err = GenerateKeyPair(failingReader{})
	require.ErrorIs(t, err, ErrInsufficientRandomness)
}
