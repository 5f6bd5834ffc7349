// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"testing"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/stretchr/testify/require"
)

// rfc7517PrivJWK is the example P-256 private key from RFC 7517 appendix A.2.
const rfc7517PrivJWK = `{
	"kty": "EC",
	"crv": "P-256",
	"x": "MKBCTNIcKUSDii11ySs3526iDZ8AiTo7Tu6KPAqv7D4",
	"y": "4Etl6SRW2YiLUrN5vfvVHuhp7x8PxltmWWlbbM4IFyM",
	"d": "870MB6gfuTJ4HtUnUvYMyJpr5eUZNP4Bk43bVdj3eAE",
	"use": "enc",
	"kid": "1"
}`

// rfc7517PubJWK is the public part of rfc7517PrivJWK.
const rfc7517PubJWK = `{
	"kty": "EC",
	"crv": "P-256",
	"x": "MKBCTNIcKUSDii11ySs3526iDZ8AiTo7Tu6KPAqv7D4",
	"y": "4Etl6SRW2YiLUrN5vfvVHuhp7x8PxltmWWlbbM4IFyM",
	"use": "enc",
	"kid": "1"
}`

// TestParseJWK ensures the RFC 7517 example keys parse to the expected
// P-256 keys.
func TestParseJWK(t *testing.T) {
	wantPub := "0330a0424cd21c2944838a2d75c92b37e76ea20d9f00893a3b4eee8a3c0aafec3e"
	wantPriv := "f3bd0c07a81fb932781ed52752f60cc89a6be5e51934fe01938ddb55d8f77801"

	pub, err := ParsePublicJWK([]byte(rfc7517PubJWK))
	require.NoError(t, err)
	require.Equal(t, hexToBytes(wantPub), pub.SerializeCompressed())

	// The public part of a private JWK is accepted too.
	pub2, err := ParsePublicJWK([]byte(rfc7517PrivJWK))
	require.NoError(t, err)
	require.True(t, pub2.IsEqual(pub))

	priv, err := ParsePrivateJWK([]byte(rfc7517PrivJWK))
	require.NoError(t, err)
	require.Equal(t, hexToBytes(wantPriv), priv.Serialize())
	require.True(t, priv.PubKey().IsEqual(pub))

	thumb, err := pub.JWKThumbprint()
	require.NoError(t, err)
	require.Equal(t, "cn-I_WNMClehiVp51i_0VpOENW1upEerA8sEam5hn-s", thumb)
}

// TestJWKRoundTrip ensures generated keys survive a JWK encode and decode.
func TestJWKRoundTrip(t *testing.T) {
	priv, err := GeneratePrivateKey()
	require.NoError(t, err)
	pub := priv.PubKey()

	pubJSON, err := pub.MarshalJWK()
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(pubJSON, &fields))
	require.Equal(t, "EC", fields["kty"])
	require.Equal(t, "P-256", fields["crv"])
	require.NotContains(t, fields, "d")

	gotPub, err := ParsePublicJWK(pubJSON)
	require.NoError(t, err)
	require.True(t, gotPub.IsEqual(pub))

	privJSON, err := priv.MarshalJWK()
	require.NoError(t, err)
	gotPriv, err := ParsePrivateJWK(privJSON)
	require.NoError(t, err)
	require.True(t, gotPriv.Key.Equals(&priv.Key))

	_, err = ParsePrivateJWK(pubJSON)
	require.ErrorIs(t, err, ErrKeyInvalidJWK)
}

// TestParseJWKErrors ensures malformed and foreign keys are rejected.
func TestParseJWKErrors(t *testing.T) {
	_, err := ParsePublicJWK([]byte(`{"kty":`))
	require.ErrorIs(t, err, ErrKeyInvalidJWK)
	require.ErrorIs(t, err, ErrInvalidEncoding)

	_, err = ParsePublicJWK([]byte(`{"kty":"oct","k":"AyM1SysPpbyDfgZld3umj1qzKObwVMkoqQ-EstJQLr_T-1qS0gZH75aKtMN3Yj0iPS4hcgUuTwjAzZr1Z9CAow"}`))
	require.ErrorIs(t, err, ErrKeyInvalidJWK)

	p384, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	require.NoError(t, err)
	key, err := jwk.FromRaw(&p384.PublicKey)
	require.NoError(t, err)
	p384JSON, err := json.Marshal(key)
	require.NoError(t, err)
	_, err = ParsePublicJWK(p384JSON)
	require.ErrorIs(t, err, ErrPubKeyUnsupportedCurve)

	// The y coordinate of the RFC 7517 key with its last bit flipped is not
	// on the curve.
	offCurve := `{
		"kty": "EC",
		"crv": "P-256",
		"x": "MKBCTNIcKUSDii11ySs3526iDZ8AiTo7Tu6KPAqv7D4",
		"y": "4Etl6SRW2YiLUrN5vfvVHuhp7x8PxltmWWlbbM4IFyI"
	}`
	_, err = ParsePublicJWK([]byte(offCurve))
	require.Error(t, err)

	// A private JWK whose public coordinates belong to another key.
	other, err := GeneratePrivateKey()
	require.NoError(t, err)
	otherJSON, err := other.PubKey().MarshalJWK()
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(otherJSON, &fields))
	fields["d"] = "870MB6gfuTJ4HtUnUvYMyJpr5eUZNP4Bk43bVdj3eAE"
	mismatched, err := json.Marshal(fields)
	require.NoError(t, err)
	_, err = ParsePrivateJWK(mismatched)
	require.ErrorIs(t, err, ErrPrivKeyMismatchedPubKey)

	// The public parser must not hand back the other key's coordinates.
	_, err = ParsePublicJWK(mismatched)
	require.ErrorIs(t, err, ErrPrivKeyMismatchedPubKey)
}
