// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	"crypto"
	"crypto/ecdsa"
	"encoding/base64"
	"encoding/json"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
)

// JWK returns the public key as a JSON Web Key with kty "EC" and crv "P-256".
func (p *PublicKey) JWK() (jwk.Key, error) {
	key, err := jwk.FromRaw(p.ToECDSA())
	if err != nil {
		return nil, makeError(ErrKeyInvalidJWK, "unable to build JWK: "+
			err.Error())
	}
	return key, nil
}

// MarshalJWK returns the JSON encoding of the public key as a JSON Web Key.
func (p *PublicKey) MarshalJWK() ([]byte, error) {
	key, err := p.JWK()
	if err != nil {
		return nil, err
	}
	return json.Marshal(key)
}

// JWKThumbprint returns the unpadded base64url encoded RFC 7638 SHA-256
// thumbprint of the public key, suitable for use as a JWK key ID.
func (p *PublicKey) JWKThumbprint() (string, error) {
	key, err := p.JWK()
	if err != nil {
		return "", err
	}
	sum, err := key.Thumbprint(crypto.SHA256)
	if err != nil {
		return "", makeError(ErrKeyInvalidJWK, "unable to compute JWK "+
			"thumbprint: "+err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(sum), nil
}

// MarshalJWK returns the JSON encoding of the private key as a JSON Web Key,
// including the public coordinates.
func (p *PrivateKey) MarshalJWK() ([]byte, error) {
	key, err := jwk.FromRaw(p.ToECDSA())
	if err != nil {
		return nil, makeError(ErrKeyInvalidJWK, "unable to build JWK: "+
			err.Error())
	}
	return json.Marshal(key)
}

// parseP256JWK parses a JSON Web Key and ensures it is an EC key on P-256.
func parseP256JWK(data []byte) (jwk.Key, error) {
	key, err := jwk.ParseKey(data)
	if err != nil {
		return nil, makeError(ErrKeyInvalidJWK, "malformed JWK: "+err.Error())
	}
	if key.KeyType() != jwa.EC {
		str := "unsupported JWK key type " + key.KeyType().String()
		return nil, makeError(ErrKeyInvalidJWK, str)
	}
	var crv jwa.EllipticCurveAlgorithm
	switch k := key.(type) {
	case jwk.ECDSAPublicKey:
		crv = k.Crv()
	case jwk.ECDSAPrivateKey:
		crv = k.Crv()
	}
	if crv != jwa.P256 {
		str := "unsupported JWK curve " + crv.String()
		return nil, makeError(ErrPubKeyUnsupportedCurve, str)
	}
	return key, nil
}

// ParsePublicJWK parses the JSON encoding of a JSON Web Key holding a P-256
// public key.  The point is validated in the same way as ParsePubKey.  A
// private JWK is accepted when its public coordinates match its private
// scalar, and its public part is returned.
func ParsePublicJWK(data []byte) (*PublicKey, error) {
	key, err := parseP256JWK(data)
	if err != nil {
		return nil, err
	}
	if _, ok := key.(jwk.ECDSAPrivateKey); ok {
		priv, err := privateKeyFromJWK(key)
		if err != nil {
			return nil, err
		}
		defer priv.Zero()
		return priv.PubKey(), nil
	}

	var raw ecdsa.PublicKey
	if err := key.Raw(&raw); err != nil {
		return nil, makeError(ErrKeyInvalidJWK, "malformed JWK: "+err.Error())
	}
	return NewPublicKeyFromECDSA(&raw)
}

// ParsePrivateJWK parses the JSON encoding of a JSON Web Key holding a P-256
// private key.  The public coordinates must match the private scalar.
func ParsePrivateJWK(data []byte) (*PrivateKey, error) {
	key, err := parseP256JWK(data)
	if err != nil {
		return nil, err
	}
	if _, ok := key.(jwk.ECDSAPrivateKey); !ok {
		return nil, makeError(ErrKeyInvalidJWK, "JWK does not hold a "+
			"private key")
	}
	return privateKeyFromJWK(key)
}

// privateKeyFromJWK converts a parsed private JWK and ensures its public
// coordinates belong to its private scalar.
func privateKeyFromJWK(key jwk.Key) (*PrivateKey, error) {
	var raw ecdsa.PrivateKey
	if err := key.Raw(&raw); err != nil {
		return nil, makeError(ErrKeyInvalidJWK, "malformed JWK: "+err.Error())
	}
	priv, err := NewPrivateKeyFromECDSA(&raw)
	if err != nil {
		return nil, err
	}
	pub, err := NewPublicKeyFromECDSA(&raw.PublicKey)
	if err != nil {
		priv.Zero()
		return nil, err
	}
	if !pub.IsEqual(priv.PubKey()) {
		priv.Zero()
		return nil, makeError(ErrPrivKeyMismatchedPubKey, "JWK public "+
			"coordinates do not match the private key")
	}
	return priv, nil
}
