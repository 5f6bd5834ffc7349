package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ModChain/p256"
)

// parsePrivateKey accepts a multibase private key, a JWK, a 32-byte hex key,
// or a hex encoded SEC 1 DER structure.
func parsePrivateKey(s string) (*p256.PrivateKey, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "z"):
		return p256.ParsePrivateMultibase(s)
	case strings.HasPrefix(s, "{"):
		return p256.ParsePrivateJWK([]byte(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	if len(b) == p256.PrivKeyBytesLen {
		return p256.ParsePrivateKey(b)
	}
	return p256.ParseSEC1PrivateKey(b)
}

// parsePublicKey accepts a did:key, a multibase public key, a JWK, or a hex
// encoded SEC1 point or SubjectPublicKeyInfo.
func parsePublicKey(s string) (*p256.PublicKey, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "did:key:"):
		return p256.ParsePublicDIDKey(s)
	case strings.HasPrefix(s, "z"):
		return p256.ParsePublicMultibase(s)
	case strings.HasPrefix(s, "{"):
		return p256.ParsePublicJWK([]byte(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid public key: %w", err)
	}
	switch len(b) {
	case p256.PubKeyBytesLenCompressed, p256.PubKeyBytesLenUncompressed:
		return p256.ParsePubKey(b)
	}
	return p256.ParsePKIXPublicKey(b)
}

// parseSignature accepts a hex encoded raw or DER signature.  A 64-byte input
// is read as DER only when it is valid DER, since a raw R may start with the
// SEQUENCE tag.
func parseSignature(s string) (*p256.Signature, error) {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid signature: %w", err)
	}
	if len(b) != p256.RawSignatureLen {
		return p256.ParseDERSignature(b)
	}
	if sig, err := p256.ParseDERSignature(b); err == nil {
		return sig, nil
	}
	return p256.ParseRawSignature(b)
}

func encodePrivateKey(priv *p256.PrivateKey, encoding string) (string, error) {
	switch encoding {
	case "multibase":
		return priv.Multibase(), nil
	case "hex":
		return hex.EncodeToString(priv.Serialize()), nil
	case "jwk":
		b, err := priv.MarshalJWK()
		return string(b), err
	case "sec1":
		der, err := priv.MarshalSEC1()
		if err != nil {
			return "", err
		}
		return hex.EncodeToString(der), nil
	}
	return "", fmt.Errorf("unknown private key encoding %q", encoding)
}

func encodePublicKey(pub *p256.PublicKey, format string) (string, error) {
	switch format {
	case "multibase":
		return pub.Multibase(), nil
	case "did":
		return pub.DIDKey(), nil
	case "jwk":
		b, err := pub.MarshalJWK()
		return string(b), err
	}
	form, err := p256.ParsePublicKeyFormat(format)
	if err != nil {
		return "", err
	}
	b, err := p256.EncodePublicKey(pub, form)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
