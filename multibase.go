// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

const (
	// multibaseBase58BTC is the multibase prefix for base58btc.
	multibaseBase58BTC = "z"

	// didKeyPrefix is the scheme and method prefix of did:key identifiers.
	didKeyPrefix = "did:key:"
)

var (
	// multicodecP256Pub is the varint encoded multicodec p256-pub (0x1200).
	multicodecP256Pub = []byte{0x80, 0x24}

	// multicodecP256Priv is the varint encoded multicodec p256-priv (0x1306).
	multicodecP256Priv = []byte{0x86, 0x26}
)

// Multibase returns the multibase string encoding of the public key: the
// p256-pub multicodec followed by the compressed point, base58btc encoded and
// prefixed with "z".
func (p *PublicKey) Multibase() string {
	kbytes := append(append([]byte{}, multicodecP256Pub...),
		p.SerializeCompressed()...)
	return multibaseBase58BTC + base58.Encode(kbytes)
}

// DIDKey returns the did:key identifier of the public key.
func (p *PublicKey) DIDKey() string {
	return didKeyPrefix + p.Multibase()
}

// ParsePublicMultibase parses a public key from its multibase string encoding
// as produced by Multibase.
func ParsePublicMultibase(encoded string) (*PublicKey, error) {
	kbytes, err := decodeMultibase(encoded, multicodecP256Pub)
	if err != nil {
		return nil, err
	}
	return ParsePubKey(kbytes)
}

// ParsePublicDIDKey parses a public key from a did:key identifier.
func ParsePublicDIDKey(didKey string) (*PublicKey, error) {
	if !strings.HasPrefix(didKey, didKeyPrefix) {
		str := fmt.Sprintf("invalid did:key: missing %q prefix", didKeyPrefix)
		return nil, makeError(ErrPubKeyInvalidMultibase, str)
	}
	return ParsePublicMultibase(strings.TrimPrefix(didKey, didKeyPrefix))
}

// Multibase returns the multibase string encoding of the private key with the
// p256-priv multicodec.  The result is secret key material.
func (p *PrivateKey) Multibase() string {
	keyBytes := p.Key.Bytes()
	defer zeroArray32(&keyBytes)
	kbytes := append(append([]byte{}, multicodecP256Priv...), keyBytes[:]...)
	return multibaseBase58BTC + base58.Encode(kbytes)
}

// ParsePrivateMultibase parses a private key from its multibase string
// encoding as produced by PrivateKey.Multibase.
func ParsePrivateMultibase(encoded string) (*PrivateKey, error) {
	kbytes, err := decodeMultibase(encoded, multicodecP256Priv)
	if err != nil {
		return nil, err
	}
	return ParsePrivateKey(kbytes)
}

// decodeMultibase decodes a base58btc multibase string and strips the expected
// multicodec prefix.
func decodeMultibase(encoded string, codec []byte) ([]byte, error) {
	if !strings.HasPrefix(encoded, multibaseBase58BTC) {
		return nil, makeError(ErrPubKeyInvalidMultibase, "invalid multibase: "+
			"only base58btc ('z') is supported")
	}
	data, err := base58.Decode(encoded[len(multibaseBase58BTC):])
	if err != nil {
		str := fmt.Sprintf("invalid multibase: %v", err)
		return nil, makeError(ErrPubKeyInvalidMultibase, str)
	}
	if !bytes.HasPrefix(data, codec) {
		return nil, makeError(ErrPubKeyInvalidMultibase, "invalid multibase: "+
			"not a P-256 multicodec")
	}
	return data[len(codec):], nil
}
