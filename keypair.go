// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	"io"
)

// KeyPair couples a private key with its public key.
type KeyPair struct {
	Private *PrivateKey
	Public  *PublicKey
}

// GenerateKeyPair generates a new key pair using the provided reader as a
// source of entropy, or crypto/rand.Reader when it is nil.  It fails with an
// error matching ErrInsufficientRandomness when the reader cannot supply the
// required bytes.
func GenerateKeyPair(rand io.Reader) (*KeyPair, error) {
	priv, err := GeneratePrivateKeyFromRand(rand)
	if err != nil {
		return nil, err
	}
	return &KeyPair{Private: priv, Public: priv.PubKey()}, nil
}

// NewKeyPair returns the key pair for an existing private key.
func NewKeyPair(priv *PrivateKey) *KeyPair {
	return &KeyPair{Private: priv, Public: priv.PubKey()}
}

// Zero clears the private half of the key pair.
func (kp *KeyPair) Zero() {
	if kp.Private != nil {
		kp.Private.Zero()
	}
}
