// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	"bytes"
	"fmt"
	"hash"

	"github.com/minio/sha256-simd"
)

const (
	// maxNonceCandidates bounds the number of candidates drawn from a single
	// RFC 6979 stream.  Each candidate is rejected with probability around
	// 2^-32, so exhausting the bound signals a defect.
	maxNonceCandidates = 64
)

var (
	// singleZero is used during RFC6979 nonce generation.  It is provided
	// here to avoid the need to create it multiple times.
	singleZero = []byte{0x00}

	// zeroInitializer is used during RFC6979 nonce generation.  It is provided
	// here to avoid the need to create it multiple times.
	zeroInitializer = bytes.Repeat([]byte{0x00}, sha256.BlockSize)

	// singleOne is used during RFC6979 nonce generation.  It is provided
	// here to avoid the need to create it multiple times.
	singleOne = []byte{0x01}

	// oneInitializer is used during RFC6979 nonce generation.  It is provided
	// here to avoid the need to create it multiple times.
	oneInitializer = bytes.Repeat([]byte{0x01}, sha256.Size)
)

// hmacsha256 implements a resettable version of HMAC-SHA256.
type hmacsha256 struct {
	inner, outer hash.Hash
	ipad, opad   [sha256.BlockSize]byte
}

// Write adds data to the running hash.
func (h *hmacsha256) Write(p []byte) {
	h.inner.Write(p)
}

// initKey initializes the HMAC-SHA256 instance to the provided key.
func (h *hmacsha256) initKey(key []byte) {
	// Hash the key if it is too large.
	if len(key) > sha256.BlockSize {
		h.outer.Write(key)
		key = h.outer.Sum(nil)
	}
	copy(h.ipad[:], key)
	copy(h.opad[:], key)
	for i := range h.ipad {
		h.ipad[i] ^= 0x36
	}
	for i := range h.opad {
		h.opad[i] ^= 0x5c
	}
	h.inner.Write(h.ipad[:])
}

// ResetKey resets the HMAC-SHA256 to its initial state and then initializes it
// with the provided key.  It is equivalent to creating a new instance with the
// provided key without allocating more memory.
func (h *hmacsha256) ResetKey(key []byte) {
	h.inner.Reset()
	h.outer.Reset()
	copy(h.ipad[:], zeroInitializer)
	copy(h.opad[:], zeroInitializer)
	h.initKey(key)
}

// Reset resets the HMAC-SHA256 to its initial state using the current key.
func (h *hmacsha256) Reset() {
	h.inner.Reset()
	h.inner.Write(h.ipad[:])
}

// Sum returns the hash of the written data.
func (h *hmacsha256) Sum() []byte {
	h.outer.Reset()
	h.outer.Write(h.opad[:])
	h.outer.Write(h.inner.Sum(nil))
	return h.outer.Sum(nil)
}

// wipe clears the key material held by the hasher.
func (h *hmacsha256) wipe() {
	h.inner.Reset()
	h.outer.Reset()
	copy(h.ipad[:], zeroInitializer)
	copy(h.opad[:], zeroInitializer)
}

// newHMACSHA256 returns a new HMAC-SHA256 hasher using the provided key.
func newHMACSHA256(key []byte) *hmacsha256 {
	h := new(hmacsha256)
	h.inner = sha256.New()
	h.outer = sha256.New()
	h.initKey(key)
	return h
}

// nonceStream is the HMAC-SHA256 deterministic random bit generator of
// RFC 6979 section 3.2.  Every candidate it yields continues the same stream,
// so a caller that rejects a nonce simply asks for the next one.
type nonceStream struct {
	hasher    *hmacsha256
	v         []byte
	started   bool
	remaining int
}

// newNonceStream runs steps B through G of RFC 6979 section 3.2 for the
// 32-byte private key and the message digest.  The optional extra data is only
// used when it is exactly 32 bytes, per section 3.6.
func newNonceStream(privKey *[32]byte, hash []byte, extra []byte) *nonceStream {
	// bits2octets(h1): keep the leftmost 256 bits of the digest and reduce the
	// result modulo the group order.
	e := hashToModNScalar(hash)
	eBytes := e.Bytes()

	const (
		privKeyLen = 32
		hashLen    = 32
		extraLen   = 32
	)
	var keyBuf [privKeyLen + hashLen + extraLen]byte
	offset := copy(keyBuf[:], privKey[:])
	offset += copy(keyBuf[offset:], eBytes[:])
	if len(extra) == extraLen {
		offset += copy(keyBuf[offset:], extra)
	}
	key := keyBuf[:offset]
	defer func() {
		for i := range keyBuf {
			keyBuf[i] = 0
		}
		zeroArray32(&eBytes)
	}()

	// Step B.
	//
	// V = 0x01 0x01 0x01 ... 0x01
	v := oneInitializer

	// Step C.
	//
	// K = 0x00 0x00 0x00 ... 0x00
	k := zeroInitializer[:hashLen]

	// Step D.
	//
	// K = HMAC_K(V || 0x00 || int2octets(x) || bits2octets(h1))
	hasher := newHMACSHA256(k)
	hasher.Write(v)
	hasher.Write(singleZero)
	hasher.Write(key)
	k = hasher.Sum()

	// Step E.
	//
	// V = HMAC_K(V)
	hasher.ResetKey(k)
	hasher.Write(v)
	v = hasher.Sum()

	// Step F.
	//
	// K = HMAC_K(V || 0x01 || int2octets(x) || bits2octets(h1))
	hasher.Reset()
	hasher.Write(v)
	hasher.Write(singleOne)
	hasher.Write(key)
	k = hasher.Sum()

	// Step G.
	//
	// V = HMAC_K(V)
	hasher.ResetKey(k)
	hasher.Write(v)
	v = hasher.Sum()

	return &nonceStream{
		hasher:    hasher,
		v:         v,
		remaining: maxNonceCandidates,
	}
}

// next returns the next nonce in [1, N-1] from the stream.  It fails with
// ErrNonceExhausted once the candidate bound is reached.
func (ns *nonceStream) next() (*ModNScalar, error) {
	for ns.remaining > 0 {
		// A previous candidate was either rejected here or by the caller,
		// so continue the stream per step H3:
		//
		// K = HMAC_K(V || 0x00)
		// V = HMAC_K(V)
		if ns.started {
			ns.hasher.Reset()
			ns.hasher.Write(ns.v)
			ns.hasher.Write(singleZero)
			k := ns.hasher.Sum()
			ns.hasher.ResetKey(k)
			ns.hasher.Write(ns.v)
			ns.v = ns.hasher.Sum()
		}
		ns.started = true
		ns.remaining--

		// Step H1 and H2.
		//
		// The output of HMAC-SHA256 is as long as the group order, so a
		// single V = HMAC_K(V) fills T.
		ns.hasher.Reset()
		ns.hasher.Write(ns.v)
		ns.v = ns.hasher.Sum()

		// Step H3.
		//
		// k = bits2int(T), returned when within [1, N-1].
		var secret ModNScalar
		overflow := secret.SetByteSlice(ns.v)
		if !overflow && !secret.IsZero() {
			return &secret, nil
		}
	}

	str := fmt.Sprintf("no valid nonce within %d candidates",
		maxNonceCandidates)
	return nil, makeError(ErrNonceExhausted, str)
}

// wipe clears the generator state.
func (ns *nonceStream) wipe() {
	ns.hasher.wipe()
	copy(ns.v, zeroInitializer)
}

// NonceRFC6979 generates a nonce deterministically according to RFC 6979 using
// HMAC-SHA256 for the hashing function.  It takes the 32-byte private key and
// a message digest, which is converted with bits2octets, and returns a nonce
// in [1, N-1].  The extra argument is optional additional data per section 3.6
// of the RFC and is only used when it is exactly 32 bytes.
//
// The extraIterations parameter skips that many valid nonces of the stream,
// which yields the nonce a signer would use after rejecting the earlier ones.
// Signing code should start with 0.
func NonceRFC6979(privKey []byte, hash []byte, extra []byte, extraIterations uint32) (*ModNScalar, error) {
	// Truncate rightmost bytes of the private key if it is too long and leave
	// left padding of zeros when it is too short.
	var keyBytes [32]byte
	defer zeroArray32(&keyBytes)
	if len(privKey) > len(keyBytes) {
		privKey = privKey[:len(keyBytes)]
	}
	copy(keyBytes[len(keyBytes)-len(privKey):], privKey)

	stream := newNonceStream(&keyBytes, hash, extra)
	defer stream.wipe()
	for i := uint32(0); ; i++ {
		k, err := stream.next()
		if err != nil {
			return nil, err
		}
		if i == extraIterations {
			return k, nil
		}
		k.Zero()
	}
}
