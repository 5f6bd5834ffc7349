// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package p256 implements ECDSA over the NIST P-256 (secp256r1, prime256v1)
elliptic curve in pure Go.

This package provides a constant-time implementation of the field, scalar and
point arithmetic for P-256 together with data structures and functions for
working with P-256 keys and ECDSA signatures.  See FIPS 186-4 and
https://www.secg.org/sec2-v2.pdf for details on the curve.

An overview of the features provided by this package are as follows:

  - Private key generation, serialization, and parsing
  - Public key derivation, serialization and parsing per ANSI X9.62-1998
  - Parses and serializes uncompressed and compressed public keys
  - DER encoded SubjectPublicKeyInfo (RFC 5480) public keys
  - DER encoded SEC 1 ECPrivateKey (RFC 5915) private keys
  - Multibase and did:key encoded public keys
  - JSON Web Key (RFC 7517) import and export with RFC 7638 thumbprints
  - Specialized types for performing constant time field operations
  - FieldVal type for working modulo the P-256 field prime
  - ModNScalar type for working modulo the P-256 group order
  - Elliptic curve operations in homogeneous projective coordinates with
    complete addition formulas
  - Scalar multiplication with a fixed 4-bit window, for arbitrary points and
    for the base point (group generator)
  - Point decompression from a given x coordinate
  - Nonce generation via RFC6979 with support for extra data
  - ECDH shared secrets with optional HKDF-SHA256 key derivation

This package also provides data structures and functions necessary to produce and
verify deterministic signatures in accordance with RFC6979 using the Elliptic
Curve Digital Signature Algorithm (ECDSA), as defined in FIPS 186-4, with
SHA-256 as the message hash.  Signatures may be serialized with the strict
Distinguished Encoding Rules (DER) of ISO/IEC 8825-1 or as raw 64-byte R || S
values.

Errors returned by this package are of type Error and carry both a specific
ErrorKind and the broad class it belongs to, such as ErrInvalidEncoding, so
either may be tested with errors.Is.

The ecckd sub package provides hierarchical deterministic key derivation for
P-256 per SLIP-0010, and cmd/p256 is a small command line tool built on both.
*/
package p256
