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
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/minio/sha256-simd"
	"github.com/stretchr/testify/require"
)

// rfcPrivateKey returns the RFC 6979 appendix A.2.5 P-256 test key.
func rfcPrivateKey(t *testing.T) *PrivateKey {
	t.Helper()
	privKey, err := ParsePrivateKey(hexToBytes(rfcPrivKey))
	require.NoError(t, err)
	return privKey
}

// TestSignRFC6979Vectors ensures the signatures and nonces of RFC 6979
// appendix A.2.5 for P-256 with SHA-256.
func TestSignRFC6979Vectors(t *testing.T) {
	tests := []struct {
		msg   string
		nonce string
		r     string
		s     string
	}{{
		msg:   "sample",
		nonce: "a6e3c57dd01abe90086538398355dd4c3b17aa873382b0f24d6129493d8aad60",
		r:     "efd48b2aacb6a8fd1140dd9cd45e81d69d2c877b56aaf991c34d0ea84eaf3716",
		s:     "f7cb1c942d657c41d436c7a1b6e29f65f3e900dbb9aff4064dc4ab2f843acda8",
	}, {
		msg:   "test",
		nonce: "d16b6ae827f17175e040871a1c7ec3500192c4c92677336ec2537acaee0008e0",
		r:     "f1abb023518351cd71d881567b1ea663ed3efcf6c5132b354f28d3b0b7d38367",
		s:     "019f4113742a2b14bd25926b49c649155f267e60d3814b4c0cc84250e46f0083",
	}}

	privKey := rfcPrivateKey(t)
	pubKey := privKey.PubKey()
	for _, test := range tests {
		hash := sha256.Sum256([]byte(test.msg))

		nonce, err := NonceRFC6979(privKey.Serialize(), hash[:], nil, 0)
		require.NoError(t, err, test.msg)
		require.Equal(t, test.nonce, nonce.String(), test.msg)

		sig, err := Sign(privKey, hash[:])
		require.NoError(t, err, test.msg)
		r, s := sig.R(), sig.S()
		require.Equal(t, test.r, r.String(), test.msg)
		require.Equal(t, test.s, s.String(), test.msg)
		require.True(t, sig.Verify(hash[:], pubKey), test.msg)

		msgSig, err := SignMessage(privKey, []byte(test.msg))
		require.NoError(t, err)
		require.True(t, msgSig.IsEqual(sig), spew.Sdump(msgSig))
		require.True(t, VerifyMessage(pubKey, []byte(test.msg), msgSig))
	}
}

// TestNonceRFC6979 ensures the nonce generator handles skipped iterations,
// extra data, and digests of unusual lengths.
func TestNonceRFC6979(t *testing.T) {
	hash := sha256.Sum256([]byte("sample"))
	key := hexToBytes(rfcPrivKey)

	tests := []struct {
		name       string
		key        []byte
		hash       []byte
		extra      []byte
		iterations uint32
		want       string
	}{{
		name: "rfc6979 sample",
		key:  key,
		hash: hash[:],
		want: "a6e3c57dd01abe90086538398355dd4c3b17aa873382b0f24d6129493d8aad60",
	}, {
		name:       "second nonce of the stream",
		key:        key,
		hash:       hash[:],
		iterations: 1,
		want:       "8e83dc490bc5fc4d5992bd63cd87f254adffcb930f8a8011702a88870f638fdb",
	}, {
		name:  "32 bytes of extra data",
		key:   key,
		hash:  hash[:],
		extra: hexToBytes("000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"),
		want:  "e7eb519fdfdf2373299ac1322cff7b26e78d5041e24740b2e2ecd18d01b56ebf",
	}, {
		name:  "extra data of another length is ignored",
		key:   key,
		hash:  hash[:],
		extra: []byte{0x01, 0x02},
		want:  "a6e3c57dd01abe90086538398355dd4c3b17aa873382b0f24d6129493d8aad60",
	}, {
		name: "long key keeps the leftmost 32 bytes",
		key:  append(append([]byte{}, key...), 0xaa),
		hash: hash[:],
		want: "a6e3c57dd01abe90086538398355dd4c3b17aa873382b0f24d6129493d8aad60",
	}, {
		name: "digest longer than 32 bytes keeps the leftmost bits",
		key:  key,
		hash: append(append([]byte{}, hash[:]...), 0xff, 0xee),
		want: "a6e3c57dd01abe90086538398355dd4c3b17aa873382b0f24d6129493d8aad60",
	}}

	for _, test := range tests {
		nonce, err := NonceRFC6979(test.key, test.hash, test.extra, test.iterations)
		require.NoError(t, err, test.name)
		require.Equal(t, test.want, nonce.String(), test.name)
	}

	// Leading zero bytes of the key do not change the nonce.
	one := make([]byte, 32)
	one[31] = 0x01
	a, err := NonceRFC6979(one, hash[:], nil, 0)
	require.NoError(t, err)
	b, err := NonceRFC6979([]byte{0x01}, hash[:], nil, 0)
	require.NoError(t, err)
	require.True(t, a.Equals(b))
}

// TestNonceStreamExhausted ensures the stream stops after the candidate
// bound.
func TestNonceStreamExhausted(t *testing.T) {
	var key [32]byte
	key[31] = 0x01
	hash := sha256.Sum256([]byte("exhaust"))

	stream := newNonceStream(&key, hash[:], nil)
	defer stream.wipe()

	seen := make(map[string]struct{})
	for i := 0; i < maxNonceCandidates; i++ {
		k, err := stream.next()
		require.NoError(t, err)
		seen[k.String()] = struct{}{}
	}
	require.Len(t, seen, maxNonceCandidates)

	_, err := stream.next()
	require.ErrorIs(t, err, ErrNonceExhausted)
	require.ErrorIs(t, err, ErrSigningFailed)
}

// TestSignDeterministic ensures signing is deterministic and that extra data
// changes the nonce.
func TestSignDeterministic(t *testing.T) {
	privKey := rfcPrivateKey(t)
	hash := sha256.Sum256([]byte("sample"))

	sig1, err := Sign(privKey, hash[:])
	require.NoError(t, err)
	sig2, err := Sign(privKey, hash[:])
	require.NoError(t, err)
	require.Equal(t, sig1.Serialize(), sig2.Serialize())

	extra := hexToBytes("000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	sig3, err := SignWithExtraData(privKey, hash[:], extra)
	require.NoError(t, err)
	r, s := sig3.R(), sig3.S()
	require.Equal(t, "25404cfdb1228f680881e195dae0665f43f988c40cbc4e23927810d7c4635d74", r.String())
	require.Equal(t, "8f076e7b9ea4bde92fb16b5cf25d0d3656db01a6e19c885b53cb8754f1b819c3", s.String())
	require.False(t, sig3.IsEqual(sig1))
	require.True(t, sig3.Verify(hash[:], privKey.PubKey()))

	sig4, err := SignWithExtraData(privKey, hash[:], extra[:31])
	require.NoError(t, err)
	require.True(t, sig4.IsEqual(sig1))
}

// TestSignMessageEdges ensures empty and large messages sign and verify.
func TestSignMessageEdges(t *testing.T) {
	privKey := rfcPrivateKey(t)
	pubKey := privKey.PubKey()

	sig, err := SignMessage(privKey, nil)
	require.NoError(t, err)
	r, s := sig.R(), sig.S()
	require.Equal(t, "0338197042a13192bec427db63c8d2dece6a08dbcc3d5181a9983e62032b0230", r.String())
	require.Equal(t, "98feda6c583d409233023308d3848aa21b64381d85ee6e1c090a5d11fb7be0c7", s.String())
	require.True(t, VerifyMessage(pubKey, []byte{}, sig))

	large := bytes.Repeat([]byte{0xa5}, 1<<20)
	sig, err = SignMessage(privKey, large)
	require.NoError(t, err)
	require.True(t, VerifyMessage(pubKey, large, sig))
	large[len(large)/2] ^= 0x01
	require.False(t, VerifyMessage(pubKey, large, sig))

	// Digests longer than 32 bytes are truncated to the leftmost 256 bits.
	long := hexToBytes("39a5e04aaff7455d9850c605364f514c11324ce64016960d23d5dc57d3ffd8f4" +
		"9a739468ab8049bf18eef820cdb1ad6c9015f838556bc7fad4138b23fdf986c7")
	sig, err = Sign(privKey, long)
	require.NoError(t, err)
	r, s = sig.R(), sig.S()
	require.Equal(t, "962705d612647b04822c6060f31270f4b4cd703f6ba8fc1308c2a562ee600fc0", r.String())
	require.Equal(t, "af713dc0b1a1423422198a0edbce3b096f25c8e47d80988880ff472e579ab61f", s.String())
	require.True(t, sig.Verify(long[:32], pubKey))
}

// TestSignZeroKey ensures a zero private key is rejected.
func TestSignZeroKey(t *testing.T) {
	hash := sha256.Sum256([]byte("sample"))
	_, err := Sign(NewPrivateKey(new(ModNScalar)), hash[:])
	require.ErrorIs(t, err, ErrPrivKeyIsZero)

	_, err = Sign(nil, hash[:])
	require.ErrorIs(t, err, ErrPrivKeyIsZero)
}

// TestVerifyRejects ensures tampered signatures, messages, and keys fail
// verification without panicking.
func TestVerifyRejects(t *testing.T) {
	privKey := rfcPrivateKey(t)
	pubKey := privKey.PubKey()
	hash := sha256.Sum256([]byte("sample"))
	sig, err := Sign(privKey, hash[:])
	require.NoError(t, err)
	require.True(t, sig.Verify(hash[:], pubKey))

	// Tampered hash.
	badHash := hash
	badHash[0] ^= 0x01
	require.False(t, sig.Verify(badHash[:], pubKey))

	// Another key.
	other, err := GeneratePrivateKey()
	require.NoError(t, err)
	require.False(t, sig.Verify(hash[:], other.PubKey()))

	// Swapped R and S.
	r, s := sig.R(), sig.S()
	require.False(t, NewSignature(&s, &r).Verify(hash[:], pubKey))

	// Tampered R and S.
	one := new(ModNScalar).SetInt(1)
	badR := r
	badR.Add(one)
	require.False(t, NewSignature(&badR, &s).Verify(hash[:], pubKey))
	badS := s
	badS.Add(one)
	require.False(t, NewSignature(&r, &badS).Verify(hash[:], pubKey))

	// Zero values.
	var zero ModNScalar
	require.False(t, NewSignature(&zero, &s).Verify(hash[:], pubKey))
	require.False(t, NewSignature(&r, &zero).Verify(hash[:], pubKey))

	// Nil inputs and a key that is not on the curve.
	var nilSig *Signature
	require.False(t, nilSig.Verify(hash[:], pubKey))
	require.False(t, sig.Verify(hash[:], nil))
	offCurve := *pubKey
	offCurve.y.Add(new(FieldVal).SetInt(1))
	require.False(t, sig.Verify(hash[:], &offCurve))
}

// TestVerifyBitFlips ensures flipping any single bit of R or S yields a
// signature that is either rejected by the parser or fails verification.
func TestVerifyBitFlips(t *testing.T) {
	privKey := rfcPrivateKey(t)
	pubKey := privKey.PubKey()
	hash := sha256.Sum256([]byte("sample"))
	sig, err := Sign(privKey, hash[:])
	require.NoError(t, err)
	raw := sig.SerializeRaw()

	step := 1
	if testing.Short() {
		step = 7
	}
	for bit := 0; bit < RawSignatureLen*8; bit += step {
		tampered := append([]byte{}, raw...)
		tampered[bit/8] ^= 1 << (7 - uint(bit%8))

		badSig, err := ParseRawSignature(tampered)
		if err != nil {
			continue
		}
		if badSig.Verify(hash[:], pubKey) {
			t.Fatalf("signature with bit %d flipped verified", bit)
		}
	}
}

// TestSignMultipleMessages ensures each of several messages signed by one key
// verifies only under its own signature.
func TestSignMultipleMessages(t *testing.T) {
	privKey := rfcPrivateKey(t)
	pubKey := privKey.PubKey()
	msgs := [][]byte{
		[]byte("message 0"),
		[]byte("message 1"),
		[]byte("message 2"),
		[]byte("message 3"),
		[]byte("message 4"),
	}

	sigs := make([]*Signature, len(msgs))
	for i, msg := range msgs {
		sig, err := SignMessage(privKey, msg)
		require.NoError(t, err)
		sigs[i] = sig
	}
	for i, msg := range msgs {
		for j, sig := range sigs {
			got := VerifyMessage(pubKey, msg, sig)
			if got != (i == j) {
				t.Errorf("message %d with signature %d: verify = %v", i, j,
					got)
			}
		}
	}
}

// TestSignatureNormalize ensures the low-S form.
func TestSignatureNormalize(t *testing.T) {
	privKey := rfcPrivateKey(t)
	hash := sha256.Sum256([]byte("sample"))
	sig, err := Sign(privKey, hash[:])
	require.NoError(t, err)

	// The RFC 6979 "sample" signature has a high S.
	require.False(t, sig.IsLowS())
	normalized := sig.Normalize()
	require.True(t, normalized.IsLowS())
	require.False(t, normalized.IsEqual(sig))
	require.True(t, normalized.Verify(hash[:], privKey.PubKey()))
	require.True(t, normalized.Normalize().IsEqual(normalized))

	// The "test" signature already has a low S.
	hash = sha256.Sum256([]byte("test"))
	sig, err = Sign(privKey, hash[:])
	require.NoError(t, err)
	require.True(t, sig.IsLowS())
	require.True(t, sig.Normalize().IsEqual(sig))
}

// TestSignatureSerialize ensures that serializing signatures works as expected.
func TestSignatureSerialize(t *testing.T) {
	tests := []struct {
		name     string
		r        string
		s        string
		expected string
	}{{
		name: "both values padded",
		r:    "efd48b2aacb6a8fd1140dd9cd45e81d69d2c877b56aaf991c34d0ea84eaf3716",
		s:    "f7cb1c942d657c41d436c7a1b6e29f65f3e900dbb9aff4064dc4ab2f843acda8",
		expected: "3046" +
			"022100efd48b2aacb6a8fd1140dd9cd45e81d69d2c877b56aaf991c34d0ea84eaf3716" +
			"022100f7cb1c942d657c41d436c7a1b6e29f65f3e900dbb9aff4064dc4ab2f843acda8",
	}, {
		name: "unpadded S",
		r:    "f1abb023518351cd71d881567b1ea663ed3efcf6c5132b354f28d3b0b7d38367",
		s:    "019f4113742a2b14bd25926b49c649155f267e60d3814b4c0cc84250e46f0083",
		expected: "3045" +
			"022100f1abb023518351cd71d881567b1ea663ed3efcf6c5132b354f28d3b0b7d38367" +
			"0220019f4113742a2b14bd25926b49c649155f267e60d3814b4c0cc84250e46f0083",
	}, {
		name:     "small values",
		r:        "01",
		s:        "7f",
		expected: "300602010102017f",
	}, {
		name:     "high bit of one byte value",
		r:        "80",
		s:        "0100",
		expected: "30080202008002020100",
	}}

	for _, test := range tests {
		r := new(ModNScalar).setHex(test.r)
		s := new(ModNScalar).setHex(test.s)
		sig := NewSignature(r, s)
		got := sig.Serialize()
		want := hexToBytes(test.expected)
		if !bytes.Equal(got, want) {
			t.Errorf("%s: mismatched result\ngot: %x\nwant: %x", test.name, got,
				want)
			continue
		}

		parsed, err := ParseDERSignature(got)
		if err != nil {
			t.Errorf("%s: unexpected parse error: %v", test.name, err)
			continue
		}
		if !parsed.IsEqual(sig) {
			t.Errorf("%s: mismatched parsed signature", test.name)
			continue
		}

		raw := sig.SerializeRaw()
		if len(raw) != RawSignatureLen {
			t.Errorf("%s: unexpected raw length %d", test.name, len(raw))
			continue
		}
		rawParsed, err := ParseRawSignature(raw)
		if err != nil || !rawParsed.IsEqual(sig) {
			t.Errorf("%s: raw round trip failed: %v", test.name, err)
			continue
		}
	}
}

// TestParseDERSignature ensures that parsing DER signatures works as expected
// including the strict rejection of non-canonical and out of range values.
func TestParseDERSignature(t *testing.T) {
	const (
		rHex = "00efd48b2aacb6a8fd1140dd9cd45e81d69d2c877b56aaf991c34d0ea84eaf3716"
		sHex = "00f7cb1c942d657c41d436c7a1b6e29f65f3e900dbb9aff4064dc4ab2f843acda8"
	)

	tests := []struct {
		name string // test description
		sig  string // hex encoded signature to parse
		err  error  // expected error
	}{{
		name: "valid signature",
		sig:  "3046" + "0221" + rHex + "0221" + sHex,
		err:  nil,
	}, {
		name: "empty",
		sig:  "",
		err:  ErrSigTooShort,
	}, {
		name: "too long",
		sig:  "3049" + "0221" + rHex + "0224" + "000000" + sHex,
		err:  ErrSigTooLong,
	}, {
		name: "bad sequence id",
		sig:  "3146" + "0221" + rHex + "0221" + sHex,
		err:  ErrSigInvalidSeqID,
	}, {
		name: "bad data length",
		sig:  "3045" + "0221" + rHex + "0221" + sHex,
		err:  ErrSigInvalidDataLen,
	}, {
		name: "bad R integer id",
		sig:  "3046" + "0321" + rHex + "0221" + sHex,
		err:  ErrSigInvalidRIntID,
	}, {
		name: "bad S integer id",
		sig:  "3046" + "0221" + rHex + "0321" + sHex,
		err:  ErrSigInvalidSIntID,
	}, {
		name: "zero R length",
		sig:  "3025" + "0200" + "0221" + sHex,
		err:  ErrSigZeroRLen,
	}, {
		name: "negative R",
		sig:  "3045" + "0220" + rHex[2:] + "0221" + sHex,
		err:  ErrSigNegativeR,
	}, {
		name: "too much R padding",
		sig:  "3027" + "0202" + "0001" + "0221" + sHex,
		err:  ErrSigTooMuchRPadding,
	}, {
		name: "negative S",
		sig:  "3045" + "0221" + rHex + "0220" + sHex[2:],
		err:  ErrSigNegativeS,
	}, {
		name: "non-minimal S",
		sig:  "3027" + "0221" + rHex + "0202" + "0001",
		err:  ErrSigTooMuchSPadding,
	}, {
		name: "R is zero",
		sig:  "3026" + "020100" + "0221" + sHex,
		err:  ErrSigRIsZero,
	}, {
		name: "S is zero",
		sig:  "3026" + "0221" + rHex + "020100",
		err:  ErrSigSIsZero,
	}, {
		name: "R == N",
		sig: "3046" +
			"022100ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551" +
			"0221" + sHex,
		err: ErrSigRTooBig,
	}, {
		name: "S == N",
		sig: "3046" + "0221" + rHex +
			"022100ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551",
		err: ErrSigSTooBig,
	}, {
		name: "R larger than 256 bits",
		sig: "3046" + "0222" + "01" + rHex +
			"0220019f4113742a2b14bd25926b49c649155f267e60d3814b4c0cc84250e46f0083",
		err: ErrSigRTooBig,
	}}

	for _, test := range tests {
		_, err := ParseDERSignature(hexToBytes(test.sig))
		if !errors.Is(err, test.err) {
			t.Errorf("%s: mismatched err -- got %v, want %v", test.name, err,
				test.err)
			continue
		}
		if err != nil && !errors.Is(err, ErrInvalidEncoding) {
			t.Errorf("%s: error %v not in class ErrInvalidEncoding", test.name,
				err)
		}
	}
}

// TestParseRawSignature ensures the raw form rejects bad lengths and
// out of range values.
func TestParseRawSignature(t *testing.T) {
	order := "ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551"
	one := "0000000000000000000000000000000000000000000000000000000000000001"
	zero := "0000000000000000000000000000000000000000000000000000000000000000"

	tests := []struct {
		name string
		sig  string
		err  error
	}{
		{"valid", one + one, nil},
		{"short", one + one[:62], ErrSigInvalidLen},
		{"R == N", order + one, ErrSigRTooBig},
		{"S == N", one + order, ErrSigSTooBig},
		{"R == 0", zero + one, ErrSigRIsZero},
		{"S == 0", one + zero, ErrSigSIsZero},
	}

	for _, test := range tests {
		_, err := ParseRawSignature(hexToBytes(test.sig))
		require.ErrorIs(t, err, test.err, test.name)
		if test.err != nil {
			require.ErrorIs(t, err, ErrInvalidEncoding, test.name)
		} else {
			require.NoError(t, err, test.name)
		}
	}
}

// TestStdlibInterop ensures signatures interoperate with crypto/ecdsa in both
// directions.
func TestStdlibInterop(t *testing.T) {
	privKey, err := GeneratePrivateKey()
	require.NoError(t, err)
	pubKey := privKey.PubKey()
	hash := sha256.Sum256([]byte("interop"))

	sig, err := Sign(privKey, hash[:])
	require.NoError(t, err)
	require.True(t, ecdsa.VerifyASN1(pubKey.ToECDSA(), hash[:], sig.Serialize()))

	stdKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	stdSig, err := ecdsa.SignASN1(rand.Reader, stdKey, hash[:])
	require.NoError(t, err)
	parsed, err := ParseDERSignature(stdSig)
	require.NoError(t, err)
	stdPub, err := NewPublicKeyFromECDSA(&stdKey.PublicKey)
	require.NoError(t, err)
	require.True(t, parsed.Verify(hash[:], stdPub))

	// A key converted from the standard library signs verifiably as well.
	converted, err := NewPrivateKeyFromECDSA(stdKey)
	require.NoError(t, err)
	sig, err = Sign(converted, hash[:])
	require.NoError(t, err)
	require.True(t, ecdsa.VerifyASN1(&stdKey.PublicKey, hash[:], sig.Serialize()))
}
