package ecckd

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/binary"
	"math/big"
	"strconv"
	"strings"

	"github.com/ModChain/p256"
	"github.com/mr-tron/base58"
)

const (
	// HardenedBit is set on child indexes that derive hardened keys.
	HardenedBit = 0x80000000

	// serializedKeyLen is the length of a serialized extended key without the
	// trailing checksum.
	serializedKeyLen = 4 + 1 + 4 + 4 + 32 + 33

	// MinSeedBytes and MaxSeedBytes bound the seed length accepted by
	// FromSeed.
	MinSeedBytes = 16
	MaxSeedBytes = 64
)

// curveSeedKey is the HMAC key used to derive P-256 master keys.
var curveSeedKey = []byte("Nist256p1 seed")

type ExtendedKey struct {
	Version     KeyVersion
	Depth       uint8
	Fingerprint [4]byte
	ChildNumber uint32 // ser32(i) for i in xi = xpar/i, with xi the key being serialized. (0x00000000 if master key)
	KeyData     []byte // ser256(k) (32 bytes) for private keys, serP(K) (33 bytes) for public keys
	ChainCode   []byte // 32 bytes, the chain code
}

// FromSeed returns the P-256 master node for the given seed.  When IL is zero
// or not less than the group order, I is used as the new seed and the
// computation is repeated.
func FromSeed(seed []byte) (*ExtendedKey, error) {
	if len(seed) < MinSeedBytes || len(seed) > MaxSeedBytes {
		return nil, ErrInvalidSeedLen
	}

	data := seed
	for attempt := 0; attempt < maxDeriveAttempts; attempt++ {
		il, ir := hmacCKD(data, curveSeedKey)
		key, err := parseIL(il)
		if err == nil && !key.IsZero() {
			return &ExtendedKey{
				Version:   MainnetPrivate,
				KeyData:   il,
				ChainCode: ir,
			}, nil
		}
		data = append(append([]byte{}, il...), ir...)
	}
	return nil, ErrInvalidSeed
}

// FromPublicKey returns a master extended public key for the given public key
// and chain code.
func FromPublicKey(pub *p256.PublicKey, chainCode []byte) (*ExtendedKey, error) {
	if pub == nil || !pub.IsOnCurve() {
		return nil, ErrInvalidKey
	}
	if len(chainCode) != 32 {
		return nil, ErrInvalidChainCode
	}
	return &ExtendedKey{
		Version:   MainnetPublic,
		KeyData:   pub.SerializeCompressed(),
		ChainCode: append([]byte{}, chainCode...),
	}, nil
}

func FromString(str string) (*ExtendedKey, error) {
	bin, err := base58.Decode(str)
	if err != nil {
		return nil, err
	}

	e := &ExtendedKey{}
	return e, e.UnmarshalBinary(bin)
}

func (k *ExtendedKey) IsPrivate() bool {
	return k.Version.IsPrivate()
}

// Child derives extended key at a given index i.
// If parent is private, then derived key is also private. If parent is public, then derived is public.
//
// If i >= HardenedBit, then hardened key is generated.
// You can only generate hardened keys from private parent keys.
// If you try generating hardened key form public parent key, ErrDerivingHardenedFromPublic is returned.
//
// There are four CKD (child key derivation) scenarios:
// 1) Private extended key -> Hardened child private extended key
// 2) Private extended key -> Non-hardened child private extended key
// 3) Public extended key -> Non-hardened child public extended key
// 4) Public extended key -> Hardened child public extended key (INVALID!)
func (k *ExtendedKey) Child(i uint32) (*ExtendedKey, error) {
	child, _, err := k.child(i)
	return child, err
}

// child derives the child at index i and also returns the accepted IL tweak,
// such that the child private key is the parent private key plus IL.
//
// When IL is not less than the group order, or the resulting key is zero or
// the point at infinity, the derivation is repeated with
// I = HMAC-SHA512(Key = cpar, Data = 0x01 || IR || ser32(i)).
func (k *ExtendedKey) child(i uint32) (*ExtendedKey, *p256.ModNScalar, error) {
	if k.Depth == 0xff {
		return nil, nil, ErrMaxDepthExceeded
	}

	// A hardened child may not be created from a public extended key (Case #4).
	isChildHardened := i&HardenedBit == HardenedBit
	if !k.IsPrivate() && isChildHardened {
		return nil, nil, ErrDerivingHardenedFromPublic
	}

	parentPub, err := k.pubKeyBytes()
	if err != nil {
		return nil, nil, err
	}

	const keyLen = 33
	data := make([]byte, keyLen+4)
	if isChildHardened {
		// Case #1: 0x00 || ser256(parentKey) || ser32(i)
		copy(data[1:], k.KeyData)
	} else {
		// Case #2 and #3: serP(parentPubKey) || ser32(i)
		copy(data, parentPub)
	}
	binary.BigEndian.PutUint32(data[keyLen:], i)

	child := &ExtendedKey{
		Depth:       k.Depth + 1,
		ChildNumber: i,
	}
	// The fingerprint for the derived child is the first 4 bytes of the
	// parent's key identifier.
	child.Fingerprint = keyFingerprint(parentPub)

	for attempt := 0; attempt < maxDeriveAttempts; attempt++ {
		il, ir := hmacCKD(data, k.ChainCode)

		// Prepare 0x01 || IR || ser32(i) for a retry.
		data = make([]byte, 1+32+4)
		data[0] = 0x01
		copy(data[1:], ir)
		binary.BigEndian.PutUint32(data[33:], i)

		tweak, err := parseIL(il)
		if err != nil {
			continue
		}

		if k.IsPrivate() {
			// Case #1 or #2: childKey = parse256(IL) + parentKey
			parent, err := k.privateScalar()
			if err != nil {
				return nil, nil, err
			}
			childKey := new(p256.ModNScalar).Add2(tweak, parent)
			if childKey.IsZero() {
				continue
			}
			keyData := childKey.Bytes()
			child.KeyData = keyData[:]
			child.Version = k.Version
		} else {
			// Case #3: childKey = serP(point(parse256(IL)) + parentKey)
			pubKey, err := p256.ParsePubKey(k.KeyData)
			if err != nil {
				return nil, nil, err
			}
			var tweakPoint, parentPoint, sum p256.ProjectivePoint
			p256.ScalarBaseMult(tweak, &tweakPoint)
			pubKey.AsProjective(&parentPoint)
			p256.AddPoints(&tweakPoint, &parentPoint, &sum)
			if sum.IsIdentity() {
				continue
			}
			pk, err := p256.NewPublicKeyFromPoint(&sum)
			if err != nil {
				return nil, nil, err
			}
			child.KeyData = pk.SerializeCompressed()
			child.Version = k.Version.ToPublic()
		}
		child.ChainCode = ir
		return child, tweak, nil
	}
	return nil, nil, ErrInvalidKey
}

// Derive returns a derived child key at a given path
func (k *ExtendedKey) Derive(path []uint32) (*ExtendedKey, error) {
	var err error
	extKey := k
	for _, i := range path {
		extKey, err = extKey.Child(i)
		if err != nil {
			return nil, ErrDerivingChild
		}
	}

	return extKey, nil
}

// DeriveWithIL derives the key at the given path like Derive and also returns
// the sum modulo the group order of every IL applied along the way.  Adding
// that value to the private key of k yields the private key of the result,
// which lets the holder of the private key follow a derivation performed on
// the public key alone.
func (k *ExtendedKey) DeriveWithIL(path []uint32) (*big.Int, *ExtendedKey, error) {
	var total p256.ModNScalar
	extKey := k
	for _, i := range path {
		child, tweak, err := extKey.child(i)
		if err != nil {
			return nil, nil, ErrDerivingChild
		}
		total.Add(tweak)
		extKey = child
	}

	totalBytes := total.Bytes()
	return new(big.Int).SetBytes(totalBytes[:]), extKey, nil
}

// DerivePath derives the key at a path given in the usual text form, such as
// "m/0H/1".  See ParsePath.
func (k *ExtendedKey) DerivePath(path string) (*ExtendedKey, error) {
	indexes, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	return k.Derive(indexes)
}

// ParsePath parses a derivation path such as "m/44'/0h/1H/2".  Hardened
// indexes are marked with a trailing ', h or H.
func ParsePath(path string) ([]uint32, error) {
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] != "m" {
		return nil, ErrInvalidPath
	}

	res := make([]uint32, 0, len(parts)-1)
	for _, part := range parts[1:] {
		var hardened bool
		switch {
		case strings.HasSuffix(part, "'"), strings.HasSuffix(part, "h"),
			strings.HasSuffix(part, "H"):
			hardened = true
			part = part[:len(part)-1]
		}
		v, err := strconv.ParseUint(part, 10, 32)
		if err != nil || v&HardenedBit != 0 {
			return nil, ErrInvalidPath
		}
		i := uint32(v)
		if hardened {
			i |= HardenedBit
		}
		res = append(res, i)
	}
	return res, nil
}

// Public returns a new extended public key from a give extended private key.
// If the input extended key is already public, it will be returned unaltered.
func (k *ExtendedKey) Public() (*ExtendedKey, error) {
	// Already an extended public key.
	if !k.IsPrivate() {
		return k, nil
	}

	pubKey, err := k.pubKeyBytes()
	if err != nil {
		return nil, err
	}

	// Convert it to an extended public key.  The key for the new extended
	// key will simply be the pubkey of the current extended private key.
	return &ExtendedKey{
		Version:     k.Version.ToPublic(),
		KeyData:     pubKey,
		ChainCode:   k.ChainCode,
		Fingerprint: k.Fingerprint,
		Depth:       k.Depth,
		ChildNumber: k.ChildNumber,
	}, nil
}

// MarshalBinary encodes the key in standard format that can be base58 encoded for humans
func (k *ExtendedKey) MarshalBinary() ([]byte, error) {
	var childNumBytes [4]byte
	binary.BigEndian.PutUint32(childNumBytes[:], k.ChildNumber)

	// The serialized format is:
	//   version (4) || depth (1) || parent fingerprint (4)) ||
	//   child num (4) || chain code (32) || key data (33) || checksum (4)
	serializedBytes := make([]byte, 0, serializedKeyLen+4)
	serializedBytes = append(serializedBytes, k.Version[:]...)
	serializedBytes = append(serializedBytes, k.Depth)
	serializedBytes = append(serializedBytes, k.Fingerprint[:]...)
	serializedBytes = append(serializedBytes, childNumBytes[:]...)
	serializedBytes = append(serializedBytes, k.ChainCode...)
	if k.IsPrivate() {
		priv, err := k.privateScalar()
		if err != nil {
			return nil, err
		}
		keyData := priv.Bytes()
		serializedBytes = append(serializedBytes, 0x00)
		serializedBytes = append(serializedBytes, keyData[:]...)
	} else {
		serializedBytes = append(serializedBytes, k.KeyData...)
	}
	if len(serializedBytes) != serializedKeyLen {
		return nil, ErrInvalidKeyLen
	}

	checkSum := checksum(serializedBytes)
	serializedBytes = append(serializedBytes, checkSum[:]...)
	return serializedBytes, nil
}

func (k *ExtendedKey) String() string {
	bin, err := k.MarshalBinary()
	if err != nil {
		return ""
	}
	return base58.Encode(bin)
}

// privateScalar returns the private key data as a scalar, failing when it is
// zero or not less than the group order.
func (k *ExtendedKey) privateScalar() (*p256.ModNScalar, error) {
	if !k.IsPrivate() {
		return nil, ErrNotPrivate
	}
	if len(k.KeyData) != 32 {
		return nil, ErrInvalidKey
	}
	var s p256.ModNScalar
	if overflow := s.SetByteSlice(k.KeyData); overflow || s.IsZero() {
		return nil, ErrInvalidKey
	}
	return &s, nil
}

// pubKeyBytes returns bytes for the serialized compressed public key associated
// with this extended key.
//
// When the extended key is already a public key, the key is simply returned as
// is since it's already in the correct form.
func (k *ExtendedKey) pubKeyBytes() ([]byte, error) {
	// Just return the key if it's already an extended public key.
	if !k.IsPrivate() {
		return k.KeyData, nil
	}

	priv, err := k.privateScalar()
	if err != nil {
		return nil, err
	}
	return p256.NewPrivateKey(priv).PubKey().SerializeCompressed(), nil
}

// PrivateKey returns the private key of a private extended key.
func (k *ExtendedKey) PrivateKey() (*p256.PrivateKey, error) {
	priv, err := k.privateScalar()
	if err != nil {
		return nil, err
	}
	return p256.NewPrivateKey(priv), nil
}

// PublicKey returns the public key of the extended key.
func (k *ExtendedKey) PublicKey() (*p256.PublicKey, error) {
	pubKey, err := k.pubKeyBytes()
	if err != nil {
		return nil, err
	}
	return p256.ParsePubKey(pubKey)
}

// ToECDSA returns the key data as ecdsa.PrivateKey
func (k *ExtendedKey) ToECDSA() (*ecdsa.PrivateKey, error) {
	priv, err := k.PrivateKey()
	if err != nil {
		return nil, err
	}
	return priv.ToECDSA(), nil
}

func (k *ExtendedKey) UnmarshalBinary(data []byte) error {
	if len(data) != serializedKeyLen+4 {
		return ErrInvalidKeyLen
	}

	// The serialized format is:
	//   version (4) || depth (1) || parent fingerprint (4)) ||
	//   child num (4) || chain code (32) || key data (33) || checksum (4)

	// Split the payload and checksum up and ensure the checksum matches.
	payload := data[:len(data)-4]
	checkSum := data[len(data)-4:]
	expectedCheckSum := checksum(payload)
	if !bytes.Equal(checkSum, expectedCheckSum[:]) {
		return ErrBadChecksum
	}

	// Deserialize each of the payload fields.
	var version KeyVersion
	copy(version[:], payload[:4])
	depth := payload[4:5][0]
	var fingerprint [4]byte
	copy(fingerprint[:], payload[5:9])
	childNumber := binary.BigEndian.Uint32(payload[9:13])
	chainCode := append([]byte{}, payload[13:45]...)
	keyData := append([]byte{}, payload[45:78]...)

	// The key data is a private key if it starts with 0x00.  Serialized
	// compressed pubkeys either start with 0x02 or 0x03.
	isPrivate := keyData[0] == 0x00
	if isPrivate != version.IsPrivate() {
		return ErrInvalidPrivateFlag
	}

	if isPrivate {
		// Ensure the private key is valid.  It must be within the range
		// of the order of the P-256 curve and not be 0.
		keyData = keyData[1:]
		var s p256.ModNScalar
		if overflow := s.SetByteSlice(keyData); overflow || s.IsZero() {
			return ErrInvalidKey
		}
	} else {
		// Ensure the public key parses correctly and is actually on the
		// P-256 curve.
		_, err := p256.ParsePubKey(keyData)
		if err != nil {
			return err
		}
	}

	k.Version = version
	k.KeyData = keyData
	k.ChainCode = chainCode
	k.Fingerprint = fingerprint
	k.Depth = depth
	k.ChildNumber = childNumber
	return nil
}
