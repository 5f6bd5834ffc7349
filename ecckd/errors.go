package ecckd

import (
	"errors"
)

// Errors returned while creating or deriving extended keys.
var (
	ErrInvalidSeed                = errors.New("ecckd: seed does not produce a usable master key")
	ErrInvalidSeedLen             = errors.New("ecckd: seed length must be between 16 and 64 bytes")
	ErrInvalidChainCode           = errors.New("ecckd: chain code must be 32 bytes")
	ErrInvalidPath                = errors.New("ecckd: malformed derivation path")
	ErrDerivingHardenedFromPublic = errors.New("ecckd: hardened child requested from a public key")
	ErrDerivingChild              = errors.New("ecckd: no valid child key for this index")
	ErrMaxDepthExceeded           = errors.New("ecckd: derivation depth above 255")
	ErrNotPrivate                 = errors.New("ecckd: extended key holds no private key")
)

// Errors returned while decoding serialized extended keys.
var (
	ErrInvalidKey         = errors.New("ecckd: key data is not a valid P-256 key")
	ErrInvalidKeyLen      = errors.New("ecckd: serialized extended key has the wrong length")
	ErrBadChecksum        = errors.New("ecckd: extended key checksum mismatch")
	ErrInvalidPrivateFlag = errors.New("ecckd: key data does not match the version's key type")
)
