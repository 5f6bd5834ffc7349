package p256

import (
	"crypto"
	"fmt"
	"io"

	"github.com/minio/sha256-simd"
)

var _ crypto.Signer = (*PrivateKey)(nil)

type SignOptions struct {
	Hash crypto.Hash
}

func (s *SignOptions) HashFunc() crypto.Hash {
	return s.Hash
}

// Public returns the public key as a *ecdsa.PublicKey so the private key can be
// used anywhere the standard library expects a [crypto.Signer], such as
// x509.CreateCertificate.
func (privkey *PrivateKey) Public() crypto.PublicKey {
	return privkey.PubKey().ToECDSA()
}

// Sign will sign the provided digest, returning the resulting signature in DER
// form. [SignOptions] can be used to pass options.  The signature is
// deterministic, so rand is not read.  When opts names SHA-256 the digest must
// be 32 bytes.
func (privkey *PrivateKey) Sign(rand io.Reader, digest []byte, opts crypto.SignerOpts) ([]byte, error) {
	if opts != nil && opts.HashFunc() == crypto.SHA256 && len(digest) != sha256.Size {
		str := fmt.Sprintf("digest length %d does not match SHA-256", len(digest))
		return nil, makeError(ErrInvalidEncoding, str)
	}
	sig, err := Sign(privkey, digest)
	if err != nil {
		return nil, err
	}
	return sig.Serialize(), nil // DER
}
