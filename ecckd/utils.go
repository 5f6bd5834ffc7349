package ecckd

import (
	"github.com/minio/sha256-simd"
	"golang.org/x/crypto/ripemd160"
)

// checksum returns the first four bytes of SHA256(SHA256(payload)), as
// appended to serialized extended keys.
func checksum(payload []byte) (sum [4]byte) {
	h := sha256.Sum256(payload)
	h = sha256.Sum256(h[:])
	copy(sum[:], h[:4])
	return sum
}

// keyFingerprint returns the first four bytes of RIPEMD160(SHA256(pubKey)),
// the identifier children record for their parent.
func keyFingerprint(pubKey []byte) (fp [4]byte) {
	h := sha256.Sum256(pubKey)
	rmd := ripemd160.New()
	rmd.Write(h[:])
	copy(fp[:], rmd.Sum(nil))
	return fp
}
