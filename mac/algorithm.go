// Package mac implements multi-key message authentication: a keyring of
// HMAC, CMAC, or keyed BLAKE3 keys that computes a Tag carrying one
// Entry per key, and verifies a candidate tag against any member key.
package mac

import navajoerrors "github.com/allisson/navajo/errors"

// Algorithm identifies a MAC primitive and its key/tag geometry.
type Algorithm string

const (
	HMACSHA256  Algorithm = "HMAC-SHA256"
	HMACSHA384  Algorithm = "HMAC-SHA384"
	HMACSHA512  Algorithm = "HMAC-SHA512"
	HMACSHA3256 Algorithm = "HMAC-SHA3-256"
	HMACSHA3512 Algorithm = "HMAC-SHA3-512"
	AESCMAC128  Algorithm = "AES-128-CMAC"
	AESCMAC192  Algorithm = "AES-192-CMAC"
	AESCMAC256  Algorithm = "AES-256-CMAC"
	BLAKE3      Algorithm = "BLAKE3"
)

// ErrUnsupportedAlgorithm is returned for any Algorithm value outside
// the set above.
var ErrUnsupportedAlgorithm = navajoerrors.Wrap(navajoerrors.ErrInvalidInput, "mac: unsupported algorithm")

// ErrNotTruncatable is returned by Truncate when the tag's algorithm
// declares itself non-truncatable, regardless of the requested length.
var ErrNotTruncatable = navajoerrors.Wrap(navajoerrors.ErrInvalidInput, "mac: algorithm does not permit truncation")

type algorithmSpec struct {
	keySize     int
	tagSize     int
	truncatable bool
	minTrunc    int
}

var algorithmSpecs = map[Algorithm]algorithmSpec{
	HMACSHA256:  {keySize: 32, tagSize: 32, truncatable: true, minTrunc: 8},
	HMACSHA384:  {keySize: 48, tagSize: 48, truncatable: true, minTrunc: 8},
	HMACSHA512:  {keySize: 64, tagSize: 64, truncatable: true, minTrunc: 8},
	HMACSHA3256: {keySize: 32, tagSize: 32, truncatable: true, minTrunc: 8},
	HMACSHA3512: {keySize: 64, tagSize: 64, truncatable: true, minTrunc: 8},
	AESCMAC128:  {keySize: 16, tagSize: 16, truncatable: true, minTrunc: 8},
	AESCMAC192:  {keySize: 24, tagSize: 16, truncatable: true, minTrunc: 8},
	AESCMAC256:  {keySize: 32, tagSize: 16, truncatable: true, minTrunc: 8},
	BLAKE3:      {keySize: 32, tagSize: 32, truncatable: true, minTrunc: 8},
}

func spec(alg Algorithm) (algorithmSpec, error) {
	s, ok := algorithmSpecs[alg]
	if !ok {
		return algorithmSpec{}, ErrUnsupportedAlgorithm
	}
	return s, nil
}

// KeySize returns alg's secret key length in bytes.
func (a Algorithm) KeySize() (int, error) {
	s, err := spec(a)
	if err != nil {
		return 0, err
	}
	return s.keySize, nil
}

// TagSize returns alg's full (untruncated) tag length in bytes.
func (a Algorithm) TagSize() (int, error) {
	s, err := spec(a)
	if err != nil {
		return 0, err
	}
	return s.tagSize, nil
}
