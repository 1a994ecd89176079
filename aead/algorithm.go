// Package aead implements authenticated encryption with associated
// data over a rotatable keyring, supporting both a one-shot "online"
// mode and a segmented streaming mode (the STREAM construction of
// Hoang, Reyhanitabar, Rogaway, and Vizár) for data too large to hold
// in memory at once.
package aead

import navajoerrors "github.com/allisson/navajo/errors"

// Algorithm identifies an AEAD cipher and its key/nonce/tag geometry.
type Algorithm string

const (
	ChaCha20Poly1305  Algorithm = "ChaCha20-Poly1305"
	XChaCha20Poly1305 Algorithm = "XChaCha20-Poly1305"
	AES128GCM         Algorithm = "AES-128-GCM"
	AES256GCM         Algorithm = "AES-256-GCM"
)

// ErrUnsupportedAlgorithm is returned for any Algorithm value outside
// the set above.
var ErrUnsupportedAlgorithm = navajoerrors.Wrap(navajoerrors.ErrInvalidInput, "aead: unsupported algorithm")

type algorithmSpec struct {
	keySize   int
	nonceSize int
	tagSize   int
}

var algorithmSpecs = map[Algorithm]algorithmSpec{
	ChaCha20Poly1305:  {keySize: 32, nonceSize: 12, tagSize: 16},
	XChaCha20Poly1305: {keySize: 32, nonceSize: 24, tagSize: 16},
	AES128GCM:         {keySize: 16, nonceSize: 12, tagSize: 16},
	AES256GCM:         {keySize: 32, nonceSize: 12, tagSize: 16},
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

// NonceSize returns alg's full nonce length in bytes.
func (a Algorithm) NonceSize() (int, error) {
	s, err := spec(a)
	if err != nil {
		return 0, err
	}
	return s.nonceSize, nil
}

// TagSize returns alg's authentication tag length in bytes.
func (a Algorithm) TagSize() (int, error) {
	s, err := spec(a)
	if err != nil {
		return 0, err
	}
	return s.tagSize, nil
}

// noncePrefixSize returns the streaming nonce prefix length: the full
// nonce minus the 4-byte big-endian segment counter and 1-byte
// last-segment flag.
func (a Algorithm) noncePrefixSize() (int, error) {
	n, err := a.NonceSize()
	if err != nil {
		return 0, err
	}
	return n - 5, nil
}
