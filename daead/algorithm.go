// Package daead implements deterministic authenticated encryption:
// identical (plaintext, aad) pairs under the same key always produce
// byte-identical ciphertext, via AES-SIV (RFC 5297).
package daead

import navajoerrors "github.com/allisson/navajo/errors"

// Algorithm identifies a DAEAD cipher. AES-256-SIV is the only member
// of the family per spec.md §3's algorithm table.
type Algorithm string

const AES256SIV Algorithm = "AES-256-SIV"

// ErrUnsupportedAlgorithm is returned for any Algorithm value other
// than AES256SIV.
var ErrUnsupportedAlgorithm = navajoerrors.Wrap(navajoerrors.ErrInvalidInput, "daead: unsupported algorithm")

// KeySize returns alg's secret key length: two AES-256 keys (K1 for
// S2V/CMAC, K2 for CTR), 32 bytes each.
func (a Algorithm) KeySize() (int, error) {
	if a != AES256SIV {
		return 0, ErrUnsupportedAlgorithm
	}
	return 64, nil
}

// TagSize returns alg's SIV length, prepended to the CTR-encrypted
// ciphertext.
func (a Algorithm) TagSize() (int, error) {
	if a != AES256SIV {
		return 0, ErrUnsupportedAlgorithm
	}
	return 16, nil
}
