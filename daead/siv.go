package daead

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"

	navajoerrors "github.com/allisson/navajo/errors"
	"github.com/allisson/navajo/secure"
)

// ErrAuthenticationFailed is returned on SIV mismatch during Open,
// deliberately opaque per spec's Unspecified error class.
var ErrAuthenticationFailed = navajoerrors.Wrap(navajoerrors.ErrUnspecified, "daead: authentication failed")

// zeroIVBits clears bit 31 and bit 63 of v (RFC 5297 §2.5), producing
// the CTR starting counter from the raw SIV.
func zeroIVBits(v []byte) []byte {
	q := append([]byte(nil), v...)
	q[8] &= 0x7f
	q[12] &= 0x7f
	return q
}

func seal(m *material, aad, plaintext []byte) ([]byte, error) {
	v, err := s2v(m.macKey, aad, plaintext)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(m.ctrKey)
	if err != nil {
		return nil, err
	}
	stream := cipher.NewCTR(block, zeroIVBits(v))
	ciphertext := make([]byte, len(plaintext))
	stream.XORKeyStream(ciphertext, plaintext)
	return append(v, ciphertext...), nil
}

func open(m *material, aad, sealed []byte) ([]byte, error) {
	tagSize, _ := m.alg.TagSize()
	if len(sealed) < tagSize {
		return nil, ErrAuthenticationFailed
	}
	v, ciphertext := sealed[:tagSize], sealed[tagSize:]

	block, err := aes.NewCipher(m.ctrKey)
	if err != nil {
		return nil, err
	}
	stream := cipher.NewCTR(block, zeroIVBits(v))
	plaintext := make([]byte, len(ciphertext))
	stream.XORKeyStream(plaintext, ciphertext)

	expected, err := s2v(m.macKey, aad, plaintext)
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare(expected, v) != 1 {
		secure.Zero(plaintext)
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}
