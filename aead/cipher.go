package aead

import (
	"crypto/aes"
	"crypto/cipher"

	"golang.org/x/crypto/chacha20poly1305"
)

// newCipher returns a cipher.AEAD for alg, grounded on the teacher's
// per-algorithm factory (ChaCha20Poly1305Cipher/AESGCMCipher), extended
// to XChaCha20-Poly1305 and AES-128-GCM.
func newCipher(alg Algorithm, key []byte) (cipher.AEAD, error) {
	switch alg {
	case ChaCha20Poly1305:
		return chacha20poly1305.New(key)
	case XChaCha20Poly1305:
		return chacha20poly1305.NewX(key)
	case AES128GCM, AES256GCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return cipher.NewGCM(block)
	default:
		return nil, ErrUnsupportedAlgorithm
	}
}
