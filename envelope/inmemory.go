package envelope

import (
	"context"
	"crypto/cipher"
	"crypto/rand"

	"golang.org/x/crypto/chacha20poly1305"
)

// InMemory is a ChaCha20-Poly1305-backed Envelope with a fixed key and
// nonce generated at construction time. Ciphers exist only in memory,
// so anything sealed with it is lost once the process exits.
//
// Do not use outside of tests.
type InMemory struct {
	aead  cipher.AEAD
	nonce []byte
}

// NewInMemory constructs an InMemory envelope with a freshly generated
// key and nonce.
func NewInMemory() (*InMemory, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	nonce := make([]byte, chacha20poly1305.NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	return &InMemory{aead: aead, nonce: nonce}, nil
}

func (e *InMemory) EncryptDEK(_ context.Context, aad, plaintext []byte) ([]byte, error) {
	return e.aead.Seal(nil, e.nonce, plaintext, aad), nil
}

func (e *InMemory) DecryptDEK(_ context.Context, aad, ciphertext []byte) ([]byte, error) {
	return e.aead.Open(nil, e.nonce, ciphertext, aad)
}
