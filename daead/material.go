package daead

import (
	"crypto/rand"
	"io"

	"github.com/allisson/navajo/secure"
)

// material is an AES-256-SIV key pair: the first half macKey is used
// as the S2V/CMAC key, the second half ctrKey as the AES-CTR key, per
// RFC 5297's K1 ‖ K2 convention.
type material struct {
	alg    Algorithm
	macKey []byte
	ctrKey []byte
}

func (m *material) Algorithm() string { return string(m.alg) }

func (m *material) Zero() {
	secure.ZeroAll(m.macKey, m.ctrKey)
}

func newMaterial(alg Algorithm, r io.Reader) (*material, error) {
	size, err := alg.KeySize()
	if err != nil {
		return nil, err
	}
	if r == nil {
		r = rand.Reader
	}
	key := make([]byte, size)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return splitKey(alg, key)
}

func newExternalMaterial(alg Algorithm, key []byte) (*material, error) {
	size, err := alg.KeySize()
	if err != nil {
		return nil, err
	}
	if len(key) != size {
		return nil, ErrUnsupportedAlgorithm
	}
	return splitKey(alg, append([]byte(nil), key...))
}

func splitKey(alg Algorithm, key []byte) (*material, error) {
	half := len(key) / 2
	return &material{alg: alg, macKey: key[:half], ctrKey: key[half:]}, nil
}
