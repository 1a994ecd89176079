package aead

import (
	"crypto/rand"
	"io"

	"github.com/allisson/navajo/secure"
)

// material is an AEAD key's secret bytes paired with its algorithm.
type material struct {
	alg Algorithm
	key []byte
}

func (m *material) Algorithm() string { return string(m.alg) }

func (m *material) Zero() { secure.Zero(m.key) }

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
	return &material{alg: alg, key: key}, nil
}

func newExternalMaterial(alg Algorithm, key []byte) (*material, error) {
	size, err := alg.KeySize()
	if err != nil {
		return nil, err
	}
	if len(key) != size {
		return nil, ErrUnsupportedAlgorithm
	}
	return &material{alg: alg, key: append([]byte(nil), key...)}, nil
}
