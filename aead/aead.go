// Package aead implements authenticated encryption over a rotatable
// keyring: one-shot sealing for small payloads and a STREAM-based
// segmented construction for large ones, selected transparently by
// Encryptor.Finalize depending on message size.
package aead

import (
	"github.com/allisson/navajo/keyring"
)

// defaultSegment is used by Aead.Encrypt's one-shot convenience path.
// Most messages stay under one segment's online budget and are emitted
// as Online ciphertexts regardless of which Segment is configured here;
// callers with large payloads should use NewEncryptor directly to pick
// a segment size suited to their streaming I/O.
const defaultSegment = Segment64KiB

// Aead wraps a Keyring of AEAD key material, offering one-shot
// Encrypt/Decrypt built on top of the same Encryptor/Decryptor engine
// used for streaming.
type Aead struct {
	keyring *keyring.Keyring[*material]
}

// New constructs an Aead holding a single freshly generated primary key
// for alg.
func New(alg Algorithm) (*Aead, error) {
	m, err := newMaterial(alg, nil)
	if err != nil {
		return nil, err
	}
	kr, err := keyring.New[*material](m)
	if err != nil {
		return nil, err
	}
	return &Aead{keyring: kr}, nil
}

// NewExternal constructs an Aead holding a single caller-supplied
// primary key, identified on the wire by prefix.
func NewExternal(alg Algorithm, key, prefix []byte) (*Aead, error) {
	m, err := newExternalMaterial(alg, key)
	if err != nil {
		return nil, err
	}
	kr, err := keyring.NewExternal[*material](m, prefix)
	if err != nil {
		return nil, err
	}
	return &Aead{keyring: kr}, nil
}

// Add generates and appends a new Secondary key of alg.
func (a *Aead) Add(alg Algorithm) (keyring.KeyInfo, error) {
	m, err := newMaterial(alg, nil)
	if err != nil {
		return keyring.KeyInfo{}, err
	}
	return a.keyring.Add(m)
}

// Keyring returns the underlying keyring for lifecycle management
// (Promote, Disable, Remove, SetMetadata).
func (a *Aead) Keyring() *keyring.Keyring[*material] {
	return a.keyring
}

// Encrypt seals plaintext under the current primary key, authenticating
// aad alongside it. Payloads within one segment's online budget are
// emitted as a flat Online ciphertext; larger ones are transparently
// segmented using defaultSegment.
func (a *Aead) Encrypt(plaintext, aad []byte) ([]byte, error) {
	enc, err := NewEncryptor(a, defaultSegment)
	if err != nil {
		return nil, err
	}
	defer enc.Close()

	segments, err := enc.Update(aad, plaintext)
	if err != nil {
		return nil, err
	}
	final, err := enc.Finalize(aad)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(final))
	for _, s := range segments {
		out = append(out, s...)
	}
	return append(out, final...), nil
}

// Decrypt opens ciphertext produced by Encrypt (or by an Encryptor over
// this Aead's keyring), verifying aad alongside it.
func (a *Aead) Decrypt(ciphertext, aad []byte) ([]byte, error) {
	dec := NewDecryptor(a)
	defer dec.Close()

	segments, err := dec.Update(aad, ciphertext)
	if err != nil {
		return nil, err
	}
	final, err := dec.Finalize(aad)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(final))
	for _, s := range segments {
		out = append(out, s...)
	}
	return append(out, final...), nil
}
