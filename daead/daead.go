package daead

import (
	"encoding/binary"

	"github.com/allisson/navajo/keyring"
)

// Daead wraps a Keyring of AES-256-SIV key material, offering
// deterministic encryption: identical (plaintext, aad) pairs under the
// same primary key produce byte-identical ciphertext.
type Daead struct {
	keyring *keyring.Keyring[*material]
}

// New constructs a Daead holding a single freshly generated primary key
// for alg.
func New(alg Algorithm) (*Daead, error) {
	m, err := newMaterial(alg, nil)
	if err != nil {
		return nil, err
	}
	kr, err := keyring.New[*material](m)
	if err != nil {
		return nil, err
	}
	return &Daead{keyring: kr}, nil
}

// NewExternal constructs a Daead holding a single caller-supplied
// primary key. Unlike AEAD and MAC, DAEAD ciphertexts always carry the
// key's internal 4-byte id rather than an External key's prefix, per
// spec.md §4.3.
func NewExternal(alg Algorithm, key []byte) (*Daead, error) {
	m, err := newExternalMaterial(alg, key)
	if err != nil {
		return nil, err
	}
	kr, err := keyring.NewExternal[*material](m, nil)
	if err != nil {
		return nil, err
	}
	return &Daead{keyring: kr}, nil
}

// Add generates and appends a new Secondary key of alg.
func (d *Daead) Add(alg Algorithm) (keyring.KeyInfo, error) {
	m, err := newMaterial(alg, nil)
	if err != nil {
		return keyring.KeyInfo{}, err
	}
	return d.keyring.Add(m)
}

// Keyring returns the underlying keyring for lifecycle management.
func (d *Daead) Keyring() *keyring.Keyring[*material] {
	return d.keyring
}

// EncryptDeterministic seals plaintext under the current primary key.
// The same (plaintext, aad) pair under the same primary always
// produces the same ciphertext bytes: output is
// 4-byte-key-id ‖ SIV ‖ CTR-ciphertext.
func (d *Daead) EncryptDeterministic(plaintext, aad []byte) ([]byte, error) {
	primary := d.keyring.Primary()
	sealed, err := seal(primary.Material(), aad, plaintext)
	if err != nil {
		return nil, err
	}
	id := make([]byte, 4)
	binary.BigEndian.PutUint32(id, primary.ID())
	return append(id, sealed...), nil
}

// DecryptDeterministic opens ciphertext produced by EncryptDeterministic.
// Per spec.md §4.3, it does not trust the header for key selection: the
// leading id is tried first as a fast path, then every key in the
// keyring, including Disabled ones, is tried in order. The first key
// whose recomputed SIV matches wins; if none match, the failure is the
// opaque ErrAuthenticationFailed.
func (d *Daead) DecryptDeterministic(ciphertext, aad []byte) ([]byte, error) {
	if len(ciphertext) < 4 {
		return nil, ErrAuthenticationFailed
	}
	body := ciphertext[4:]
	id := binary.BigEndian.Uint32(ciphertext[:4])
	keys := d.keyring.All()

	if key, err := d.keyring.Get(id); err == nil {
		if pt, openErr := open(key.Material(), aad, body); openErr == nil {
			return pt, nil
		}
	}
	for _, k := range keys {
		if k.ID() == id {
			continue // already tried above
		}
		if pt, err := open(k.Material(), aad, body); err == nil {
			return pt, nil
		}
	}
	return nil, ErrAuthenticationFailed
}
