package dsa

import (
	"crypto/rand"
	"strconv"

	navajoerrors "github.com/allisson/navajo/errors"

	"github.com/allisson/navajo/keyring"
)

// ErrDuplicatePubID is returned by Add when the supplied pub_id already
// names a key in the signer's keyring.
var ErrDuplicatePubID = navajoerrors.Wrap(navajoerrors.ErrConflict, "dsa: duplicate pub_id")

// Signer holds a rotatable keyring of signing keys. Each key carries a
// publicly advertised pub_id (defaulting to the decimal string of its
// numeric id) surfaced as the JWS "kid".
type Signer struct {
	keyring *keyring.Keyring[*material]
}

// New constructs a Signer holding a single freshly generated primary
// key. An empty pubID defaults to the key's decimal numeric id.
func New(alg Algorithm, pubID string) (*Signer, error) {
	m, err := newMaterial(alg, pubID, rand.Reader)
	if err != nil {
		return nil, err
	}
	kr, err := keyring.New[*material](m)
	if err != nil {
		return nil, err
	}
	if m.pubID == "" {
		m.pubID = strconv.FormatUint(uint64(kr.Primary().ID()), 10)
	}
	return &Signer{keyring: kr}, nil
}

// Add generates and appends a new Secondary key of alg. Returns
// ErrDuplicatePubID if pubID (after defaulting) collides with an
// existing key.
func (s *Signer) Add(alg Algorithm, pubID string) (keyring.KeyInfo, error) {
	if pubID != "" {
		for _, k := range s.keyring.All() {
			if k.Material().pubID == pubID {
				return keyring.KeyInfo{}, ErrDuplicatePubID
			}
		}
	}
	m, err := newMaterial(alg, pubID, rand.Reader)
	if err != nil {
		return keyring.KeyInfo{}, err
	}
	info, err := s.keyring.Add(m)
	if err != nil {
		return keyring.KeyInfo{}, err
	}
	if m.pubID == "" {
		defaulted := strconv.FormatUint(uint64(info.ID), 10)
		for _, k := range s.keyring.All() {
			if k.ID() != info.ID && k.Material().pubID == defaulted {
				_ = s.keyring.Remove(info.ID)
				return keyring.KeyInfo{}, ErrDuplicatePubID
			}
		}
		m.pubID = defaulted
	}
	return info, nil
}

// Keyring returns the underlying keyring for lifecycle management.
func (s *Signer) Keyring() *keyring.Keyring[*material] {
	return s.keyring
}

// Sign produces a raw signature over msg using the current primary key.
func (s *Signer) Sign(msg []byte) (Signature, error) {
	return sign(s.keyring.Primary().Material(), msg)
}

// Verifier returns a read-only projection of this signer's public
// halves, keyed by pub_id, as an immutable snapshot of the keyring at
// call time.
func (s *Signer) Verifier() *Verifier {
	return newVerifier(s.keyring.All())
}
