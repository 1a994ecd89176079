package mac

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/allisson/navajo/keyring"
)

// Mac computes and verifies multi-key message authentication tags over
// a rotatable keyring.
type Mac struct {
	keyring *keyring.Keyring[*material]
}

// New constructs a Mac with a single primary key for alg.
func New(alg Algorithm) (*Mac, error) {
	m, err := newMaterial(alg, nil)
	if err != nil {
		return nil, err
	}
	kr, err := keyring.New[*material](m)
	if err != nil {
		return nil, err
	}
	return &Mac{keyring: kr}, nil
}

// NewExternal constructs a Mac with a single primary key imported from
// caller-supplied key bytes, identified on the wire by prefix.
func NewExternal(alg Algorithm, key, prefix []byte) (*Mac, error) {
	m, err := newExternalMaterial(alg, key)
	if err != nil {
		return nil, err
	}
	kr, err := keyring.NewExternal[*material](m, prefix)
	if err != nil {
		return nil, err
	}
	return &Mac{keyring: kr}, nil
}

// Add appends a new Secondary key for alg.
func (mac *Mac) Add(alg Algorithm) (keyring.KeyInfo, error) {
	m, err := newMaterial(alg, nil)
	if err != nil {
		return keyring.KeyInfo{}, err
	}
	return mac.keyring.Add(m)
}

// Keyring exposes the underlying keyring for lifecycle operations
// (Promote, Enable, Disable, Remove, SetMetadata, Keys).
func (mac *Mac) Keyring() *keyring.Keyring[*material] { return mac.keyring }

// Compute produces a Tag carrying one Entry per key currently in the
// keyring. With more than one key, per-key hashing runs in parallel
// fan-out; a single-key keyring computes directly without spawning a
// goroutine.
func (mac *Mac) Compute(data []byte) (*Tag, error) {
	keys := mac.keyring.All()
	if len(keys) == 1 {
		e, err := computeEntry(keys[0], data)
		if err != nil {
			return nil, err
		}
		return newTag([]*entry{e}), nil
	}

	entries := make([]*entry, len(keys))
	g, _ := errgroup.WithContext(context.Background())
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			e, err := computeEntry(key, data)
			if err != nil {
				return err
			}
			entries[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return newTag(entries), nil
}

// Verify reports whether candidate is an acceptable tag over data under
// any key currently in the keyring.
func (mac *Mac) Verify(data, candidate []byte) (bool, error) {
	tag, err := mac.Compute(data)
	if err != nil {
		return false, err
	}
	return tag.Verify(candidate), nil
}
