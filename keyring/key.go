package keyring

import "time"

// Key is one entry in a Keyring: an id, its lifecycle status and origin,
// the primitive-specific material, optional metadata, and a creation
// timestamp. A Key is immutable once constructed; lifecycle transitions
// replace it with a modified copy rather than mutating it in place, so a
// reader holding a reference from a prior snapshot never observes a
// half-applied transition.
type Key[M Material] struct {
	id        uint32
	status    Status
	origin    Origin
	material  M
	metadata  map[string]any
	prefix    []byte
	createdAt time.Time
}

// ID returns the key's stable 32-bit identifier.
func (k *Key[M]) ID() uint32 { return k.id }

// Status returns the key's current lifecycle status.
func (k *Key[M]) Status() Status { return k.status }

// Origin reports whether this key was generated internally or imported.
func (k *Key[M]) Origin() Origin { return k.origin }

// Material returns the key's algorithm-specific secret (and, for DSA,
// public) payload.
func (k *Key[M]) Material() M { return k.material }

// Metadata returns the key's caller-supplied metadata, or nil if unset.
// The returned map must not be mutated.
func (k *Key[M]) Metadata() map[string]any { return k.metadata }

// Prefix returns the caller-supplied header prefix for an External-origin
// key, or nil for a Navajo-origin key (which uses its 4-byte id instead).
func (k *Key[M]) Prefix() []byte { return k.prefix }

// CreatedAt returns the key's creation timestamp.
func (k *Key[M]) CreatedAt() time.Time { return k.createdAt }

func (k *Key[M]) withStatus(s Status) *Key[M] {
	c := *k
	c.status = s
	return &c
}

func (k *Key[M]) withMetadata(m map[string]any) *Key[M] {
	c := *k
	c.metadata = m
	return &c
}

// Info returns the key's public-facing summary.
func (k *Key[M]) Info() KeyInfo {
	return KeyInfo{
		ID:        k.id,
		Status:    k.status,
		Origin:    k.origin,
		Algorithm: k.material.Algorithm(),
		CreatedAt: k.createdAt,
	}
}

// KeyInfo is the read-only summary of a Key returned by Keyring.Keys,
// Keyring.Add, Keyring.AddExternal and Key.Info. Status always reflects
// the key's actual lifecycle state —
// never derived from its position or id.
type KeyInfo struct {
	ID        uint32
	Status    Status
	Origin    Origin
	Algorithm string
	CreatedAt time.Time
}
