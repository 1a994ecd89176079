package keyring

// Material is the secret (and, for DSA, public) payload a keyring entry
// carries. Each primitive package defines its own concrete type satisfying
// this interface (aead.material, mac.material, dsa.material, ...).
type Material interface {
	// Algorithm returns the algorithm identifier this material was
	// generated for, e.g. "AES-256-GCM" or "Ed25519". Used for KeyInfo
	// reporting and lifecycle log lines; the I4 same-primitive-kind
	// invariant is enforced by the Keyring's type parameter, not by this
	// value.
	Algorithm() string

	// Zero wipes the material's secret bytes in place. Called when a key
	// is removed from a keyring (Remove) or the keyring is closed (Close).
	Zero()
}
