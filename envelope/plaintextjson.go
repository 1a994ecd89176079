package envelope

import "context"

// PlaintextJSON is the sentinel Envelope that performs no encryption:
// Seal emits the keyring's canonical JSON unchanged, and Open parses
// it directly. It exists so a keyring can be persisted without a KMS
// dependency when confidentiality of the keyring itself is not
// required (e.g. a MAC or DSA verification-only keyring).
type PlaintextJSON struct{}

func (PlaintextJSON) EncryptDEK(_ context.Context, _, _ []byte) ([]byte, error) {
	return nil, nil
}

func (PlaintextJSON) DecryptDEK(_ context.Context, _, _ []byte) ([]byte, error) {
	return nil, nil
}

// IsPlaintext reports whether env is the PlaintextJSON sentinel, the
// signal Seal and Open use to bypass DEK wrapping entirely rather than
// wrapping an empty DEK.
func IsPlaintext(env Envelope) bool {
	_, ok := env.(PlaintextJSON)
	return ok
}
