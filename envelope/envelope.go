// Package envelope seals and opens a primitive's keyring: it serializes
// the keyring to canonical JSON and, unless the caller supplies the
// plaintext sentinel, encrypts that JSON under a freshly generated data
// encryption key (DEK) itself wrapped by an injected Envelope
// implementation (in-memory, plaintext, or a KMS-backed Keeper).
package envelope

import (
	"context"

	navajoerrors "github.com/allisson/navajo/errors"
)

// Envelope wraps and unwraps a data encryption key under a
// higher-trust key, typically held in a KMS. Both operations take
// caller-supplied additional authenticated data.
type Envelope interface {
	EncryptDEK(ctx context.Context, aad, plaintext []byte) ([]byte, error)
	DecryptDEK(ctx context.Context, aad, ciphertext []byte) ([]byte, error)
}

// ErrSealFailed wraps an underlying Envelope.EncryptDEK failure.
var ErrSealFailed = navajoerrors.Wrap(navajoerrors.ErrUnspecified, "envelope: seal failed")

// ErrOpenFailed wraps an underlying Envelope.DecryptDEK failure, a
// corrupt container, or a wrong AAD.
var ErrOpenFailed = navajoerrors.Wrap(navajoerrors.ErrUnspecified, "envelope: open failed")
