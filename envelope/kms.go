package envelope

import (
	"context"
	"fmt"

	"gocloud.dev/secrets"

	// Register all KMS provider drivers so a key URI of any supported
	// scheme can be opened without the caller importing drivers itself.
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KMS wraps a gocloud.dev/secrets.Keeper as an Envelope, so any of
// gocloud's supported providers (GCP KMS, AWS KMS, Azure Key Vault,
// HashiCorp Vault, or a local base64 key for development) can back a
// production Seal/Open.
type KMS struct {
	keeper *secrets.Keeper
}

// OpenKMS opens a secrets.Keeper for keyURI (e.g. "gcpkms://...",
// "awskms://...", "azurekeyvault://...", "hashivault://...",
// "base64key://...") and wraps it as an Envelope.
func OpenKMS(ctx context.Context, keyURI string) (*KMS, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("envelope: open kms keeper: %w", err)
	}
	return &KMS{keeper: keeper}, nil
}

// Close releases the underlying Keeper's resources.
func (k *KMS) Close() error {
	return k.keeper.Close()
}

// EncryptDEK wraps plaintext via the underlying Keeper. gocloud's
// secrets.Keeper carries no AAD parameter, so aad is accepted for
// interface conformance but not bound into the wrapped DEK; callers
// relying on KMS-side AAD binding should use a provider-specific
// Keeper option instead.
func (k *KMS) EncryptDEK(ctx context.Context, aad, plaintext []byte) ([]byte, error) {
	return k.keeper.Encrypt(ctx, plaintext)
}

func (k *KMS) DecryptDEK(ctx context.Context, aad, ciphertext []byte) ([]byte, error) {
	return k.keeper.Decrypt(ctx, ciphertext)
}
