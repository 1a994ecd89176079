package mac

import (
	"context"
	"encoding/base64"

	"github.com/allisson/navajo/envelope"
)

// Seal serializes the MAC keyring per spec.md §6 and, unless env is
// the plaintext sentinel, encrypts it under env per spec.md §4.6.
func (mac *Mac) Seal(ctx context.Context, env envelope.Envelope, aad []byte) ([]byte, error) {
	return envelope.Seal(ctx, mac.keyring, "MAC", env, aad, marshalFields)
}

// Open reconstructs a Mac from a container produced by Seal.
func Open(ctx context.Context, data []byte, env envelope.Envelope, aad []byte) (*Mac, error) {
	kr, err := envelope.Open[*material](ctx, data, "MAC", env, aad, buildMaterial)
	if err != nil {
		return nil, err
	}
	return &Mac{keyring: kr}, nil
}

func marshalFields(m *material) (map[string]any, error) {
	return map[string]any{
		"value": base64.RawURLEncoding.EncodeToString(m.key),
	}, nil
}

func buildMaterial(algorithm string, fields map[string]any) (*material, error) {
	alg := Algorithm(algorithm)
	if _, err := alg.KeySize(); err != nil {
		return nil, err
	}
	value, _ := fields["value"].(string)
	key, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, err
	}
	return newExternalMaterial(alg, key)
}
