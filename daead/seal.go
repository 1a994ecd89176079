package daead

import (
	"context"
	"encoding/base64"

	"github.com/allisson/navajo/envelope"
)

// Seal serializes the DAEAD keyring per spec.md §6 and, unless env is
// the plaintext sentinel, encrypts it under env per spec.md §4.6.
func (d *Daead) Seal(ctx context.Context, env envelope.Envelope, aad []byte) ([]byte, error) {
	return envelope.Seal(ctx, d.keyring, "DAEAD", env, aad, marshalFields)
}

// Open reconstructs a Daead from a container produced by Seal.
func Open(ctx context.Context, data []byte, env envelope.Envelope, aad []byte) (*Daead, error) {
	kr, err := envelope.Open[*material](ctx, data, "DAEAD", env, aad, buildMaterial)
	if err != nil {
		return nil, err
	}
	return &Daead{keyring: kr}, nil
}

func marshalFields(m *material) (map[string]any, error) {
	value := append(append([]byte(nil), m.macKey...), m.ctrKey...)
	return map[string]any{
		"value": base64.RawURLEncoding.EncodeToString(value),
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
