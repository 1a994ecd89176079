package dsa

import (
	"context"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"encoding/base64"

	"github.com/allisson/navajo/envelope"
)

// Seal serializes the signer's public projection (pub_id and pub_key
// per spec.md §6, no private key material) and, unless env is the
// plaintext sentinel, encrypts it under env per spec.md §4.6.
func (s *Signer) Seal(ctx context.Context, env envelope.Envelope, aad []byte) ([]byte, error) {
	return envelope.Seal(ctx, s.keyring, "DSA", env, aad, marshalFields)
}

// OpenVerifier reconstructs a Verifier from a container produced by
// Seal. Because a sealed DSA keyring carries only public halves, it
// yields a Verifier rather than a Signer: the private keys needed to
// sign never round-trip through this format.
func OpenVerifier(ctx context.Context, data []byte, env envelope.Envelope, aad []byte) (*Verifier, error) {
	kr, err := envelope.Open[*material](ctx, data, "DSA", env, aad, buildMaterial)
	if err != nil {
		return nil, err
	}
	return newVerifier(kr.All()), nil
}

func marshalFields(m *material) (map[string]any, error) {
	pubKey, err := publicKeyBytes(m)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"pub_id":  m.pubID,
		"pub_key": base64.RawURLEncoding.EncodeToString(pubKey),
	}, nil
}

func publicKeyBytes(m *material) ([]byte, error) {
	switch m.alg {
	case Ed25519:
		return m.ed25519Pub, nil
	case ECDSAP256SHA256, ECDSAP384SHA384:
		curve, err := curveFor(m.alg)
		if err != nil {
			return nil, err
		}
		return elliptic.Marshal(curve, m.ecdsaPub.X, m.ecdsaPub.Y), nil
	default:
		return nil, ErrUnsupportedAlgorithm
	}
}

func buildMaterial(algorithm string, fields map[string]any) (*material, error) {
	alg := Algorithm(algorithm)
	pubID, _ := fields["pub_id"].(string)
	pubKeyStr, _ := fields["pub_key"].(string)
	pubKeyBytes, err := base64.RawURLEncoding.DecodeString(pubKeyStr)
	if err != nil {
		return nil, err
	}

	switch alg {
	case Ed25519:
		if len(pubKeyBytes) != ed25519.PublicKeySize {
			return nil, ErrUnsupportedAlgorithm
		}
		return &material{alg: alg, pubID: pubID, ed25519Pub: ed25519.PublicKey(pubKeyBytes)}, nil
	case ECDSAP256SHA256, ECDSAP384SHA384:
		curve, err := curveFor(alg)
		if err != nil {
			return nil, err
		}
		x, y := elliptic.Unmarshal(curve, pubKeyBytes)
		if x == nil {
			return nil, ErrUnsupportedAlgorithm
		}
		return &material{alg: alg, pubID: pubID, ecdsaPub: &ecdsa.PublicKey{Curve: curve, X: x, Y: y}}, nil
	default:
		return nil, ErrUnsupportedAlgorithm
	}
}
