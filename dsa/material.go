package dsa

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"io"
	"math/big"

	"github.com/allisson/navajo/secure"
)

// material is one signing key's private and public halves, tagged with
// its algorithm and publicly advertised pub_id (the JWS "kid").
type material struct {
	alg         Algorithm
	pubID       string
	ed25519Priv ed25519.PrivateKey
	ed25519Pub  ed25519.PublicKey
	ecdsaPriv   *ecdsa.PrivateKey
	ecdsaPub    *ecdsa.PublicKey
}

func (m *material) Algorithm() string { return string(m.alg) }

// Zero wipes the signing key's private material. Ed25519's private key
// is a plain byte slice and is wiped directly; crypto/ecdsa does not
// expose a raw byte buffer for its scalar, so this is a best-effort
// zeroization that clears the retained big.Int rather than guaranteeing
// every copy the runtime made is gone.
func (m *material) Zero() {
	if m.ed25519Priv != nil {
		secure.Zero(m.ed25519Priv)
	}
	if m.ecdsaPriv != nil {
		m.ecdsaPriv.D.SetInt64(0)
	}
}

func curveFor(alg Algorithm) (elliptic.Curve, error) {
	switch alg {
	case ECDSAP256SHA256:
		return elliptic.P256(), nil
	case ECDSAP384SHA384:
		return elliptic.P384(), nil
	default:
		return nil, ErrUnsupportedAlgorithm
	}
}

func newMaterial(alg Algorithm, pubID string, r io.Reader) (*material, error) {
	switch alg {
	case Ed25519:
		pub, priv, err := ed25519.GenerateKey(r)
		if err != nil {
			return nil, err
		}
		return &material{alg: alg, pubID: pubID, ed25519Priv: priv, ed25519Pub: pub}, nil
	case ECDSAP256SHA256, ECDSAP384SHA384:
		curve, err := curveFor(alg)
		if err != nil {
			return nil, err
		}
		priv, err := ecdsa.GenerateKey(curve, r)
		if err != nil {
			return nil, err
		}
		return &material{alg: alg, pubID: pubID, ecdsaPriv: priv, ecdsaPub: &priv.PublicKey}, nil
	default:
		return nil, ErrUnsupportedAlgorithm
	}
}

// newExternalMaterial imports a caller-supplied private key: a 32-byte
// Ed25519 seed, or a big-endian ECDSA scalar sized to the curve's byte
// width.
func newExternalMaterial(alg Algorithm, pubID string, privateKey []byte) (*material, error) {
	switch alg {
	case Ed25519:
		if len(privateKey) != ed25519.SeedSize {
			return nil, ErrUnsupportedAlgorithm
		}
		priv := ed25519.NewKeyFromSeed(privateKey)
		return &material{alg: alg, pubID: pubID, ed25519Priv: priv, ed25519Pub: priv.Public().(ed25519.PublicKey)}, nil
	case ECDSAP256SHA256, ECDSAP384SHA384:
		curve, err := curveFor(alg)
		if err != nil {
			return nil, err
		}
		if len(privateKey) != (curve.Params().BitSize+7)/8 {
			return nil, ErrUnsupportedAlgorithm
		}
		d := new(big.Int).SetBytes(privateKey)
		x, y := curve.ScalarBaseMult(privateKey)
		priv := &ecdsa.PrivateKey{
			PublicKey: ecdsa.PublicKey{Curve: curve, X: x, Y: y},
			D:         d,
		}
		return &material{alg: alg, pubID: pubID, ecdsaPriv: priv, ecdsaPub: &priv.PublicKey}, nil
	default:
		return nil, ErrUnsupportedAlgorithm
	}
}
