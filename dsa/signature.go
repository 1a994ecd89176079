package dsa

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"math/big"
)

// Signature is a raw signature, sized and laid out per its producing
// algorithm: Ed25519's 64-byte output, or an ECDSA algorithm's
// fixed-width R‖S encoding (never ASN.1 DER), matching spec.md §4.5.
type Signature []byte

func sign(m *material, msg []byte) (Signature, error) {
	switch m.alg {
	case Ed25519:
		return Signature(ed25519.Sign(m.ed25519Priv, msg)), nil
	case ECDSAP256SHA256:
		digest := sha256.Sum256(msg)
		return signECDSA(m, digest[:])
	case ECDSAP384SHA384:
		digest := sha512.Sum384(msg)
		return signECDSA(m, digest[:])
	default:
		return nil, ErrUnsupportedAlgorithm
	}
}

func signECDSA(m *material, digest []byte) (Signature, error) {
	size, err := m.alg.signatureSize()
	if err != nil {
		return nil, err
	}
	half := size / 2
	r, s, err := ecdsa.Sign(rand.Reader, m.ecdsaPriv, digest)
	if err != nil {
		return nil, err
	}
	out := make([]byte, size)
	r.FillBytes(out[:half])
	s.FillBytes(out[half:])
	return Signature(out), nil
}

func verify(m *material, msg []byte, sig []byte) bool {
	switch m.alg {
	case Ed25519:
		if len(sig) != ed25519.SignatureSize {
			return false
		}
		return ed25519.Verify(m.ed25519Pub, msg, sig)
	case ECDSAP256SHA256:
		digest := sha256.Sum256(msg)
		return verifyECDSA(m, digest[:], sig)
	case ECDSAP384SHA384:
		digest := sha512.Sum384(msg)
		return verifyECDSA(m, digest[:], sig)
	default:
		return false
	}
}

func verifyECDSA(m *material, digest, sig []byte) bool {
	size, err := m.alg.signatureSize()
	if err != nil || len(sig) != size {
		return false
	}
	half := size / 2
	r := new(big.Int).SetBytes(sig[:half])
	s := new(big.Int).SetBytes(sig[half:])
	return ecdsa.Verify(m.ecdsaPub, digest, r, s)
}
