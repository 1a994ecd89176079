// Package dsa implements digital signatures over a rotatable signing
// keyring: Ed25519 and fixed-width-R‖S ECDSA over P-256/P-384, with a
// read-only Verifier projection and JWS sign/verify helpers.
package dsa

import navajoerrors "github.com/allisson/navajo/errors"

// Algorithm identifies a signature algorithm and its JWS "alg" name.
type Algorithm string

const (
	Ed25519         Algorithm = "Ed25519"
	ECDSAP256SHA256 Algorithm = "ECDSA-P256-SHA256"
	ECDSAP384SHA384 Algorithm = "ECDSA-P384-SHA384"
)

// ErrUnsupportedAlgorithm is returned for any Algorithm value outside
// the set above.
var ErrUnsupportedAlgorithm = navajoerrors.Wrap(navajoerrors.ErrInvalidInput, "dsa: unsupported algorithm")

// jwsAlgName returns alg's JWS "alg" header value.
func (a Algorithm) jwsAlgName() (string, error) {
	switch a {
	case Ed25519:
		return "EdDSA", nil
	case ECDSAP256SHA256:
		return "ES256", nil
	case ECDSAP384SHA384:
		return "ES384", nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}

func algorithmFromJWSName(name string) (Algorithm, error) {
	switch name {
	case "EdDSA":
		return Ed25519, nil
	case "ES256":
		return ECDSAP256SHA256, nil
	case "ES384":
		return ECDSAP384SHA384, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}

// signatureSize returns alg's raw signature length: Ed25519's 64-byte
// output, or an ECDSA algorithm's fixed-width R‖S encoding (2x the
// curve's coordinate size, never ASN.1 DER).
func (a Algorithm) signatureSize() (int, error) {
	switch a {
	case Ed25519:
		return 64, nil
	case ECDSAP256SHA256:
		return 64, nil
	case ECDSAP384SHA384:
		return 96, nil
	default:
		return 0, ErrUnsupportedAlgorithm
	}
}
