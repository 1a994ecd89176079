package mac

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"hash"

	"golang.org/x/crypto/sha3"
)

func newHMAC(alg Algorithm, key []byte) (hash.Hash, error) {
	var base func() hash.Hash
	switch alg {
	case HMACSHA256:
		base = sha256.New
	case HMACSHA384:
		base = sha512.New384
	case HMACSHA512:
		base = sha512.New
	case HMACSHA3256:
		base = sha3.New256
	case HMACSHA3512:
		base = sha3.New512
	default:
		return nil, ErrUnsupportedAlgorithm
	}
	return hmac.New(base, key), nil
}
