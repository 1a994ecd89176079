package mac

import "hash"

// newHasher returns a keyed hash.Hash for alg, dispatching across the
// HMAC, CMAC, and keyed-BLAKE3 families.
func newHasher(alg Algorithm, key []byte) (hash.Hash, error) {
	switch alg {
	case HMACSHA256, HMACSHA384, HMACSHA512, HMACSHA3256, HMACSHA3512:
		return newHMAC(alg, key)
	case AESCMAC128, AESCMAC192, AESCMAC256:
		return newCMAC(alg, key)
	case BLAKE3:
		return newBlake3(key)
	default:
		return nil, ErrUnsupportedAlgorithm
	}
}
