package daead

import (
	"crypto/aes"

	"github.com/allisson/navajo/internal/cmac"
)

// s2v computes the RFC 5297 §2.4 S2V construction over a single
// associated-data string and the plaintext, using macKey as the CMAC
// key. This is the vector-input MAC AES-SIV derives its synthetic IV
// from: S2V(K, AD, P).
func s2v(macKey, aad, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(macKey)
	if err != nil {
		return nil, err
	}

	d := cmac.Sum(block, make([]byte, block.BlockSize()))
	d = xor(cmac.Double(d), cmac.Sum(block, aad))

	var t []byte
	if len(plaintext) >= block.BlockSize() {
		t = xorEnd(plaintext, d)
	} else {
		padded := make([]byte, block.BlockSize())
		copy(padded, plaintext)
		padded[len(plaintext)] = 0x80
		t = xor(cmac.Double(d), padded)
	}
	return cmac.Sum(block, t), nil
}

func xor(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// xorEnd returns a copy of s with the trailing len(d) bytes XORed with d.
func xorEnd(s, d []byte) []byte {
	out := append([]byte(nil), s...)
	offset := len(out) - len(d)
	for i := range d {
		out[offset+i] ^= d[i]
	}
	return out
}
