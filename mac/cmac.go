package mac

import (
	"crypto/aes"
	"crypto/cipher"
	"hash"

	"github.com/allisson/navajo/internal/cmac"
)

// cmacHash adapts the 128-bit-block cmac.Sum into a hash.Hash. Unlike
// a streaming hash, Write buffers the full message and Sum computes
// the CBC-MAC chain at finalization time, since CMAC's last-block
// subkey adjustment cannot be applied until the message end is known.
type cmacHash struct {
	block cipher.Block
	buf   []byte
}

func newCMAC(alg Algorithm, key []byte) (hash.Hash, error) {
	switch alg {
	case AESCMAC128, AESCMAC192, AESCMAC256:
	default:
		return nil, ErrUnsupportedAlgorithm
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &cmacHash{block: block}, nil
}

func (c *cmacHash) Write(p []byte) (int, error) {
	c.buf = append(c.buf, p...)
	return len(p), nil
}

func (c *cmacHash) Reset() { c.buf = c.buf[:0] }

func (c *cmacHash) Size() int { return c.block.BlockSize() }

func (c *cmacHash) BlockSize() int { return c.block.BlockSize() }

func (c *cmacHash) Sum(b []byte) []byte {
	return append(b, cmac.Sum(c.block, c.buf)...)
}
