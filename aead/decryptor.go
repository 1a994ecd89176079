package aead

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"

	navajoerrors "github.com/allisson/navajo/errors"

	"github.com/allisson/navajo/keyring"
	"github.com/allisson/navajo/secure"
)

// ErrDecryptorClosed is returned by Update or Finalize called after
// Finalize has already run.
var ErrDecryptorClosed = navajoerrors.Wrap(navajoerrors.ErrInvalidInput, "aead: decryptor already finalized")

// ErrEmptyCiphertext is returned by Finalize when no bytes at all were
// ever supplied, or when a streaming header arrived with no segment
// bytes after it.
var ErrEmptyCiphertext = navajoerrors.Wrap(navajoerrors.ErrInvalidInput, "aead: empty ciphertext")

// Decryptor consumes a ciphertext produced by Encryptor (or Aead.Encrypt)
// segment by segment, resolving the signing key and STREAM parameters
// from the wire header on first use. The header (method byte, key tag,
// and for streaming ciphertexts, salt and nonce prefix) may arrive
// split across any number of Update calls, including byte-at-a-time;
// while it is incomplete, Update simply buffers and returns no
// plaintext and no error.
type Decryptor struct {
	kr *keyring.Keyring[*material]

	headerParsed bool
	online       bool
	closed       bool

	key     *keyring.Key[*material]
	alg     Algorithm
	nonce   []byte // online path only
	seq     *nonceSequence
	subkey  []byte
	segSize int
	tagSize int
	hdrLen  int

	buf []byte
}

// NewDecryptor constructs a Decryptor that resolves keys against a's
// keyring.
func NewDecryptor(a *Aead) *Decryptor {
	return &Decryptor{kr: a.keyring}
}

// parseHeader attempts to parse the header buffered so far. It reports
// (true, nil) once the header is fully resolved, (false, nil) when the
// bytes seen so far are a valid prefix of some header but more are
// needed, and (false, err) only once the buffered bytes definitively
// can't form a valid header (bad Method byte, or a key tag that
// matches no keyring member). On incomplete, d.buf is left untouched
// so the next Update call can simply append and retry — consistent
// with spec's "incomplete header: wait for more data, don't consume
// input destructively" contract.
func (d *Decryptor) parseHeader(aad []byte) (bool, error) {
	if len(d.buf) < 1 {
		return false, nil
	}
	method := d.buf[0]
	candidate := d.buf[1:]

	if method == methodOnline {
		key, rest, needMore, err := resolveKeyTag(d.kr.All(), candidate)
		if err != nil {
			return false, err
		}
		if needMore {
			return false, nil
		}
		m := key.Material()
		nonceSize, err := m.alg.NonceSize()
		if err != nil {
			return false, err
		}
		if len(rest) < nonceSize {
			return false, nil
		}
		d.online = true
		d.key = key
		d.alg = m.alg
		d.nonce = append([]byte(nil), rest[:nonceSize]...)
		d.buf = rest[nonceSize:]
		d.headerParsed = true
		return true, nil
	}

	seg, ok := segmentFromMethodByte(method)
	if !ok {
		return false, ErrMalformedHeader
	}
	key, rest, needMore, err := resolveKeyTag(d.kr.All(), candidate)
	if err != nil {
		return false, err
	}
	if needMore {
		return false, nil
	}
	m := key.Material()
	keySize, err := m.alg.KeySize()
	if err != nil {
		return false, err
	}
	nonceSize, err := m.alg.NonceSize()
	if err != nil {
		return false, err
	}
	tagSize, err := m.alg.TagSize()
	if err != nil {
		return false, err
	}
	noncePrefixLen := nonceSize - 5
	if len(rest) < keySize+noncePrefixLen {
		return false, nil
	}
	salt := rest[:keySize]
	noncePrefix := rest[keySize : keySize+noncePrefixLen]

	segSize, err := seg.Size()
	if err != nil {
		return false, err
	}
	seq, err := newNonceSequenceWithPrefix(nonceSize, noncePrefix)
	if err != nil {
		return false, err
	}
	subkey := make([]byte, keySize)
	kdf := hkdf.New(sha256.New, m.key, salt, aad)
	if _, err := io.ReadFull(kdf, subkey); err != nil {
		return false, err
	}

	d.key = key
	d.alg = m.alg
	d.segSize = segSize
	d.tagSize = tagSize
	d.seq = seq
	d.subkey = subkey
	d.hdrLen = 1 + len(keyTag(key)) + keySize + noncePrefixLen
	d.buf = rest[keySize+noncePrefixLen:]
	d.headerParsed = true
	return true, nil
}

func (d *Decryptor) chunkLen() int {
	if d.seq.counter == 0 {
		return d.segSize - d.hdrLen
	}
	return d.segSize
}

// Update feeds ciphertext bytes and returns the plaintext of any
// segments that could be fully decoded as a result. The Online path
// never returns data from Update; its single segment is only available
// from Finalize.
func (d *Decryptor) Update(aad, data []byte) ([][]byte, error) {
	if d.closed {
		return nil, ErrDecryptorClosed
	}
	d.buf = append(d.buf, data...)
	if !d.headerParsed {
		complete, err := d.parseHeader(aad)
		if err != nil {
			return nil, err
		}
		if !complete {
			return nil, nil
		}
	}
	if d.online {
		return nil, nil
	}

	var out [][]byte
	for {
		chunk := d.chunkLen()
		if len(d.buf) <= chunk {
			return out, nil
		}
		ciphertext := d.buf[:chunk]
		d.buf = d.buf[chunk:]

		nonce, err := d.seq.next()
		if err != nil {
			return nil, err
		}
		c, err := newCipher(d.alg, d.subkey)
		if err != nil {
			return nil, err
		}
		plaintext, err := c.Open(nil, nonce, ciphertext, aad)
		if err != nil {
			return nil, err
		}
		out = append(out, plaintext)
	}
}

// Finalize decrypts the terminal segment (or, for the Online path, the
// single sealed payload) and closes the Decryptor.
func (d *Decryptor) Finalize(aad []byte) ([]byte, error) {
	if d.closed {
		return nil, ErrDecryptorClosed
	}
	d.closed = true

	if !d.headerParsed && len(d.buf) == 0 {
		return nil, ErrEmptyCiphertext
	}
	if !d.headerParsed {
		complete, err := d.parseHeader(aad)
		if err != nil {
			return nil, err
		}
		if !complete {
			return nil, ErrMalformedHeader
		}
	}

	if d.online {
		m := d.key.Material()
		c, err := newCipher(m.alg, m.key)
		if err != nil {
			return nil, err
		}
		return c.Open(nil, d.nonce, d.buf, aad)
	}

	if len(d.buf) == 0 && d.seq.counter == 0 {
		return nil, ErrEmptyCiphertext
	}
	nonce, err := d.seq.last()
	if err != nil {
		return nil, err
	}
	c, err := newCipher(d.alg, d.subkey)
	if err != nil {
		return nil, err
	}
	return c.Open(nil, nonce, d.buf, aad)
}

// Close zeroizes derived key material. Safe to call after Finalize.
func (d *Decryptor) Close() {
	secure.ZeroAll(d.subkey, d.buf)
}
