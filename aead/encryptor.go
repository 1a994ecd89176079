package aead

import (
	"crypto/rand"
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"

	navajoerrors "github.com/allisson/navajo/errors"

	"github.com/allisson/navajo/keyring"
	"github.com/allisson/navajo/secure"
)

// ErrEmptyPlaintext is returned by Finalize when Update was never
// called with any data.
var ErrEmptyPlaintext = navajoerrors.Wrap(navajoerrors.ErrInvalidInput, "aead: empty plaintext")

// ErrEncryptorClosed is returned by Update or Finalize called after
// Finalize has already run.
var ErrEncryptorClosed = navajoerrors.Wrap(navajoerrors.ErrInvalidInput, "aead: encryptor already finalized")

// Encryptor implements the STREAM construction: update(aad, data)
// buffers plaintext and emits any full segments, finalize(aad) emits
// the terminal segment (or silently falls back to the Online path if
// the entire message fit within one segment's online budget).
type Encryptor struct {
	key         *keyring.Key[*material]
	alg         Algorithm
	segment     Segment
	segmentSize int
	tagSize     int
	nonceSize   int
	keySize     int
	salt        []byte
	subkey      []byte
	seq         *nonceSequence
	buf         []byte
	closed      bool
}

// NewEncryptor constructs an Encryptor over a's current primary key,
// segmenting output at segment's size.
func NewEncryptor(a *Aead, segment Segment) (*Encryptor, error) {
	primary := a.keyring.Primary()
	m := primary.Material()
	nonceSize, err := m.alg.NonceSize()
	if err != nil {
		return nil, err
	}
	tagSize, err := m.alg.TagSize()
	if err != nil {
		return nil, err
	}
	keySize, err := m.alg.KeySize()
	if err != nil {
		return nil, err
	}
	segSize, err := segment.Size()
	if err != nil {
		return nil, err
	}
	salt := make([]byte, keySize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	seq, err := newNonceSequence(nonceSize, nil)
	if err != nil {
		return nil, err
	}
	return &Encryptor{
		key: primary, alg: m.alg, segment: segment, segmentSize: segSize,
		tagSize: tagSize, nonceSize: nonceSize, keySize: keySize,
		salt: salt, seq: seq,
	}, nil
}

func (e *Encryptor) headerLen() int {
	return 1 + len(keyTag(e.key)) + e.keySize + (e.nonceSize - 5)
}

func (e *Encryptor) onlineHeaderLen() int {
	return 1 + len(keyTag(e.key)) + e.nonceSize
}

func (e *Encryptor) ensureSubkey(aad []byte) error {
	if e.subkey != nil {
		return nil
	}
	subkey := make([]byte, e.keySize)
	kdf := hkdf.New(sha256.New, e.key.Material().key, e.salt, aad)
	if _, err := io.ReadFull(kdf, subkey); err != nil {
		return err
	}
	e.subkey = subkey
	return nil
}

// Update appends data to the internal buffer and returns the wire
// bytes of any segments that became full as a result.
func (e *Encryptor) Update(aad, data []byte) ([][]byte, error) {
	if e.closed {
		return nil, ErrEncryptorClosed
	}
	e.buf = append(e.buf, data...)

	var out [][]byte
	for {
		budget := e.segmentSize - e.tagSize
		if e.seq.counter == 0 {
			budget -= e.headerLen()
		}
		if len(e.buf) <= budget {
			return out, nil
		}
		seg, err := e.emitSegment(aad, budget, false)
		if err != nil {
			return out, err
		}
		out = append(out, seg)
	}
}

func (e *Encryptor) emitSegment(aad []byte, n int, final bool) ([]byte, error) {
	first := e.seq.counter == 0
	if first {
		if err := e.ensureSubkey(aad); err != nil {
			return nil, err
		}
	}
	plaintext := e.buf[:n]
	e.buf = e.buf[n:]

	var nonce []byte
	var err error
	if final {
		nonce, err = e.seq.last()
	} else {
		nonce, err = e.seq.next()
	}
	if err != nil {
		return nil, err
	}

	c, err := newCipher(e.alg, e.subkey)
	if err != nil {
		return nil, err
	}
	ciphertext := c.Seal(nil, nonce, plaintext, aad)

	if !first {
		return ciphertext, nil
	}
	header := make([]byte, 0, e.headerLen())
	header = append(header, e.segment.methodByte())
	header = append(header, keyTag(e.key)...)
	header = append(header, e.salt...)
	header = append(header, e.seq.prefix()...)
	return append(header, ciphertext...), nil
}

// Finalize emits the terminal segment and closes the Encryptor. If the
// entire message never exceeded one segment's online budget, it
// transparently emits an Online-framed ciphertext instead of a
// one-segment STREAM ciphertext, matching the source's finalize-time
// fallback.
func (e *Encryptor) Finalize(aad []byte) ([]byte, error) {
	if e.closed {
		return nil, ErrEncryptorClosed
	}
	e.closed = true

	if e.seq.counter == 0 {
		if len(e.buf) == 0 {
			return nil, ErrEmptyPlaintext
		}
		onlineBudget := e.segmentSize - e.onlineHeaderLen() - e.tagSize
		if len(e.buf) <= onlineBudget {
			return e.encryptOnline(aad)
		}
	}
	return e.emitSegment(aad, len(e.buf), true)
}

func (e *Encryptor) encryptOnline(aad []byte) ([]byte, error) {
	m := e.key.Material()
	c, err := newCipher(m.alg, m.key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, e.nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	ciphertext := c.Seal(nil, nonce, e.buf, aad)

	header := make([]byte, 0, e.onlineHeaderLen())
	header = append(header, methodOnline)
	header = append(header, keyTag(e.key)...)
	header = append(header, nonce...)
	return append(header, ciphertext...), nil
}

// Close zeroizes derived key material without finalizing. Safe to call
// after Finalize.
func (e *Encryptor) Close() {
	secure.ZeroAll(e.subkey, e.salt, e.buf)
}
