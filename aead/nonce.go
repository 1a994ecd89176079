package aead

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	"math"

	navajoerrors "github.com/allisson/navajo/errors"
)

// ErrSegmentLimitExceeded is returned when a nonce sequence's 32-bit
// segment counter would wrap, per spec invariant A2.
var ErrSegmentLimitExceeded = navajoerrors.Wrap(navajoerrors.ErrInvalidInput, "aead: segment limit exceeded")

// nonceSequence derives the per-segment nonce for the STREAM
// construction: a fixed random prefix, a 4-byte big-endian segment
// counter, and a trailing flag byte set to 1 on exactly the terminal
// segment. Grounded on
// original_source/navajo/src/aead/nonce.rs's NonceSequence, generalized
// from its fixed 12/24-byte enum variants to a single []byte seed sized
// by the algorithm's nonce length.
type nonceSequence struct {
	seed    []byte
	counter uint32
}

func newNonceSequence(nonceSize int, r io.Reader) (*nonceSequence, error) {
	if r == nil {
		r = rand.Reader
	}
	seed := make([]byte, nonceSize)
	if _, err := io.ReadFull(r, seed[:nonceSize-5]); err != nil {
		return nil, err
	}
	return &nonceSequence{seed: seed}, nil
}

func newNonceSequenceWithPrefix(nonceSize int, prefix []byte) (*nonceSequence, error) {
	if len(prefix) != nonceSize-5 {
		return nil, ErrMalformedHeader
	}
	seed := make([]byte, nonceSize)
	copy(seed, prefix)
	return &nonceSequence{seed: seed}, nil
}

func (s *nonceSequence) prefix() []byte {
	return s.seed[:len(s.seed)-5]
}

func (s *nonceSequence) setCounter(v uint32) {
	n := len(s.seed)
	binary.BigEndian.PutUint32(s.seed[n-5:n-1], v)
	s.counter = v
}

// next returns the nonce for the current counter value with the
// last-segment flag unset, then advances the counter.
func (s *nonceSequence) next() ([]byte, error) {
	if s.counter == math.MaxUint32 {
		return nil, ErrSegmentLimitExceeded
	}
	out := append([]byte(nil), s.seed...)
	s.setCounter(s.counter + 1)
	return out, nil
}

// last returns the nonce for the current counter value with the
// last-segment flag set, without advancing the counter further. Unlike
// next, counter == math.MaxUint32 is accepted here: that value is a
// legitimate index for the final segment, and only a next call that
// would advance past it (implying a 2^32nd segment) is disallowed.
func (s *nonceSequence) last() ([]byte, error) {
	out := append([]byte(nil), s.seed...)
	out[len(out)-1] = 1
	return out, nil
}
