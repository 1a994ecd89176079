package mac

import (
	"crypto/subtle"

	"github.com/allisson/navajo/keyring"
)

// entry is one key's contribution to a Tag: its wire header and the
// full-length MAC output computed under that key.
type entry struct {
	keyID     uint32
	isPrimary bool
	alg       Algorithm
	header    []byte
	output    []byte
}

func computeEntry(key *keyring.Key[*material], data []byte) (*entry, error) {
	m := key.Material()
	h, err := newHasher(m.alg, m.key)
	if err != nil {
		return nil, err
	}
	if _, err := h.Write(data); err != nil {
		return nil, err
	}
	return &entry{
		keyID:     key.ID(),
		isPrimary: key.Status() == keyring.StatusPrimary,
		alg:       m.alg,
		header:    header(key),
		output:    h.Sum(nil),
	}, nil
}

func constantTimeEqual(a, b []byte) bool {
	return len(a) == len(b) && subtle.ConstantTimeCompare(a, b) == 1
}

// verify checks candidate against this entry's output under the four
// layouts the wire format allows: header‖full, full alone, truncated
// alone, and header‖truncated. truncateTo is the verifying tag's own
// truncation length; when it is 0 the candidate's length is used, so an
// untruncated tag accepts any truncation of itself. A truncated layout
// needs at least 8 bytes of output (12 bytes in all with a 4-byte
// header).
func (e *entry) verify(candidate []byte, truncateTo int) bool {
	if len(candidate) < 8 {
		return false
	}
	h, o := e.header, e.output

	if constantTimeEqual(candidate, append(append([]byte(nil), h...), o...)) {
		return true
	}
	if constantTimeEqual(candidate, o) {
		return true
	}
	trunc := truncateTo
	if trunc == 0 {
		trunc = len(candidate)
	}
	if trunc <= len(o) && constantTimeEqual(candidate, o[:trunc]) {
		return true
	}
	if n := trunc - len(h); n >= 8 && n <= len(o) {
		if constantTimeEqual(candidate, append(append([]byte(nil), h...), o[:n]...)) {
			return true
		}
	}
	return false
}
