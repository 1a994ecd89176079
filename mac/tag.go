package mac

import navajoerrors "github.com/allisson/navajo/errors"

var (
	// ErrTagTooShort is returned by Truncate for a length below the
	// algorithm's minimum (8 bytes, or 12 with the header included).
	ErrTagTooShort = navajoerrors.Wrap(navajoerrors.ErrInvalidInput, "mac: truncation length too short")

	// ErrVerificationFailed is the error class of a rejected tag. Tag.Verify
	// and Mac.Verify do not return it; they report a rejection as false.
	ErrVerificationFailed = navajoerrors.ErrUnspecified
)

// Tag is the result of a MAC compute: one Entry per keyring member at
// the time of computation, plus the primary entry used for output.
type Tag struct {
	entries    []*entry
	primaryIdx int
	omitHeader bool
	truncateTo int
}

func newTag(entries []*entry) *Tag {
	primaryIdx := len(entries) - 1
	for i, e := range entries {
		if e.isPrimary {
			primaryIdx = i
			break
		}
	}
	return &Tag{entries: entries, primaryIdx: primaryIdx}
}

func (t *Tag) clone() *Tag {
	c := *t
	return &c
}

// RemoveTruncation returns a copy of t with any truncation cleared.
func (t *Tag) RemoveTruncation() *Tag {
	c := t.clone()
	c.truncateTo = 0
	return c
}

// OmitHeader returns a copy of t whose AsBytes output omits the header.
func (t *Tag) OmitHeader() *Tag {
	c := t.clone()
	c.omitHeader = true
	return c
}

// IncludeHeader returns a copy of t whose AsBytes output includes the
// header (the default).
func (t *Tag) IncludeHeader() *Tag {
	c := t.clone()
	c.omitHeader = false
	return c
}

// Truncate returns a copy of t truncated to len bytes. A len of 0 is
// equivalent to RemoveTruncation. len must be at least the primary
// entry's algorithm's minimum truncation length (8 bytes unless the
// algorithm declares a higher floor), and at least 4 bytes more than
// that unless the header is omitted. An algorithm declaring itself
// non-truncatable rejects any non-zero length with ErrNotTruncatable.
func (t *Tag) Truncate(length int) (*Tag, error) {
	if length == 0 {
		return t.RemoveTruncation(), nil
	}
	s, err := spec(t.entries[t.primaryIdx].alg)
	if err != nil {
		return nil, err
	}
	if !s.truncatable {
		return nil, ErrNotTruncatable
	}
	if length < s.minTrunc {
		return nil, ErrTagTooShort
	}
	if !t.omitHeader && length < s.minTrunc+4 {
		return nil, ErrTagTooShort
	}
	c := t.clone()
	c.truncateTo = length
	return c, nil
}

// AsBytes returns the primary entry's header (unless omitted) followed
// by its output, truncated if requested.
func (t *Tag) AsBytes() []byte {
	primary := t.entries[t.primaryIdx]
	var out []byte
	if t.omitHeader {
		out = primary.output
	} else {
		out = append(append([]byte(nil), primary.header...), primary.output...)
	}
	if t.truncateTo > 0 && t.truncateTo < len(out) {
		out = out[:t.truncateTo]
	}
	return out
}

// Update recomputes a tag against mac's current keyring, dropping
// entries for keys no longer present and adding entries for keys that
// have joined since t was computed. omit_header and truncate_to carry
// over from t where the new tag is long enough to support them.
func (t *Tag) Update(data []byte, mac *Mac) (*Tag, error) {
	fresh, err := mac.Compute(data)
	if err != nil {
		return nil, err
	}
	fresh.omitHeader = t.omitHeader
	if t.truncateTo > 0 {
		if s, err := spec(fresh.entries[fresh.primaryIdx].alg); err == nil && s.truncatable {
			minLen := s.minTrunc
			if !fresh.omitHeader {
				minLen += 4
			}
			if t.truncateTo >= minLen {
				fresh.truncateTo = t.truncateTo
			}
		}
	}
	return fresh, nil
}

// Verify reports whether candidate is accepted by any entry in t under
// any of the four wire layouts (header‖full, full, truncated,
// header‖truncated), in constant time per comparison.
func (t *Tag) Verify(candidate []byte) bool {
	for _, e := range t.entries {
		if e.verify(candidate, t.truncateTo) {
			return true
		}
	}
	return false
}
