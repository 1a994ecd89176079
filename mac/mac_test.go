package mac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestComputeVerifyRoundTrip(t *testing.T) {
	algs := []Algorithm{HMACSHA256, HMACSHA384, HMACSHA512, HMACSHA3256, HMACSHA3512, AESCMAC128, AESCMAC192, AESCMAC256, BLAKE3}
	for _, alg := range algs {
		alg := alg
		t.Run(string(alg), func(t *testing.T) {
			m, err := New(alg)
			require.NoError(t, err)

			tag, err := m.Compute([]byte("hello navajo"))
			require.NoError(t, err)
			assert.True(t, tag.Verify(tag.AsBytes()))
			assert.False(t, tag.Verify([]byte("not the tag")))
		})
	}
}

// TestMultiKeyVerification exercises key rotation: a tag computed while
// key1 is primary must still verify after key2 is added and promoted,
// since verify scans every keyring member, not just the primary.
func TestMultiKeyVerification(t *testing.T) {
	m, err := New(HMACSHA256)
	require.NoError(t, err)

	msg := []byte("a message signed under the original primary")
	tag, err := m.Compute(msg)
	require.NoError(t, err)
	originalBytes := tag.AsBytes()

	info, err := m.Add(HMACSHA256)
	require.NoError(t, err)
	require.NoError(t, m.Keyring().Promote(info.ID))

	ok, err := m.Verify(msg, originalBytes)
	require.NoError(t, err)
	assert.True(t, ok, "a tag computed under the old primary must still verify after rotation")
}

func TestTagTruncation(t *testing.T) {
	m, err := New(HMACSHA256)
	require.NoError(t, err)
	tag, err := m.Compute([]byte("truncate me"))
	require.NoError(t, err)

	t.Run("below minimum with header fails", func(t *testing.T) {
		_, err := tag.Truncate(7)
		assert.ErrorIs(t, err, ErrTagTooShort)
	})

	t.Run("8 bytes with omit_header accepts", func(t *testing.T) {
		truncated, err := tag.OmitHeader().Truncate(8)
		require.NoError(t, err)
		assert.Len(t, truncated.AsBytes(), 8)
		assert.True(t, tag.Verify(truncated.AsBytes()))
	})

	t.Run("12 bytes without omit_header accepts", func(t *testing.T) {
		truncated, err := tag.Truncate(12)
		require.NoError(t, err)
		assert.Len(t, truncated.AsBytes(), 12)
		assert.True(t, tag.Verify(truncated.AsBytes()))
	})
}

// TestTruncationPreservesAcceptance is the spec's invariant 6: for any
// tag T and truncation length L >= 8, verify(truncate(T, L).as_bytes())
// against the original, untruncated tag still accepts. The header is
// omitted, since with it included the minimum length is 12.
func TestTruncationPreservesAcceptance(t *testing.T) {
	m, err := New(BLAKE3)
	require.NoError(t, err)
	tag, err := m.Compute([]byte("payload"))
	require.NoError(t, err)

	for _, length := range []int{8, 12, 16, 24, 32} {
		length := length
		t.Run("", func(t *testing.T) {
			truncated, err := tag.OmitHeader().Truncate(length)
			require.NoError(t, err)
			assert.True(t, tag.Verify(truncated.AsBytes()))
		})
	}
}

func TestExternalKeyUsesPrefixAsHeader(t *testing.T) {
	key := make([]byte, 32)
	prefix := []byte("imported-key")
	m, err := NewExternal(HMACSHA256, key, prefix)
	require.NoError(t, err)

	tag, err := m.Compute([]byte("data"))
	require.NoError(t, err)
	full := tag.AsBytes()
	assert.Equal(t, prefix, full[:len(prefix)])
}

func TestCMACVectorShape(t *testing.T) {
	// The RFC 4493 vectors are checked in TestCMACRFC4493Vectors; this
	// asserts output size and determinism through the Mac API.
	m, err := New(AESCMAC128)
	require.NoError(t, err)
	tag1, err := m.Compute([]byte("repeatable"))
	require.NoError(t, err)
	tag2, err := m.Compute([]byte("repeatable"))
	require.NoError(t, err)
	assert.Equal(t, tag1.OmitHeader().AsBytes(), tag2.OmitHeader().AsBytes())
	assert.Len(t, tag1.OmitHeader().AsBytes(), 16)
}

func TestVerifyFailsOnTamperedData(t *testing.T) {
	m, err := New(HMACSHA256)
	require.NoError(t, err)
	tag, err := m.Compute([]byte("original"))
	require.NoError(t, err)

	ok, err := m.Verify([]byte("tampered"), tag.AsBytes())
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestTagUpdate confirms Update recomputes against the keyring as it
// stands now, gaining entries for keys added since the original tag and
// carrying over omit_header/truncate_to where the new tag still
// supports them.
func TestTagUpdate(t *testing.T) {
	m, err := New(HMACSHA256)
	require.NoError(t, err)

	data := []byte("hello navajo")
	tag, err := m.Compute(data)
	require.NoError(t, err)
	tag = tag.OmitHeader()
	tag, err = tag.Truncate(16)
	require.NoError(t, err)

	_, err = m.Add(HMACSHA384)
	require.NoError(t, err)

	updated, err := tag.Update(data, m)
	require.NoError(t, err)

	assert.Len(t, updated.entries, 2)
	assert.Len(t, updated.AsBytes(), 16)
	ok, err := m.Verify(data, updated.AsBytes())
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestTagUpdateDropsTruncationTooShortForHeader confirms Update falls
// back to no truncation when the carried-over length can no longer be
// honored once the header is reintroduced.
func TestTagUpdateDropsTruncationTooShortForHeader(t *testing.T) {
	m, err := New(HMACSHA256)
	require.NoError(t, err)

	data := []byte("hello navajo")
	tag, err := m.Compute(data)
	require.NoError(t, err)
	tag = tag.OmitHeader()
	tag, err = tag.Truncate(8)
	require.NoError(t, err)
	tag = tag.IncludeHeader()

	updated, err := tag.Update(data, m)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.truncateTo)
}
