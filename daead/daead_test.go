package daead

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	d, err := New(AES256SIV)
	require.NoError(t, err)

	plaintext := []byte("deterministic payload")
	aad := []byte("context")

	ciphertext, err := d.EncryptDeterministic(plaintext, aad)
	require.NoError(t, err)

	got, err := d.DecryptDeterministic(ciphertext, aad)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestDeterminism(t *testing.T) {
	d, err := New(AES256SIV)
	require.NoError(t, err)

	plaintext := []byte("same input every time")
	aad := []byte("aad")

	first, err := d.EncryptDeterministic(plaintext, aad)
	require.NoError(t, err)
	second, err := d.EncryptDeterministic(plaintext, aad)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDifferentPlaintextYieldsDifferentCiphertext(t *testing.T) {
	d, err := New(AES256SIV)
	require.NoError(t, err)

	a, err := d.EncryptDeterministic([]byte("one"), nil)
	require.NoError(t, err)
	b, err := d.EncryptDeterministic([]byte("two"), nil)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestDecryptRejectsWrongAAD(t *testing.T) {
	d, err := New(AES256SIV)
	require.NoError(t, err)

	ciphertext, err := d.EncryptDeterministic([]byte("payload"), []byte("correct"))
	require.NoError(t, err)

	_, err = d.DecryptDeterministic(ciphertext, []byte("wrong"))
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestDecryptScansDisabledKeys(t *testing.T) {
	d, err := New(AES256SIV)
	require.NoError(t, err)

	oldCiphertext, err := d.EncryptDeterministic([]byte("encrypted under old primary"), nil)
	require.NoError(t, err)

	info, err := d.Add(AES256SIV)
	require.NoError(t, err)
	require.NoError(t, d.Keyring().Promote(info.ID))

	oldPrimaryID := ciphertextKeyID(oldCiphertext)
	require.NoError(t, d.Keyring().Disable(oldPrimaryID))

	plaintext, err := d.DecryptDeterministic(oldCiphertext, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("encrypted under old primary"), plaintext)
}

func TestDecryptFallsBackToFullScanWhenHeaderIDStale(t *testing.T) {
	d, err := New(AES256SIV)
	require.NoError(t, err)

	ciphertext, err := d.EncryptDeterministic([]byte("payload"), nil)
	require.NoError(t, err)

	// Corrupt the header id so the fast path misses; the full scan over
	// remaining keys must still find the real key and succeed.
	ciphertext[0] ^= 0xFF
	ciphertext[1] ^= 0xFF
	ciphertext[2] ^= 0xFF
	ciphertext[3] ^= 0xFF

	plaintext, err := d.DecryptDeterministic(ciphertext, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), plaintext)
}

func ciphertextKeyID(ciphertext []byte) uint32 {
	return uint32(ciphertext[0])<<24 | uint32(ciphertext[1])<<16 | uint32(ciphertext[2])<<8 | uint32(ciphertext[3])
}
