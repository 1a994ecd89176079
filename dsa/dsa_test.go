package dsa

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	for _, alg := range []Algorithm{Ed25519, ECDSAP256SHA256, ECDSAP384SHA384} {
		s, err := New(alg, "")
		require.NoError(t, err)

		msg := []byte("hello, navajo")
		sig, err := s.Sign(msg)
		require.NoError(t, err)

		size, err := alg.signatureSize()
		require.NoError(t, err)
		assert.Len(t, sig, size)

		v := s.Verifier()
		require.NoError(t, v.Verify(context.Background(), nil, msg, sig))
	}
}

func TestPubIDDefaultsToNumericID(t *testing.T) {
	s, err := New(Ed25519, "")
	require.NoError(t, err)

	primary := s.keyring.Primary()
	assert.Equal(t, strconv.FormatUint(uint64(primary.ID()), 10), primary.Material().pubID)
}

func TestAddRejectsDuplicatePubID(t *testing.T) {
	s, err := New(Ed25519, "key-1")
	require.NoError(t, err)

	_, err = s.Add(Ed25519, "key-1")
	assert.ErrorIs(t, err, ErrDuplicatePubID)
}

func TestVerifyAcceptsAnyKeyNotJustPrimary(t *testing.T) {
	s, err := New(Ed25519, "primary")
	require.NoError(t, err)

	msg := []byte("signed by the key that is demoted afterward")
	sig, err := s.Sign(msg)
	require.NoError(t, err)

	info, err := s.Add(Ed25519, "secondary")
	require.NoError(t, err)
	require.NoError(t, s.Keyring().Promote(info.ID))

	// The signing key is now a secondary key.
	signerID := "primary"
	v := s.Verifier()
	require.NoError(t, v.Verify(context.Background(), &signerID, msg, sig))
	require.NoError(t, v.Verify(context.Background(), nil, msg, sig))
}

func TestVerifyRejectsUnrelatedSigner(t *testing.T) {
	s1, err := New(Ed25519, "")
	require.NoError(t, err)
	s2, err := New(Ed25519, "")
	require.NoError(t, err)

	msg := []byte("trust me")
	sig, err := s1.Sign(msg)
	require.NoError(t, err)

	v2 := s2.Verifier()
	assert.ErrorIs(t, v2.Verify(context.Background(), nil, msg, sig), ErrVerificationFailed)
}

func TestVerifierIsImmutableSnapshot(t *testing.T) {
	s, err := New(Ed25519, "primary")
	require.NoError(t, err)
	v := s.Verifier()

	_, err = s.Add(Ed25519, "added-after-snapshot")
	require.NoError(t, err)

	added := "added-after-snapshot"
	err = v.Verify(context.Background(), &added, []byte("x"), []byte("y"))
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestSignAndVerifyJWS(t *testing.T) {
	s, err := New(Ed25519, "")
	require.NoError(t, err)

	type claims struct {
		Sub string `json:"sub"`
		Aud string `json:"aud"`
	}
	payload := claims{Sub: "test", Aud: "test"}

	jws, err := s.SignJWS(payload)
	require.NoError(t, err)

	var got claims
	v := s.Verifier()
	header, err := v.VerifyJWS(context.Background(), jws, &got)
	require.NoError(t, err)

	assert.Equal(t, "EdDSA", header.Alg)
	assert.Equal(t, s.keyring.Primary().Material().pubID, header.Kid)
	assert.Equal(t, payload, got)
}

func TestVerifyJWSRejectsTamperedSignature(t *testing.T) {
	s, err := New(Ed25519, "")
	require.NoError(t, err)

	jws, err := s.SignJWS(map[string]string{"sub": "test"})
	require.NoError(t, err)

	tampered := jws[:len(jws)-4] + "aaaa"
	v := s.Verifier()
	_, err = v.VerifyJWS(context.Background(), tampered, nil)
	assert.Error(t, err)
}

func TestVerifyJWSRejectsMalformedInput(t *testing.T) {
	s, err := New(Ed25519, "")
	require.NoError(t, err)
	v := s.Verifier()

	_, err = v.VerifyJWS(context.Background(), "not-a-jws", nil)
	assert.ErrorIs(t, err, ErrMalformedJWS)
}
