package dsa

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/navajo/envelope"
)

func TestSealOpenVerifierRoundTrip(t *testing.T) {
	for _, alg := range []Algorithm{Ed25519, ECDSAP256SHA256, ECDSAP384SHA384} {
		s, err := New(alg, "signer-1")
		require.NoError(t, err)

		msg := []byte("sealed verifier still verifies")
		sig, err := s.Sign(msg)
		require.NoError(t, err)

		sealed, err := s.Seal(context.Background(), envelope.PlaintextJSON{}, nil)
		require.NoError(t, err)

		v, err := OpenVerifier(context.Background(), sealed, envelope.PlaintextJSON{}, nil)
		require.NoError(t, err)

		require.NoError(t, v.Verify(context.Background(), nil, msg, sig))
	}
}
