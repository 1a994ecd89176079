package dsa

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"

	navajoerrors "github.com/allisson/navajo/errors"
)

// ErrMalformedJWS is returned when a JWS string is not exactly three
// base64url segments joined by ".".
var ErrMalformedJWS = navajoerrors.Wrap(navajoerrors.ErrInvalidInput, "dsa: malformed jws")

// Header is the JWS protected header: alg and kid, plus any additional
// fields the caller set in Header.Extra.
type Header struct {
	Alg   string         `json:"alg"`
	Kid   string         `json:"kid,omitempty"`
	Extra map[string]any `json:"-"`
}

func (h Header) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(h.Extra)+2)
	for k, v := range h.Extra {
		m[k] = v
	}
	m["alg"] = h.Alg
	if h.Kid != "" {
		m["kid"] = h.Kid
	}
	return json.Marshal(m)
}

func (h *Header) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if alg, ok := m["alg"].(string); ok {
		h.Alg = alg
		delete(m, "alg")
	}
	if kid, ok := m["kid"].(string); ok {
		h.Kid = kid
		delete(m, "kid")
	}
	h.Extra = m
	return nil
}

func b64(b []byte) string { return base64.RawURLEncoding.EncodeToString(b) }

func unb64(s string) ([]byte, error) { return base64.RawURLEncoding.DecodeString(s) }

// SignJWS JSON-encodes payload, signs it with the signer's primary key,
// and returns the compact header.payload.signature serialization. The
// header's "kid" is the signing key's pub_id.
func (s *Signer) SignJWS(payload any) (string, error) {
	primary := s.keyring.Primary().Material()
	algName, err := primary.alg.jwsAlgName()
	if err != nil {
		return "", err
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	headerJSON, err := json.Marshal(Header{Alg: algName, Kid: primary.pubID})
	if err != nil {
		return "", err
	}
	signingInput := b64(headerJSON) + "." + b64(payloadJSON)
	sig, err := sign(primary, []byte(signingInput))
	if err != nil {
		return "", err
	}
	return signingInput + "." + b64(sig), nil
}

// VerifyJWS parses and verifies jws, using the header's "kid" to select
// a key (or trying every key if absent), and JSON-decodes the payload
// into out (if out is non-nil). Returns the parsed header.
func (v *Verifier) VerifyJWS(ctx context.Context, jws string, out any) (Header, error) {
	parts := strings.Split(jws, ".")
	if len(parts) != 3 {
		return Header{}, ErrMalformedJWS
	}
	headerJSON, err := unb64(parts[0])
	if err != nil {
		return Header{}, ErrMalformedJWS
	}
	payloadJSON, err := unb64(parts[1])
	if err != nil {
		return Header{}, ErrMalformedJWS
	}
	sig, err := unb64(parts[2])
	if err != nil {
		return Header{}, ErrMalformedJWS
	}
	var header Header
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return Header{}, ErrMalformedJWS
	}
	if _, err := algorithmFromJWSName(header.Alg); err != nil {
		return Header{}, err
	}

	var kid *string
	if header.Kid != "" {
		kid = &header.Kid
	}
	signingInput := []byte(parts[0] + "." + parts[1])
	if err := v.Verify(ctx, kid, signingInput, sig); err != nil {
		return Header{}, err
	}

	if out != nil {
		if err := json.Unmarshal(payloadJSON, out); err != nil {
			return Header{}, err
		}
	}
	return header, nil
}
