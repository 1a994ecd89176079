package envelope

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"log/slog"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/allisson/navajo/keyring"
	"github.com/allisson/navajo/secure"
)

const dekSize = 32

// Seal serializes kr's keys (tagged with kind, one of "AEAD", "DAEAD",
// "MAC", "DSA") to canonical JSON via marshalFields, then, unless env
// is the PlaintextJSON sentinel, wraps a freshly generated 32-byte DEK
// through env and ChaCha20-Poly1305-encrypts the JSON under it. Output
// container: u32-be(len(wrapped_dek)) ‖ wrapped_dek ‖ nonce ‖
// ciphertext‖tag. With PlaintextJSON, the canonical JSON is returned
// unchanged.
func Seal[M keyring.Material](ctx context.Context, kr *keyring.Keyring[M], kind string, env Envelope, aad []byte, marshalFields func(M) (map[string]any, error)) ([]byte, error) {
	keys := kr.All()
	records := make([]keyRecordJSON, 0, len(keys))
	for _, k := range keys {
		rec, err := marshalKey(k, marshalFields)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	payload, err := json.Marshal(map[string]any{
		"version": 0,
		"kind":    kind,
		"keys":    records,
	})
	if err != nil {
		return nil, err
	}

	if IsPlaintext(env) {
		slog.Default().Info("envelope: sealed without encryption", slog.String("kind", kind), slog.Int("key_count", len(records)))
		return payload, nil
	}

	dek := make([]byte, dekSize)
	if _, err := rand.Read(dek); err != nil {
		return nil, err
	}
	defer secure.Zero(dek)

	wrappedDEK, err := env.EncryptDEK(ctx, aad, dek)
	if err != nil {
		return nil, ErrSealFailed
	}

	aeadCipher, err := chacha20poly1305.New(dek)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, chacha20poly1305.NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	ciphertext := aeadCipher.Seal(nil, nonce, payload, aad)

	container := make([]byte, 0, 4+len(wrappedDEK)+len(nonce)+len(ciphertext))
	lenBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(lenBuf, uint32(len(wrappedDEK)))
	container = append(container, lenBuf...)
	container = append(container, wrappedDEK...)
	container = append(container, nonce...)
	container = append(container, ciphertext...)
	slog.Default().Info("envelope: sealed", slog.String("kind", kind), slog.Int("key_count", len(records)))
	return container, nil
}

// Open inverts Seal. It first attempts to parse data as the canonical
// JSON produced by the plaintext path; on failure it treats data as an
// encrypted container, unwraps the DEK through env, and decrypts. It
// reconstructs a Keyring from the decoded key records via
// buildMaterial. Returns ErrOpenFailed for a corrupt container, wrong
// aad, or failed KMS unwrap.
func Open[M keyring.Material](ctx context.Context, data []byte, kind string, env Envelope, aad []byte, buildMaterial func(algorithm string, fields map[string]any) (M, error), opts ...keyring.Option[M]) (*keyring.Keyring[M], error) {
	payload, err := unwrap(ctx, data, env, aad)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Version uint8           `json:"version"`
		Kind    string          `json:"kind"`
		Keys    []keyRecordJSON `json:"keys"`
	}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, ErrOpenFailed
	}
	if doc.Kind != kind {
		return nil, ErrOpenFailed
	}

	records := make([]keyring.RestoredKey[M], 0, len(doc.Keys))
	for _, rec := range doc.Keys {
		r, err := unmarshalKey(rec, buildMaterial)
		if err != nil {
			return nil, ErrOpenFailed
		}
		records = append(records, r)
	}

	kr, err := keyring.Restore(records, opts...)
	if err != nil {
		return nil, ErrOpenFailed
	}
	slog.Default().Info("envelope: opened", slog.String("kind", kind), slog.Int("key_count", len(records)))
	return kr, nil
}

// unwrap recognizes the plaintext sentinel by attempting a JSON parse
// first; only on failure does it treat data as an encrypted container.
func unwrap(ctx context.Context, data []byte, env Envelope, aad []byte) ([]byte, error) {
	var probe json.RawMessage
	if json.Unmarshal(data, &probe) == nil {
		return data, nil
	}

	if len(data) < 4 {
		return nil, ErrOpenFailed
	}
	wrappedLen := binary.BigEndian.Uint32(data[:4])
	rest := data[4:]
	if uint32(len(rest)) < wrappedLen+chacha20poly1305.NonceSize {
		return nil, ErrOpenFailed
	}
	wrappedDEK := rest[:wrappedLen]
	rest = rest[wrappedLen:]
	nonce := rest[:chacha20poly1305.NonceSize]
	ciphertext := rest[chacha20poly1305.NonceSize:]

	dek, err := env.DecryptDEK(ctx, aad, wrappedDEK)
	if err != nil {
		return nil, ErrOpenFailed
	}
	defer secure.Zero(dek)

	aeadCipher, err := chacha20poly1305.New(dek)
	if err != nil {
		return nil, ErrOpenFailed
	}
	payload, err := aeadCipher.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, ErrOpenFailed
	}
	return payload, nil
}
