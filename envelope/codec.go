package envelope

import (
	"encoding/base64"
	"time"

	"github.com/allisson/navajo/keyring"
)

func b64(b []byte) string { return base64.RawURLEncoding.EncodeToString(b) }

func unb64(s string) ([]byte, error) { return base64.RawURLEncoding.DecodeString(s) }

// keyRecordJSON is the wire shape of one serialized key, per spec §6:
// common fields plus whatever algorithm-specific fields MarshalFields
// returns (flattened into the same object rather than nested, matching
// the original's flat key-object layout).
type keyRecordJSON map[string]any

func originName(o keyring.Origin) string {
	if o == keyring.OriginExternal {
		return "External"
	}
	return "Navajo"
}

func originFromName(name string) keyring.Origin {
	if name == "External" {
		return keyring.OriginExternal
	}
	return keyring.OriginNavajo
}

func marshalKey[M keyring.Material](k *keyring.Key[M], marshalFields func(M) (map[string]any, error)) (keyRecordJSON, error) {
	extra, err := marshalFields(k.Material())
	if err != nil {
		return nil, err
	}
	rec := keyRecordJSON{
		"id":                   k.ID(),
		"status":               int8(k.Status()),
		"origin":               originName(k.Origin()),
		"algorithm":            k.Material().Algorithm(),
		"created_at_timestamp": uint64(k.CreatedAt().Unix()),
		"metadata":             k.Metadata(),
	}
	if prefix := k.Prefix(); len(prefix) > 0 {
		rec["prefix"] = b64(prefix)
	}
	for key, val := range extra {
		rec[key] = val
	}
	return rec, nil
}

func unmarshalKey[M keyring.Material](rec keyRecordJSON, buildMaterial func(algorithm string, fields map[string]any) (M, error)) (keyring.RestoredKey[M], error) {
	var out keyring.RestoredKey[M]

	id, err := asUint32(rec["id"])
	if err != nil {
		return out, err
	}
	status, err := asInt8(rec["status"])
	if err != nil {
		return out, err
	}
	algorithm, _ := rec["algorithm"].(string)
	createdAt, err := asUint64(rec["created_at_timestamp"])
	if err != nil {
		return out, err
	}

	m, err := buildMaterial(algorithm, rec)
	if err != nil {
		return out, err
	}

	metadata, _ := rec["metadata"].(map[string]any)

	var prefix []byte
	if p, ok := rec["prefix"].(string); ok {
		prefix, err = unb64(p)
		if err != nil {
			return out, err
		}
	}

	origin := keyring.OriginNavajo
	if o, ok := rec["origin"].(string); ok {
		origin = originFromName(o)
	}

	out = keyring.RestoredKey[M]{
		ID:        id,
		Status:    keyring.Status(status),
		Origin:    origin,
		Material:  m,
		Metadata:  metadata,
		Prefix:    prefix,
		CreatedAt: time.Unix(int64(createdAt), 0).UTC(),
	}
	return out, nil
}
