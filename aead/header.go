package aead

import (
	"encoding/binary"

	navajoerrors "github.com/allisson/navajo/errors"

	"github.com/allisson/navajo/keyring"
)

const methodOnline byte = 0

// ErrMalformedHeader is returned when a ciphertext's leading header
// cannot be parsed: a bad Method byte, a segment code outside the
// closed set, or a buffer shorter than the header it claims.
var ErrMalformedHeader = navajoerrors.Wrap(navajoerrors.ErrInvalidInput, "aead: malformed header")

// ErrUnknownKey is returned when a ciphertext's header identifies a key
// id or prefix absent from the keyring.
var ErrUnknownKey = navajoerrors.Wrap(navajoerrors.ErrNotFound, "aead: unknown key")

// keyTag returns the wire identification for key: the 4-byte
// big-endian id for a Navajo-origin key, or the caller-supplied prefix
// for an External-origin one.
func keyTag(key *keyring.Key[*material]) []byte {
	if key.Origin() == keyring.OriginExternal {
		return key.Prefix()
	}
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, key.ID())
	return b
}

// resolveKeyTag finds the key in keys whose wire tag is a prefix of
// buf. Navajo-origin keys are tried first via direct id lookup (O(1)
// shape, byte-exact); External-origin keys are tried by longest-prefix
// match against buf, since their tag length is not self-describing on
// the wire.
//
// A tag whose full length has not yet arrived is ambiguous, not
// absent: resolveKeyTag reports needMore (with a nil error) whenever
// buf is a true prefix of some key's tag, so the caller can wait for
// more bytes instead of rejecting a short read. ErrUnknownKey is only
// returned once buf has ruled out every key in the keyring.
func resolveKeyTag(keys []*keyring.Key[*material], buf []byte) (key *keyring.Key[*material], rest []byte, needMore bool, err error) {
	navajoPossible := false
	if len(buf) >= 4 {
		id := binary.BigEndian.Uint32(buf[:4])
		for _, k := range keys {
			if k.Origin() == keyring.OriginNavajo && k.ID() == id {
				return k, buf[4:], false, nil
			}
		}
	} else {
		var idBytes [4]byte
		for _, k := range keys {
			if k.Origin() != keyring.OriginNavajo {
				continue
			}
			binary.BigEndian.PutUint32(idBytes[:], k.ID())
			if bytesEqual(idBytes[:len(buf)], buf) {
				navajoPossible = true
				break
			}
		}
	}

	var best *keyring.Key[*material]
	var bestLen int
	externalPossible := false
	for _, k := range keys {
		if k.Origin() != keyring.OriginExternal {
			continue
		}
		p := k.Prefix()
		if len(p) == 0 {
			continue
		}
		if len(buf) >= len(p) {
			if bytesEqual(buf[:len(p)], p) && len(p) > bestLen {
				best, bestLen = k, len(p)
			}
		} else if bytesEqual(buf, p[:len(buf)]) {
			externalPossible = true
		}
	}
	if best != nil {
		return best, buf[bestLen:], false, nil
	}
	if navajoPossible || externalPossible {
		return nil, nil, true, nil
	}
	return nil, nil, false, ErrUnknownKey
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
