package mac

import (
	"encoding/binary"

	"github.com/allisson/navajo/keyring"
)

// header returns the wire-identification prefix for key: the 4-byte
// big-endian key id for a Navajo-origin key, or the caller-supplied
// prefix for an External-origin one.
func header(key *keyring.Key[*material]) []byte {
	if key.Origin() == keyring.OriginExternal {
		return key.Prefix()
	}
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, key.ID())
	return b
}
