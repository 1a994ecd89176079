// Package keyring implements the generic, primitive-agnostic key lifecycle
// state machine shared by aead, daead, mac, and dsa: an ordered set of keys
// with exactly one primary, id allocation, and the add/promote/enable/
// disable/remove transitions.
package keyring

import "fmt"

// Status is a key's position in its keyring's lifecycle lattice. It is
// serialized as a signed byte on the wire, so the numeric values below are
// load-bearing and must not be renumbered.
type Status int8

const (
	// StatusPrimary marks the single key used to produce new output
	// (encrypt, sign, seal). Exactly one key per keyring holds this status.
	StatusPrimary Status = 0
	// StatusSecondary marks a key usable for consumption (decrypt, verify)
	// but not production.
	StatusSecondary Status = 1
	// StatusDisabled marks a key retained for DAEAD lookup or for
	// decrypting/verifying pre-existing material, never for new output.
	StatusDisabled Status = -1
)

func (s Status) String() string {
	switch s {
	case StatusPrimary:
		return "PRIMARY"
	case StatusSecondary:
		return "SECONDARY"
	case StatusDisabled:
		return "DISABLED"
	default:
		return fmt.Sprintf("Status(%d)", int8(s))
	}
}

// Origin distinguishes internally generated keys from imported ones.
type Origin uint8

const (
	// OriginNavajo marks a key generated by this library; its wire header
	// uses the 4-byte id.
	OriginNavajo Origin = iota
	// OriginExternal marks an imported key whose caller-supplied prefix
	// replaces the id in the header.
	OriginExternal
)

func (o Origin) String() string {
	switch o {
	case OriginNavajo:
		return "NAVAJO"
	case OriginExternal:
		return "EXTERNAL"
	default:
		return fmt.Sprintf("Origin(%d)", uint8(o))
	}
}
