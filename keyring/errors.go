package keyring

import (
	navajoerrors "github.com/allisson/navajo/errors"
)

var (
	// ErrKeyNotFound is returned by Get, Promote, Enable, Disable, Remove,
	// and SetMetadata when no key in the keyring carries the given id.
	ErrKeyNotFound = navajoerrors.Wrap(navajoerrors.ErrNotFound, "keyring: key not found")

	// ErrEmptyKeyring is returned by Restore when given zero records,
	// violating I1.
	ErrEmptyKeyring = navajoerrors.Wrap(navajoerrors.ErrInvalidInput, "keyring: keyring must not be empty")

	// ErrPrimaryRequired is returned by Remove and Disable when the target
	// is the primary key (I5, I6).
	ErrPrimaryRequired = navajoerrors.Wrap(navajoerrors.ErrInvalidInput, "keyring: cannot remove or disable the primary key")

	// ErrLastKey is returned by Remove when the target is the only key
	// remaining in the keyring (I5).
	ErrLastKey = navajoerrors.Wrap(navajoerrors.ErrInvalidInput, "keyring: cannot remove the last key in a keyring")

	// ErrDuplicateID is returned by New, NewExternal, Add and AddExternal
	// when id allocation could not find an unused id within the retry
	// budget, and by Restore when two records share an id.
	ErrDuplicateID = navajoerrors.Wrap(navajoerrors.ErrConflict, "keyring: exhausted retries allocating a unique key id")

	// ErrInvalidPrimaryCount is returned by Restore when the supplied
	// records do not carry exactly one StatusPrimary key.
	ErrInvalidPrimaryCount = navajoerrors.Wrap(navajoerrors.ErrInvalidInput, "keyring: restored keyring must have exactly one primary key")
)
