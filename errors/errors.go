// Package errors provides the error taxonomy shared by every navajo
// primitive. Each primitive package (aead, daead, mac, dsa, envelope,
// keyring) wraps one of the sentinels below so that a caller can test
// "was this a not-found" or "was this an authentication failure" without
// knowing which primitive raised it.
package errors

import (
	"errors"
	"fmt"
)

// Taxonomy classes. Primitive packages wrap these with a more specific
// message; callers match against the class, not the message.
var (
	// ErrNotFound indicates the requested key or resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing keyring state (e.g. a
	// duplicate public id).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates malformed input: bad algorithm, bad key
	// length, malformed ciphertext framing, an invalid lifecycle transition.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnspecified indicates a cryptographic verification failure
	// (authentication, signature). Deliberately opaque: it must not leak
	// which part of the check failed.
	ErrUnspecified = errors.New("unspecified")
)

// New creates a new error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message while preserving the error chain.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
