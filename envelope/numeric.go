package envelope

import (
	navajoerrors "github.com/allisson/navajo/errors"
)

// ErrCorruptContainer is returned when a serialized key record's
// fields are missing or of the wrong JSON type.
var ErrCorruptContainer = navajoerrors.Wrap(navajoerrors.ErrInvalidInput, "envelope: corrupt container")

// JSON numbers decode as float64 via encoding/json's default
// unmarshaling into map[string]any; these helpers recover the
// originally encoded unsigned/signed integer fields.

func asUint32(v any) (uint32, error) {
	f, ok := v.(float64)
	if !ok {
		return 0, ErrCorruptContainer
	}
	return uint32(f), nil
}

func asUint64(v any) (uint64, error) {
	f, ok := v.(float64)
	if !ok {
		return 0, ErrCorruptContainer
	}
	return uint64(f), nil
}

func asInt8(v any) (int8, error) {
	f, ok := v.(float64)
	if !ok {
		return 0, ErrCorruptContainer
	}
	return int8(f), nil
}
