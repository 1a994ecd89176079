// Package validation provides the metadata validation rule shared by
// every primitive's SetMetadata operation.
package validation

import (
	"fmt"

	jvalidation "github.com/jellydator/validation"

	navajoerrors "github.com/allisson/navajo/errors"
)

// reservedJWKFields are the JWK member names defined by RFC 7517/7518.
// A key's metadata map may not shadow one of these, since metadata and
// the key's JWK representation share a namespace when a key is exported
// as a JWK.
var reservedJWKFields = map[string]struct{}{
	"kty": {}, "use": {}, "key_ops": {}, "alg": {}, "kid": {},
	"x5u": {}, "x5c": {}, "x5t": {}, "x5t#S256": {},
	"crv": {}, "x": {}, "y": {}, "d": {}, "n": {}, "e": {},
	"p": {}, "q": {}, "dp": {}, "dq": {}, "qi": {}, "k": {},
}

// WrapValidationError wraps a validation failure as ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return navajoerrors.Wrap(navajoerrors.ErrInvalidInput, err.Error())
}

// Metadata validates that meta contains no reserved JWK field names.
func Metadata(meta map[string]any) error {
	for field := range meta {
		if _, reserved := reservedJWKFields[field]; reserved {
			return WrapValidationError(jvalidation.NewError(
				"validation_reserved_metadata_field",
				fmt.Sprintf("metadata field %q collides with a reserved JWK field name", field),
			))
		}
	}
	return nil
}
