package dsa

import (
	"context"

	navajoerrors "github.com/allisson/navajo/errors"

	"github.com/allisson/navajo/keyring"
	"golang.org/x/sync/errgroup"
)

// ErrVerificationFailed is returned by Verify when no candidate key
// validates the signature. Deliberately opaque: it does not distinguish
// "unknown kid" from "bad signature" from "no key matched".
var ErrVerificationFailed = navajoerrors.Wrap(navajoerrors.ErrUnspecified, "dsa: verification failed")

// Verifier is a read-only projection of a Signer's keyring, limited to
// public halves and keyed by pub_id. It is a snapshot taken at
// construction time, not a live view back into the Signer: rotating or
// adding keys on the Signer afterward has no effect on an already
// obtained Verifier.
type Verifier struct {
	byPubID map[string]*material
	all     []*material
}

func newVerifier(keys []*keyring.Key[*material]) *Verifier {
	v := &Verifier{byPubID: make(map[string]*material, len(keys)), all: make([]*material, 0, len(keys))}
	for _, k := range keys {
		m := k.Material()
		v.byPubID[m.pubID] = m
		v.all = append(v.all, m)
	}
	return v
}

// Verify checks sig over msg. If pubID is non-nil, only the key it
// names is tried. Otherwise every key is tried (in parallel) and the
// call succeeds if any one verifies. Returns ErrVerificationFailed if
// no candidate key validates the signature.
func (v *Verifier) Verify(ctx context.Context, pubID *string, msg, sig []byte) error {
	if pubID != nil {
		m, ok := v.byPubID[*pubID]
		if !ok || !verify(m, msg, sig) {
			return ErrVerificationFailed
		}
		return nil
	}

	g, _ := errgroup.WithContext(ctx)
	ok := make(chan struct{}, 1)
	for _, m := range v.all {
		m := m
		g.Go(func() error {
			if verify(m, msg, sig) {
				select {
				case ok <- struct{}{}:
				default:
				}
			}
			return nil
		})
	}
	_ = g.Wait()
	select {
	case <-ok:
		return nil
	default:
		return ErrVerificationFailed
	}
}
