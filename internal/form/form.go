// Package form holds the pieces shared by every entity draft: the violation
// list built up during validation and the guard that makes overlapping
// submissions of one draft a no-op.
package form

import (
	"errors"
	"sync/atomic"

	apperrors "github.com/odontocare/clinic-api/pkg/errors"
)

// ErrSubmitInFlight is returned when a draft is submitted while a previous
// submission has not resolved yet. The second call performs no I/O.
var ErrSubmitInFlight = errors.New("submit already in flight")

// Violations collects field-level validation failures.
type Violations []apperrors.Violation

func (v *Violations) Add(field, message string) {
	*v = append(*v, apperrors.Violation{Field: field, Message: message})
}

// Err returns a ValidationError carrying the violations, or nil when empty.
func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}
	return apperrors.NewValidation(v)
}

// Guard serializes submissions of a single draft. Begin reports whether the
// caller won the right to submit; End releases it once the store call has
// resolved, so a failed submit can be retried.
type Guard struct {
	inFlight atomic.Bool
}

func (g *Guard) Begin() bool {
	return g.inFlight.CompareAndSwap(false, true)
}

func (g *Guard) End() {
	g.inFlight.Store(false)
}

// Reconcile decides which version of a record a view should show when a
// change-feed push and a locally held copy disagree. The pushed version is
// authoritative whenever one arrived, except while the local copy is still
// being edited, so a feed echo never wipes unsaved input. Both inputs are
// named and the function is pure, which keeps the merge rule testable on its
// own.
func Reconcile[T any](local, pushed *T, editing bool) *T {
	if editing || pushed == nil {
		return local
	}
	return pushed
}
