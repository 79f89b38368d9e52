package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/odontocare/clinic-api/pkg/errors"
)

func TestViolationsErr(t *testing.T) {
	var v Violations
	assert.NoError(t, v.Err())

	v.Add("name", "name is required")
	v.Add("phone", "phone is required")

	err := v.Err()
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Len(t, appErr.Violations, 2)
	assert.Equal(t, "name", appErr.Violations[0].Field)
}

func TestGuard(t *testing.T) {
	var g Guard

	assert.True(t, g.Begin())
	assert.False(t, g.Begin(), "a second submit while one is in flight loses")

	g.End()
	assert.True(t, g.Begin(), "resolving the submit frees the guard")
}

func TestReconcile(t *testing.T) {
	type record struct{ Name string }
	local := &record{Name: "draft"}
	pushed := &record{Name: "stored"}

	assert.Same(t, pushed, Reconcile(local, pushed, false), "a pushed record wins once editing ends")
	assert.Same(t, local, Reconcile(local, pushed, true), "an open draft is never overwritten by a feed echo")
	assert.Same(t, local, Reconcile(local, nil, false), "nothing pushed yet keeps the local copy")

	// Same inputs, same output.
	assert.Same(t, Reconcile(local, pushed, false), Reconcile(local, pushed, false))
}
