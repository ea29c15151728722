package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("socket closed")
	err := Wrap(cause, ErrCodeInternal, "gateway unreachable")

	assert.Equal(t, "gateway unreachable: socket closed", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestWrap_NilCause(t *testing.T) {
	require.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))
	require.Nil(t, Wrapf(nil, ErrCodeInternal, "ignored %d", 1))
}

func TestCodePredicates(t *testing.T) {
	cases := []struct {
		err  error
		pred func(error) bool
	}{
		{NotFound("x"), IsNotFound},
		{Conflict("x"), IsConflict},
		{Validation("x"), IsValidation},
		{Cancelled("x"), IsCancelled},
		{Unverified("x"), IsUnverified},
		{RateLimited("x"), IsRateLimited},
		{DomainIneligible("x"), IsDomainIneligible},
	}
	for _, tc := range cases {
		assert.True(t, tc.pred(tc.err))
		// predicates see through wrapping
		assert.True(t, tc.pred(fmt.Errorf("outer: %w", tc.err)))
	}
	assert.False(t, IsCancelled(NotFound("x")))
	assert.False(t, IsRateLimited(errors.New("plain")))
}
