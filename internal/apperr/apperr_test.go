package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("create card: %w", Conflict("card has transactions"))

	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestValidation_ListsEveryField(t *testing.T) {
	err := Validation(
		FieldError{Field: "amount", Reason: "must be positive"},
		FieldError{Field: "kind", Reason: "must be income or expense"},
	)

	assert.Equal(t, KindValidation, err.Kind)
	assert.Len(t, err.Fields, 2)
	assert.Equal(t, "invalid request (amount: must be positive; kind: must be income or expense)", err.Error())
	assert.False(t, err.Retryable())
}

func TestStorage_IsRetryable(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("operator: %w", Storage(cause))

	assert.True(t, IsRetryable(err))
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsRetryable(NotFound("card %s not found", "x")))
}

func TestAsStorage(t *testing.T) {
	assert.NoError(t, AsStorage(nil))

	notFound := NotFound("missing")
	assert.Same(t, notFound, AsStorage(notFound))

	wrapped := AsStorage(context.DeadlineExceeded)
	assert.Equal(t, KindStorage, KindOf(wrapped))
	assert.ErrorIs(t, wrapped, context.DeadlineExceeded)
}
