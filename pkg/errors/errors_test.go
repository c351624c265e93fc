package errors

import (
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	typed := Clone(ErrNotFound, "Student not found")
	wrapped := errors.Join(errors.New("context"), typed)

	got := FromError(wrapped)
	assert.Same(t, typed, got)
	assert.Equal(t, http.StatusNotFound, got.Status)
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	got := FromError(sql.ErrConnDone)
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.ErrorIs(t, got, sql.ErrConnDone)
	assert.Equal(t, sql.ErrConnDone.Error(), got.Details())
	assert.Nil(t, FromError(nil))
}

func TestCloneDoesNotMutateOriginal(t *testing.T) {
	clone := Clone(ErrValidation, "Invalid dob, expected YYYY-MM-DD")
	assert.Equal(t, "validation failed", ErrValidation.Message)
	assert.Equal(t, "Invalid dob, expected YYYY-MM-DD", clone.Message)
	assert.Equal(t, ErrValidation.Status, clone.Status)
	assert.Empty(t, clone.Details())
}

func TestInternalWrapsCause(t *testing.T) {
	cause := errors.New("relation \"students\" does not exist")
	err := Internal(cause, "Failed to fetch students")
	assert.Equal(t, "Failed to fetch students: "+cause.Error(), err.Error())
	assert.Equal(t, cause.Error(), err.Details())
}
