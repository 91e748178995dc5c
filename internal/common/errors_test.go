package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorFormat(t *testing.T) {
	err := NewAppError("EMPTY_INPUT", "PDF bytes are empty", ErrEmptyInput)
	assert.Equal(t, "EMPTY_INPUT: PDF bytes are empty: empty input", err.Error())

	bare := NewAppError("CONFIG_ERROR", "bad value", nil)
	assert.Equal(t, "CONFIG_ERROR: bad value", bare.Error())
}

func TestAppErrorUnwrap(t *testing.T) {
	err := NewAppError("SIZE_LIMIT", "too many pages", ErrSizeLimit)
	assert.ErrorIs(t, err, ErrSizeLimit)

	var appErr *AppError
	var target error = err
	assert.True(t, errors.As(target, &appErr))
	assert.Equal(t, "SIZE_LIMIT", appErr.Code)
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil, "context"))

	wrapped := WrapError(ErrUnopenable, "reading upload")
	assert.ErrorIs(t, wrapped, ErrUnopenable)
	assert.Equal(t, "reading upload: document cannot be opened", wrapped.Error())
}
