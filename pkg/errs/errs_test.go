package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapError_NilErrorReturnsNil(t *testing.T) {
	assert.Nil(t, MapError(nil))
}

func TestMapError_PassesThroughExistingAppError(t *testing.T) {
	orig := NewAppError(http.StatusTeapot, "already mapped", nil)

	got := MapError(orig)
	assert.Same(t, orig, got)
}

func TestMapError_FatalInputErrorBecomesBadRequest(t *testing.T) {
	err := NewFatalInputError("missing.ts", errors.New("unknown rule identifier"))

	got := MapError(err)
	assert.Equal(t, http.StatusBadRequest, got.Code)
	assert.Equal(t, "invalid input", got.Message)
}

func TestMapError_SentinelInvalidInputBecomesBadRequest(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ErrInvalidInput)

	got := MapError(err)
	assert.Equal(t, http.StatusBadRequest, got.Code)
}

func TestMapError_SentinelNotFoundBecomesNotFound(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ErrNotFound)

	got := MapError(err)
	assert.Equal(t, http.StatusNotFound, got.Code)
}

func TestMapError_UnknownErrorBecomesInternal(t *testing.T) {
	got := MapError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, got.Code)
}

func TestFatalInputError_UnwrapsToUnderlyingError(t *testing.T) {
	underlying := errors.New("unknown rule identifier")
	err := NewFatalInputError("STATE_TRANSITION:missing.ts:0", underlying)

	assert.ErrorIs(t, err, underlying)
	assert.Contains(t, err.Error(), "STATE_TRANSITION:missing.ts:0")
}

func TestParseError_UnwrapsToUnderlyingError(t *testing.T) {
	underlying := errors.New("unexpected token")
	err := &ParseError{FilePath: "order.ts", Err: underlying}

	assert.ErrorIs(t, err, underlying)
	assert.Contains(t, err.Error(), "order.ts")
}

func TestAppError_ErrorMessageOmitsWrappedErrorWhenNil(t *testing.T) {
	err := NewAppError(http.StatusBadRequest, "invalid request", nil)
	assert.Equal(t, "invalid request", err.Error())
}

func TestAppError_ErrorMessageIncludesWrappedError(t *testing.T) {
	err := NewAppError(http.StatusBadRequest, "invalid request", errors.New("missing field"))
	assert.Equal(t, "invalid request: missing field", err.Error())
}
