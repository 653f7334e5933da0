package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusClassification(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
		code   string
	}{
		{NotFound("Tour"), http.StatusNotFound, CodeNotFound},
		{Validation("bad input", nil), http.StatusUnprocessableEntity, CodeValidation},
		{InvalidInput("bad id"), http.StatusBadRequest, CodeInvalidInput},
		{InvalidState("no cost"), http.StatusBadRequest, CodeInvalidState},
		{Unauthorized("nope"), http.StatusUnauthorized, CodeUnauthorized},
		{Forbidden("nope"), http.StatusForbidden, CodeForbidden},
		{Conflict("dup"), http.StatusConflict, CodeConflict},
		{Internal("boom", nil), http.StatusInternalServerError, CodeInternal},
		{Unavailable("OTP service"), http.StatusServiceUnavailable, CodeUnavailable},
	}
	for _, c := range cases {
		assert.Equal(t, c.status, c.err.StatusCode(), c.code)
		assert.Equal(t, c.code, c.err.Code)
	}
}

func TestUnwrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal("write failed", cause)
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "disk full")
}

func TestNotFoundWithIDCarriesDetails(t *testing.T) {
	err := NotFoundWithID("Tour", "t1")
	assert.Equal(t, "Tour", err.Details["resource"])
	assert.Equal(t, "t1", err.Details["id"])
}

func TestAsAppErrorWrapsUnknown(t *testing.T) {
	plain := errors.New("boom")
	appErr := AsAppError(plain)
	assert.Equal(t, CodeInternal, appErr.Code)
	assert.True(t, errors.Is(appErr, plain))

	original := Conflict("dup")
	assert.Same(t, original, AsAppError(original))
}

func TestIsAppError(t *testing.T) {
	assert.True(t, IsAppError(Conflict("dup")))
	assert.False(t, IsAppError(errors.New("plain")))
}
