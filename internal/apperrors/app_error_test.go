package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Kinds(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		kind error
		code int
	}{
		{"validation", ValidationError("error.original_url_required"), ErrValidation, http.StatusBadRequest},
		{"duplicate", DuplicateCodeError("error.shortcode_exists"), ErrDuplicateCode, http.StatusConflict},
		{"not found", NotFoundError("error.shortcode_not_found"), ErrNotFound, http.StatusNotFound},
		{"system", SystemErrorDefault(), ErrSystem, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.kind))
			assert.Equal(t, tt.code, tt.err.Code)

			wrapped := fmt.Errorf("shorten: %w", tt.err)
			assert.True(t, errors.Is(wrapped, tt.kind))

			var appErr *AppError
			assert.True(t, errors.As(wrapped, &appErr))
		})
	}

	assert.False(t, errors.Is(NotFoundError("x"), ErrValidation))
	assert.False(t, errors.Is(&AppError{Code: http.StatusTeapot, Message: "x"}, ErrSystem))
}

func TestAppError_WithCause(t *testing.T) {
	cause := errors.New("disk full")
	err := SystemError("error.system").WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrSystem)
	assert.Equal(t, "error.system: disk full", err.Error())
}
