package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewAppError(ErrTypeParsing, "bad header row", nil),
			want: "[PARSING] bad header row",
		},
		{
			name: "with cause",
			err:  NewAppError(ErrTypeStorage, "write failed", errors.New("disk full")),
			want: "[STORAGE] write failed: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewAppError(ErrTypeDecode, "decode failed", cause)

	assert.ErrorIs(t, err, cause)

	var appErr *AppError
	wrapped := fmt.Errorf("loading: %w", err)
	require.ErrorAs(t, wrapped, &appErr)
	assert.Equal(t, ErrTypeDecode, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewAppError(ErrTypeSource, "source missing", nil).
		WithContext("source", "CSE").
		WithContext("attempt", 1)

	assert.Equal(t, "CSE", err.Context["source"])
	assert.Equal(t, 1, err.Context["attempt"])
}

func TestNewSourceUnavailableError(t *testing.T) {
	err := NewSourceUnavailableError("ECE", nil)

	assert.Equal(t, ErrTypeSource, err.Type)
	assert.Contains(t, err.Error(), "ECE")
	assert.Equal(t, "ECE", err.Context["source"])
}

func TestAPIError(t *testing.T) {
	t.Run("predefined no-data error", func(t *testing.T) {
		assert.Equal(t, 503, ErrNoDataAvailable.StatusCode)
		assert.Equal(t, "NO_DATA_AVAILABLE", ErrNoDataAvailable.ErrorCode)
	})

	t.Run("invalid request carries details", func(t *testing.T) {
		err := InvalidRequestWithError(errors.New("field too long"))

		assert.Equal(t, 400, err.StatusCode)
		assert.Equal(t, "INVALID_REQUEST", err.ErrorCode)
		assert.Equal(t, "field too long", err.Details)
	})

	t.Run("no data error wraps the cause message", func(t *testing.T) {
		err := NoDataError(ErrAllSourcesUnavailable)

		assert.Equal(t, 503, err.StatusCode)
		assert.Equal(t, "Dashboard failed to load data. Please check your data files and names.", err.Message)
		assert.Equal(t, ErrAllSourcesUnavailable.Error(), err.Details)
	})

	t.Run("validation error names the field", func(t *testing.T) {
		err := ErrValidation("department", "too long")

		require.IsType(t, ValidationError{}, err.Details)
		detail := err.Details.(ValidationError)
		assert.Equal(t, "department", detail.Field)
	})
}
