package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("MKT_001", "Listing has already been sold", http.StatusConflict),
			expected: "[MKT_001] Listing has already been sold",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsNilUnwrap(t *testing.T) {
	appErr := New("VAL_001", "test", http.StatusBadRequest)
	assert.Nil(t, appErr.Unwrap())
}

func TestMarketplaceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"AlreadySold", ErrAlreadySold(), "MKT_001", 409},
		{"SelfPurchase", ErrSelfPurchase(), "MKT_002", 409},
		{"AmountMismatch", ErrAmountMismatch(), "MKT_003", 400},
		{"NotFound", ErrNotFound("Listing"), "MKT_004", 404},
		{"DuplicateSignature", ErrDuplicateSignature(), "MKT_005", 409},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestChainError(t *testing.T) {
	inner := fmt.Errorf("transaction not finalized")
	err := ErrTransferNotVerified(inner)
	assert.Equal(t, "CHAIN_001", err.Code)
	assert.Equal(t, 402, err.HTTPStatus)
	assert.True(t, errors.Is(err, inner))
}

func TestAdminKeyError(t *testing.T) {
	err := ErrAdminKeyRequired()
	assert.Equal(t, "AUTH_001", err.Code)
	assert.Equal(t, 403, err.HTTPStatus)
}

func TestRateLimitError(t *testing.T) {
	err := ErrRateLimitExceeded()
	assert.Equal(t, "RATE_001", err.Code)
	assert.Equal(t, 429, err.HTTPStatus)
}

func TestSystemErrors(t *testing.T) {
	inner := fmt.Errorf("pg: connection closed")
	dbErr := ErrDatabaseError(inner)
	assert.Equal(t, "SYS_001", dbErr.Code)
	assert.Equal(t, 500, dbErr.HTTPStatus)
	assert.True(t, errors.Is(dbErr, inner))
}

func TestNotFoundEntity(t *testing.T) {
	err := ErrNotFound("User")
	assert.Contains(t, err.Message, "User")
	assert.Equal(t, "MKT_004", err.Code)
}
