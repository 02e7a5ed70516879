package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Marketplace Business Logic (MKT) ----

func ErrAlreadySold() *AppError {
	return New("MKT_001", "Listing has already been sold", http.StatusConflict)
}

func ErrSelfPurchase() *AppError {
	return New("MKT_002", "Cannot purchase your own listing", http.StatusConflict)
}

func ErrAmountMismatch() *AppError {
	return New("MKT_003", "Amount does not match listing price", http.StatusBadRequest)
}

func ErrNotFound(entity string) *AppError {
	return New("MKT_004", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrDuplicateSignature() *AppError {
	return New("MKT_005", "Transaction signature already recorded", http.StatusConflict)
}

// ---- Chain Gateway (CHAIN) ----

func ErrTransferNotVerified(err error) *AppError {
	return Wrap("CHAIN_001", "On-chain transfer could not be verified", http.StatusPaymentRequired, err)
}

// ---- Authorization (AUTH) ----

func ErrAdminKeyRequired() *AppError {
	return New("AUTH_001", "Valid admin key required", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a VAL_001 validation error carrying field-level detail.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}
