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

// ---- Wallet Business Logic (WLT) ----

func ErrWalletAlreadyExists() *AppError {
	return New("WLT_001", "A wallet already exists for this customer", http.StatusConflict)
}

func ErrMissingPaymentMethod() *AppError {
	return New("WLT_002", "No payment method available for the wallet's customer", http.StatusPaymentRequired)
}

func ErrInvalidPaymentMethod() *AppError {
	return New("WLT_003", "The payment method does not belong to the wallet's customer", http.StatusForbidden)
}

// ErrPaymentCaptureFailed signals that the external charge did not reach a
// succeeded terminal state. The credit recorded before the capture attempt
// stays in the ledger.
func ErrPaymentCaptureFailed(err error) *AppError {
	return Wrap("WLT_004", "Payment failed", http.StatusBadRequest, err)
}

func ErrInvalidAmount() *AppError {
	return New("WLT_005", "Invalid amount", http.StatusBadRequest)
}

func ErrNotFound(entity string) *AppError {
	return New("WLT_006", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrTaxCalculationFailure(err error) *AppError {
	return Wrap("SYS_002", "Tax calculation failure", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a WLT_005-style validation error.
func Validation(message string) *AppError {
	return New("WLT_005", message, http.StatusBadRequest)
}
