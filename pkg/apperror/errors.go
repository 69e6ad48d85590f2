package apperror

import (
	"errors"
	"net/http"

	"github.com/jumapay/billing-api/internal/domain/entity"
	"github.com/jumapay/billing-api/pkg/money"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict       = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	ErrUnprocessable  = &AppError{Code: http.StatusUnprocessableEntity, Message: "Unprocessable entity"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts any error to an AppError, translating the domain
// error kinds to their HTTP status codes:
//
//	validation / invalid customer / overpayment / unallocated funds -> 422
//	invalid transition / delete not allowed / version conflict      -> 409
//	not found                                                       -> 404
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var (
		validationErr  *entity.ValidationError
		transitionErr  *entity.InvalidTransitionError
		overpaymentErr *entity.OverpaymentError
		unallocatedErr *entity.UnallocatedFundsError
	)
	switch {
	case errors.As(err, &validationErr):
		return &AppError{
			Code:    http.StatusUnprocessableEntity,
			Message: "Validation failed",
			Errors:  []FieldError{{Field: validationErr.Field, Message: validationErr.Message}},
		}
	case errors.As(err, &transitionErr):
		return &AppError{Code: http.StatusConflict, Message: transitionErr.Error()}
	case errors.As(err, &overpaymentErr):
		return &AppError{Code: http.StatusUnprocessableEntity, Message: overpaymentErr.Error()}
	case errors.As(err, &unallocatedErr):
		return &AppError{Code: http.StatusUnprocessableEntity, Message: unallocatedErr.Error()}
	case errors.Is(err, entity.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, entity.ErrVersionConflict):
		return &AppError{Code: http.StatusConflict, Message: "Invoice was modified concurrently, please retry"}
	case errors.Is(err, entity.ErrDeleteNotAllowed):
		return &AppError{Code: http.StatusConflict, Message: err.Error()}
	case errors.Is(err, entity.ErrInvalidCustomer):
		return &AppError{Code: http.StatusUnprocessableEntity, Message: err.Error()}
	case errors.Is(err, money.ErrCurrencyMismatch), errors.Is(err, money.ErrInvalidCurrency):
		return &AppError{Code: http.StatusUnprocessableEntity, Message: err.Error()}
	}

	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
