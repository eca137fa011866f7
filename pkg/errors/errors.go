package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeInvalidInput = "INVALID_INPUT"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
	CodeTimeout      = "TIMEOUT"
	CodeUnavailable  = "SERVICE_UNAVAILABLE"

	CodeResourceInactive    = "RESOURCE_INACTIVE"
	CodeCapacityExceeded    = "CAPACITY_EXCEEDED"
	CodeNoStaffAvailable    = "NO_STAFF_AVAILABLE"
	CodeAlreadyCancelled    = "ALREADY_CANCELLED"
	CodeBookingCompleted    = "BOOKING_COMPLETED"
	CodeCancellationWindow  = "CANCELLATION_WINDOW"
	CodePersistenceConflict = "PERSISTENCE_CONFLICT"
)

type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	return e.HTTPStatus
}

func (e *AppError) ToJSON() []byte {
	response := ErrorResponse{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}
	data, _ := json.Marshal(response)
	return data
}

type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

func Wrap(err error, code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

func NotFound(entity string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
	}
}

func NotFoundWithID(entity, id string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details: map[string]any{
			"entity": entity,
			"id":     id,
		},
	}
}

func Validation(message string, details map[string]any) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

func InvalidInput(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidInput,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func Timeout(message string) *AppError {
	return &AppError{
		Code:       CodeTimeout,
		Message:    message,
		HTTPStatus: http.StatusGatewayTimeout,
	}
}

func Unavailable(service string) *AppError {
	return &AppError{
		Code:       CodeUnavailable,
		Message:    fmt.Sprintf("%s is temporarily unavailable", service),
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// ResourceInactive signals that a resource exists but cannot be booked,
// distinct from a correctly computed empty slot list.
func ResourceInactive(resourceID string) *AppError {
	return &AppError{
		Code:       CodeResourceInactive,
		Message:    "Resource is not accepting bookings",
		HTTPStatus: http.StatusConflict,
		Details: map[string]any{
			"resource_id": resourceID,
		},
	}
}

// CapacityExceeded reports the remaining capacity so callers can surface it
// to the user.
func CapacityExceeded(available int) *AppError {
	return &AppError{
		Code:       CodeCapacityExceeded,
		Message:    "Requested units exceed remaining capacity for this time slot",
		HTTPStatus: http.StatusConflict,
		Details: map[string]any{
			"available": available,
		},
	}
}

func NoStaffAvailable(resourceID string) *AppError {
	return &AppError{
		Code:       CodeNoStaffAvailable,
		Message:    "No staff member is available for the requested time slot",
		HTTPStatus: http.StatusConflict,
		Details: map[string]any{
			"resource_id": resourceID,
		},
	}
}

func AlreadyCancelled(bookingID string) *AppError {
	return &AppError{
		Code:       CodeAlreadyCancelled,
		Message:    "Booking has already been cancelled",
		HTTPStatus: http.StatusConflict,
		Details: map[string]any{
			"booking_id": bookingID,
		},
	}
}

func BookingCompleted(bookingID string) *AppError {
	return &AppError{
		Code:       CodeBookingCompleted,
		Message:    "Booking has already been completed",
		HTTPStatus: http.StatusConflict,
		Details: map[string]any{
			"booking_id": bookingID,
		},
	}
}

func CancellationWindowViolation(cutoff time.Duration) *AppError {
	return &AppError{
		Code:       CodeCancellationWindow,
		Message:    fmt.Sprintf("Bookings must be cancelled at least %s before their start time", cutoff),
		HTTPStatus: http.StatusConflict,
		Details: map[string]any{
			"cutoff": cutoff.String(),
		},
	}
}

// PersistenceConflict signals a transient concurrency-control failure. Unlike
// the permanent rejections above, the caller should retry with backoff.
func PersistenceConflict(message string) *AppError {
	return &AppError{
		Code:       CodePersistenceConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
		Details: map[string]any{
			"retryable": true,
		},
	}
}

func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

func AsAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}

// IsRetryable reports whether the error is a transient condition worth
// retrying, as opposed to a permanent rejection.
func IsRetryable(err error) bool {
	appErr, ok := err.(*AppError)
	if !ok {
		return false
	}
	return appErr.Code == CodePersistenceConflict || appErr.Code == CodeTimeout || appErr.Code == CodeUnavailable
}
