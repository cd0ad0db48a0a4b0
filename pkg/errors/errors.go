package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrDecode      = NewError("DECODE_ERROR", "record data could not be decoded", http.StatusUnprocessableEntity)
	ErrParse       = NewError("PARSE_ERROR", "record payload is not valid JSON", http.StatusUnprocessableEntity)
	ErrUnexpected  = NewError("UNEXPECTED_ERROR", "unexpected record processing error", http.StatusUnprocessableEntity)
	ErrValidation  = NewError("VALIDATION_ERROR", "validation failed", http.StatusBadRequest)
	ErrInternal    = NewError("INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
	ErrRateLimited = NewError("RATE_LIMIT_EXCEEDED", "rate limit exceeded", http.StatusTooManyRequests)
)

type Error struct {
	Code    string
	Message string
	Status  int
	Details map[string]interface{}
	Cause   error
}

func NewError(code, message string, status int) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Status:  status,
		Details: make(map[string]interface{}),
	}
}

func (e *Error) Error() string {
	msg := e.Message

	if len(e.Details) > 0 {
		if detailMsg, ok := e.Details["message"].(string); ok && detailMsg != "" {
			msg = detailMsg
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on Code so that errors.Is(err, ErrDecode) holds for derived copies.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func (e *Error) WithCause(cause error) *Error {
	err := *e
	err.Cause = cause
	return &err
}

func (e *Error) WithDetail(key string, value interface{}) *Error {
	err := *e
	details := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	err.Details = details
	return &err
}

func Code(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrUnexpected.Code
}

func IsDecode(err error) bool {
	return hasCode(err, ErrDecode.Code)
}

func IsParse(err error) bool {
	return hasCode(err, ErrParse.Code)
}

func IsValidation(err error) bool {
	return hasCode(err, ErrValidation.Code)
}

func hasCode(err error, code string) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

func ToHTTPStatus(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

func ToErrorResponse(err error) map[string]interface{} {
	var appErr *Error
	if !errors.As(err, &appErr) {
		appErr = ErrInternal.WithCause(err)
	}

	response := map[string]interface{}{
		"error":      appErr.Message,
		"error_code": appErr.Code,
	}

	if len(appErr.Details) > 0 {
		response["details"] = appErr.Details
	}

	return response
}
