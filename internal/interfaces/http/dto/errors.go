package dto

import (
	"net/http"

	"github.com/portal/backend/internal/domain/shared"
)

// Input error codes raised at the HTTP boundary before any service call
const (
	ErrCodeBadRequest  = "BAD_REQUEST"
	ErrCodeInvalidJSON = "INVALID_JSON"
	ErrCodeInternal    = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps domain and boundary error codes to HTTP status
// codes. VERSION_CONFLICT and INVALID_TRANSITION are both conflicts with
// the stored document state, so both map to 409.
var errorCodeHTTPStatus = map[string]int{
	shared.CodeValidationError:     http.StatusBadRequest,
	shared.CodeInvalidInput:        http.StatusBadRequest,
	shared.CodeInvalidTransition:   http.StatusConflict,
	shared.CodeVersionConflict:     http.StatusConflict,
	shared.CodeForbidden:           http.StatusForbidden,
	shared.CodeNotFound:            http.StatusNotFound,
	shared.CodePartialBatchFailure: http.StatusBadGateway,

	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,
	ErrCodeInternal:    http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an error code,
// defaulting to 500 for unknown codes
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
