package dto

import "net/http"

// Error codes surfaced by the API. Domain errors carry these codes
// directly; the map below decides the HTTP status they travel with.
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeValidation = "VALIDATION_ERROR"

	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"

	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"

	ErrCodeInvalidState         = "INVALID_STATE"
	ErrCodeInvalidInput         = "INVALID_INPUT"
	ErrCodePayloadTooLarge      = "PAYLOAD_TOO_LARGE"
	ErrCodeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"
	ErrCodeFeatureDisabled      = "FEATURE_DISABLED"
	ErrCodeNotConfigured        = "NOT_CONFIGURED"
	ErrCodeSyncInProgress       = "SYNC_IN_PROGRESS"
	ErrCodeUploadFailed         = "UPLOAD_FAILED"
	ErrCodeNotTrackable         = "NOT_TRACKABLE"
	ErrCodeRecoveryRequired     = "RECOVERY_REQUIRED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,

	ErrCodeInvalidState:         http.StatusUnprocessableEntity,
	ErrCodeInvalidInput:         http.StatusBadRequest,
	ErrCodePayloadTooLarge:      http.StatusRequestEntityTooLarge,
	ErrCodeUnsupportedMediaType: http.StatusUnsupportedMediaType,
	ErrCodeFeatureDisabled:      http.StatusBadRequest,
	ErrCodeNotConfigured:        http.StatusInternalServerError,
	ErrCodeSyncInProgress:       http.StatusConflict,
	ErrCodeUploadFailed:         http.StatusInternalServerError,
	ErrCodeNotTrackable:         http.StatusBadRequest,
	ErrCodeRecoveryRequired:     http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
