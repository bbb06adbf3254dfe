package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound             = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists        = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput         = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState         = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrUnauthorized         = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrPayloadTooLarge      = NewDomainError("PAYLOAD_TOO_LARGE", "Payload exceeds the allowed size for this category")
	ErrUnsupportedMediaType = NewDomainError("UNSUPPORTED_MEDIA_TYPE", "Content type is not allowed for this category")
	ErrFeatureDisabled      = NewDomainError("FEATURE_DISABLED", "This feature is not enabled")
	ErrNotConfigured        = NewDomainError("NOT_CONFIGURED", "Required configuration is missing")
	ErrSyncInProgress       = NewDomainError("SYNC_IN_PROGRESS", "A sync run is already in progress")
)
