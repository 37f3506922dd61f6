package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the caller is authenticated but not allowed
	ErrCodeForbidden = "ERR_FORBIDDEN"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for the current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeAlreadyPaid is used when a paid invoice blocks the operation
	ErrCodeAlreadyPaid = "ERR_ALREADY_PAID"
	// ErrCodeBoothUnavailable is used when requested booths are held by another vendor
	ErrCodeBoothUnavailable = "ERR_BOOTH_UNAVAILABLE"
	// ErrCodeBillingInProgress is used when an outstanding invoice freezes the vendor
	ErrCodeBillingInProgress = "ERR_BILLING_IN_PROGRESS"
)

// Integration error codes
const (
	// ErrCodeExternalService is used when the payment processor call fails
	ErrCodeExternalService = "ERR_EXTERNAL_SERVICE"
	// ErrCodeSignature is used when webhook signature verification fails
	ErrCodeSignature = "ERR_SIGNATURE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:  http.StatusBadRequest,
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeAlreadyPaid:       http.StatusConflict,
	ErrCodeBoothUnavailable:  http.StatusConflict,
	ErrCodeBillingInProgress: http.StatusConflict,

	ErrCodeExternalService: http.StatusBadGateway,
	ErrCodeSignature:       http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the standardized codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeValidation,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"INVALID_STATE":        ErrCodeInvalidState,
	"ALREADY_PAID":         ErrCodeAlreadyPaid,
	"EXTERNAL_SERVICE":     ErrCodeExternalService,
	"INVALID_SIGNATURE":    ErrCodeSignature,
	"BOOTH_UNAVAILABLE":    ErrCodeBoothUnavailable,
	"BOOTH_NOT_FOUND":      ErrCodeNotFound,
	"BILLING_IN_PROGRESS":  ErrCodeBillingInProgress,
	"NO_INVOICE":           ErrCodeInvalidState,
	"INVALID_AMOUNT":       ErrCodeValidation,
	"INVALID_NAME":         ErrCodeValidation,
	"INVALID_EMAIL":        ErrCodeValidation,
	"INVALID_BOOTH_NUMBER": ErrCodeValidation,
	"INVALID_PRICE":        ErrCodeValidation,
	"INVALID_ASSIGNMENT":   ErrCodeValidation,
	"INVALID_INVOICE_REF":  ErrCodeValidation,
}

// NormalizeErrorCode converts a domain error code to the standardized format.
// If the code is already in the new format or unknown, returns it as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
