package model

import (
	"fmt"
	"strings"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  []ValidationError `json:"fields,omitempty"`
	Locked  bool              `json:"locked,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON           = "INVALID_JSON"
	ErrCodeValidationFailed      = "VALIDATION_FAILED"
	ErrCodeCategoryNotFound      = "CATEGORY_NOT_FOUND"
	ErrCodeMenuItemNotFound      = "MENU_ITEM_NOT_FOUND"
	ErrCodeCustomizationNotFound = "CUSTOMIZATION_NOT_FOUND"
	ErrCodeOrderNotFound         = "ORDER_NOT_FOUND"
	ErrCodeCartNotFound          = "CART_NOT_FOUND"
	ErrCodeCartItemNotFound      = "CART_ITEM_NOT_FOUND"
	ErrCodeInvalidStatus         = "INVALID_STATUS"
	ErrCodeInvalidTransition     = "INVALID_STATUS_TRANSITION"
	ErrCodeOrderNotCancellable   = "ORDER_NOT_CANCELLABLE"
	ErrCodeInvalidQuantity       = "INVALID_QUANTITY"
	ErrCodeInvalidCredentials    = "INVALID_CREDENTIALS"
	ErrCodeInvalidGlobalKey      = "INVALID_GLOBAL_KEY"
	ErrCodeAdminLocked           = "ADMIN_LOCKED"
	ErrCodeAdvancedLocked        = "ADVANCED_LOCKED"
	ErrCodeMissingClientID       = "MISSING_CLIENT_ID"
	ErrCodeUnsupportedMedia      = "UNSUPPORTED_MEDIA_TYPE"
	ErrCodeMediaTooLarge         = "MEDIA_TOO_LARGE"
	ErrCodeUnknownCollection     = "UNKNOWN_COLLECTION"
	ErrCodeReplicaUnavailable    = "REPLICA_UNAVAILABLE"
	ErrCodeInternalError         = "INTERNAL_ERROR"
	ErrCodeFetchFailed           = "FETCH_FAILED"
	ErrCodeMethodNotAllowed      = "METHOD_NOT_ALLOWED"
	ErrCodeNotFound              = "NOT_FOUND"
	ErrCodeUnauthorised          = "UNAUTHORIZED"
	ErrCodeForbidden             = "FORBIDDEN"
	ErrCodePasswordMismatch      = "PASSWORD_MISMATCH"
	ErrCodeInvalidPasswordType   = "INVALID_PASSWORD_TYPE"
	ErrCodeInvalidPasswordFormat = "INVALID_PASSWORD_FORMAT"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

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
	ErrCategoryNotFound      = NewDomainError(ErrCodeCategoryNotFound, "Category not found")
	ErrMenuItemNotFound      = NewDomainError(ErrCodeMenuItemNotFound, "Menu item not found")
	ErrCustomizationNotFound = NewDomainError(ErrCodeCustomizationNotFound, "Customization option not found")
	ErrOrderNotFound         = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrCartNotFound          = NewDomainError(ErrCodeCartNotFound, "Cart not found")
	ErrCartItemNotFound      = NewDomainError(ErrCodeCartItemNotFound, "Cart item not found")
	ErrInvalidStatus         = NewDomainError(ErrCodeInvalidStatus, "Unknown order status")
	ErrInvalidTransition     = NewDomainError(ErrCodeInvalidTransition, "Order status can only move one step forward")
	ErrOrderNotCancellable   = NewDomainError(ErrCodeOrderNotCancellable, "Only pending orders can be cancelled")
	ErrInvalidQuantity       = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidCredentials    = NewDomainError(ErrCodeInvalidCredentials, "Incorrect password")
	ErrInvalidGlobalKey      = NewDomainError(ErrCodeInvalidGlobalKey, "Invalid global key")
	ErrAdminLocked           = NewDomainError(ErrCodeAdminLocked, "Admin access required")
	ErrAdvancedLocked        = NewDomainError(ErrCodeAdvancedLocked, "Advanced admin access required")
	ErrMissingClientID       = NewDomainError(ErrCodeMissingClientID, "X-Client-ID header is required")
	ErrUnsupportedMedia      = NewDomainError(ErrCodeUnsupportedMedia, "Please upload a JPEG, PNG, or WebP image")
	ErrMediaTooLarge         = NewDomainError(ErrCodeMediaTooLarge, "Image size must be less than 5MB")
	ErrUnknownCollection     = NewDomainError(ErrCodeUnknownCollection, "Unknown collection")
	ErrReplicaUnavailable    = NewDomainError(ErrCodeReplicaUnavailable, "Data is still loading or failed to load")
	ErrPasswordMismatch      = NewDomainError(ErrCodePasswordMismatch, "Passwords do not match")
	ErrInvalidPasswordType   = NewDomainError(ErrCodeInvalidPasswordType, "Password type must be admin or advanced")
	ErrInvalidPasswordFormat = NewDomainError(ErrCodeInvalidPasswordFormat, "Password must be 6 to 50 characters of letters, digits or symbols")
)

// FetchError reports a failed collection read. Callers see a generic message,
// the cause stays available through errors.Unwrap.
type FetchError struct {
	Collection string
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s", e.Collection)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is a list of field-level failures returned as one error.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Field + ": " + e.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a field failure.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// Err returns nil when no failures were recorded.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
