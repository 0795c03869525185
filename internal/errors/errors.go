package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message.
// The message is what clients see; Err carries the wrapped internal cause.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Predefined domain errors. User-facing messages for the auth flows come
// from the product copy and are intentionally French.
var (
	// Validation errors (400)
	ErrInvalidInput      = NewDomainError("INVALID_INPUT", "invalid input")
	ErrMalformedToken    = NewDomainError("MALFORMED_TOKEN", "Token manquant ou malformé")
	ErrTokenExpired      = NewDomainError("TOKEN_EXPIRED", "Token expiré")
	ErrResetLinkInvalid  = NewDomainError("RESET_LINK_INVALID", "Le lien de réinitialisation est invalide ou a expiré.")
	ErrPasswordMismatch  = NewDomainError("PASSWORD_MISMATCH", "new password and confirmation do not match")
	ErrIncorrectPassword = NewDomainError("INCORRECT_PASSWORD", "current password is incorrect")

	// Authentication errors (401)
	ErrUnauthorized       = NewDomainError("UNAUTHORIZED", "Unauthorized")
	ErrInvalidCredentials = NewDomainError("INVALID_CREDENTIALS", "Invalid credentials")

	// Authorization errors (403)
	ErrEmailNotVerified = NewDomainError("EMAIL_NOT_VERIFIED", "Veuillez vérifier votre email avant de vous connecter")
	ErrInvalidToken     = NewDomainError("INVALID_TOKEN", "Token invalide ou expiré")
	ErrForbidden        = NewDomainError("FORBIDDEN", "You are not authorized to access this route")

	// Not-found errors (404)
	ErrUserNotFound     = NewDomainError("USER_NOT_FOUND", "user not found")
	ErrTokenNotFound    = NewDomainError("TOKEN_NOT_FOUND", "Token invalide")
	ErrNoAccountForMail = NewDomainError("NO_ACCOUNT", "Aucun compte n'est associé à cette adresse email.")
	ErrSessionNotFound  = NewDomainError("SESSION_NOT_FOUND", "Unauthorized")

	// Conflict errors (409)
	ErrEmailExists = NewDomainError("EMAIL_EXISTS", "Un compte existe déjà pour ces informations")

	// Rate limiting (429)
	ErrTooManyAttempts = NewDomainError("TOO_MANY_ATTEMPTS", "Trop de tentatives, réessayez plus tard")

	// System errors (500)
	ErrConfiguration = NewDomainError("CONFIGURATION_ERROR", "service misconfigured")
	ErrTransient     = NewDomainError("TRANSIENT_ERROR", "temporary failure, please retry")
	ErrInternal      = NewDomainError("INTERNAL_ERROR", "internal server error")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes.
// This should only be used in the handler/presentation layer.
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	case "INVALID_INPUT", "MALFORMED_TOKEN", "TOKEN_EXPIRED",
		"RESET_LINK_INVALID", "PASSWORD_MISMATCH", "INCORRECT_PASSWORD":
		return http.StatusBadRequest

	case "UNAUTHORIZED", "INVALID_CREDENTIALS", "SESSION_NOT_FOUND":
		return http.StatusUnauthorized

	case "EMAIL_NOT_VERIFIED", "INVALID_TOKEN", "FORBIDDEN":
		return http.StatusForbidden

	case "USER_NOT_FOUND", "TOKEN_NOT_FOUND", "NO_ACCOUNT":
		return http.StatusNotFound

	case "EMAIL_EXISTS":
		return http.StatusConflict

	case "TOO_MANY_ATTEMPTS":
		return http.StatusTooManyRequests

	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts the client-facing error message.
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}
