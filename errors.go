package creatorconnect

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	// TextCodeAccountExists is returned on duplicate signup attempts
	TextCodeAccountExists = "account_exists"
	// TextCodeAccountNotFound is returned when an email has no account
	TextCodeAccountNotFound = "account_not_found"
	// TextCodeInvalidCreds is returned on password mismatch
	TextCodeInvalidCreds = "invalid_credentials"
	// TextCodeInvalidToken is returned for unknown or expired verification tokens
	TextCodeInvalidToken = "invalid_verification_token"
	// TextCodeAlreadyVerified is returned when verifying a verified account
	TextCodeAlreadyVerified = "already_verified"
	// TextCodeTokenExpired is returned for expired identity assertions
	TextCodeTokenExpired = "session_expired"
	// TextCodeTokenMalformed is returned for undecodable identity assertions
	TextCodeTokenMalformed = "session_malformed"
)

// ErrAccountExists is the duplicate-email signup failure
var ErrAccountExists = errors.New("An account with this email already exists", errors.CategoryConflict).
	WithTextCode(TextCodeAccountExists).
	WithCode(errors.CodeConflict)

// ErrAccountNotFound is the login failure for unknown emails
var ErrAccountNotFound = errors.New("No account found with this email address", errors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(errors.CodeNotFound)

// ErrUserNotFound is the resend-verification failure for unknown emails
var ErrUserNotFound = errors.New("User not found", errors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(errors.CodeNotFound)

// ErrCreatorNotFound is the contact failure for unknown creator slugs
var ErrCreatorNotFound = errors.New("Creator not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound)

// ErrIncorrectPassword is the login failure for a bad password
var ErrIncorrectPassword = errors.New("Incorrect password", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidVerificationToken covers unknown, consumed, and expired tokens
var ErrInvalidVerificationToken = errors.New("Invalid or expired verification token", errors.CategoryValidation).
	WithTextCode(TextCodeInvalidToken).
	WithCode(errors.CodeBadRequest)

// ErrAlreadyVerified is returned when the account needs no verification
var ErrAlreadyVerified = errors.New("Email is already verified", errors.CategoryValidation).
	WithTextCode(TextCodeAlreadyVerified).
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the low-level bcrypt mismatch
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before hashing
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest)

// ErrTokenExpired is returned for expired identity assertions
var ErrTokenExpired = errors.New("the session token has expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for undecodable identity assertions
var ErrTokenMalformed = errors.New("the session token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrUnableToDecodeSession is returned when validated claims cannot be mapped
var ErrUnableToDecodeSession = errors.New("unable to decode session", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// ErrProfileOwnershipMismatch rejects provisioning against someone else's account
var ErrProfileOwnershipMismatch = errors.New("You can only create a profile for your own account", errors.CategoryAuthz).
	WithCode(errors.CodeForbidden)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenExpired {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for undecodable tokens
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenMalformed {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// HTTPStatus resolves the status code for any workflow error. Rich errors
// carry their own code; everything else is treated as an internal failure.
func HTTPStatus(err error) int {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return http.StatusInternalServerError
	}

	if richErr.Code != 0 {
		return richErr.Code
	}

	switch richErr.Category {
	case errors.CategoryValidation, errors.CategoryBadInput:
		return http.StatusBadRequest
	case errors.CategoryAuth:
		return http.StatusUnauthorized
	case errors.CategoryAuthz:
		return http.StatusForbidden
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryConflict:
		return http.StatusConflict
	case errors.CategoryRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
