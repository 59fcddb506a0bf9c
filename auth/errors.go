package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCreds    = "INVALID_CREDENTIALS"
	TextCodeTokenExpired    = "TOKEN_EXPIRED"
	TextCodeTokenMalformed  = "TOKEN_MALFORMED"
	TextCodeTokenWrongKind  = "TOKEN_WRONG_KIND"
	TextCodeUnauthenticated = "UNAUTHENTICATED"
	TextCodeUserBlocked     = "USER_BLOCKED"
	TextCodeForbidden       = "FORBIDDEN"
	TextCodeEmptyPassword   = "EMPTY_PASSWORD"
)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound)

// ErrMismatchedHashAndPassword is the single credential failure we
// surface from login. Unknown account and wrong password produce the
// same value so callers cannot enumerate accounts.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when a token's expiry claim is in the past.
var ErrTokenExpired = errors.New("authentication token expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed covers bad structure and signature mismatches alike.
var ErrTokenMalformed = errors.New("invalid authentication token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTokenWrongKind is returned when a refresh token is replayed as a
// bearer credential, or an access token is submitted to refresh.
var ErrTokenWrongKind = errors.New("token kind not valid for this operation", errors.CategoryAuth).
	WithTextCode(TextCodeTokenWrongKind).
	WithCode(errors.CodeUnauthorized)

// ErrUnauthenticated rejects requests before they reach business logic.
var ErrUnauthenticated = errors.New("authentication required", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrUserBlocked is surfaced as an authentication failure: a blocked
// subject's otherwise valid token must not pass the gate.
var ErrUserBlocked = errors.New("user account is blocked", errors.CategoryAuth).
	WithTextCode(TextCodeUserBlocked).
	WithCode(errors.CodeUnauthorized)

// ErrForbidden refuses an action for an authenticated caller.
var ErrForbidden = errors.New("you do not have permission to perform this action", errors.CategoryAuth).
	WithTextCode(TextCodeForbidden).
	WithCode(errors.CodeForbidden)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
