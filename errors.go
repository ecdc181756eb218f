package accounts

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidRequestType = "INVALID_REQUEST_TYPE"
	TextCodeAccountNotFound    = "ACCOUNT_NOT_FOUND"
	TextCodeInvalidOTP         = "INVALID_OTP"
	TextCodeInvalidCreds       = "INVALID_CREDENTIALS"
	TextCodeNotVerified        = "NOT_VERIFIED"
	TextCodeTokenNotFound      = "TOKEN_NOT_FOUND"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeInvalidToken       = "INVALID_TOKEN"
	TextCodeEmptyPassword      = "EMPTY_PASSWORD"
)

// ErrInvalidRequestType is returned when a caller supplies a flow
// discriminator that does not match the operation's expected literal.
var ErrInvalidRequestType = errors.New("request type does not match this flow", errors.CategoryBadInput).
	WithTextCode(TextCodeInvalidRequestType).
	WithCode(errors.CodeBadRequest)

// ErrAccountNotFound is returned when no account exists for the given email.
var ErrAccountNotFound = errors.New("account not found", errors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(errors.CodeNotFound)

// ErrInvalidOTP is returned when the supplied OTP does not match the stored
// outstanding value, or none is outstanding.
var ErrInvalidOTP = errors.New("the otp provided is invalid", errors.CategoryBadInput).
	WithTextCode(TextCodeInvalidOTP).
	WithCode(errors.CodeBadRequest)

// ErrInvalidCredentials is returned when an email/password pair does not
// authenticate. It is deliberately identical for an unknown email and a
// wrong password so callers cannot enumerate accounts.
var ErrInvalidCredentials = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrNotVerified is returned for valid credentials on an account that has
// not completed OTP verification.
var ErrNotVerified = errors.New("account has not completed verification", errors.CategoryAuth).
	WithTextCode(TextCodeNotVerified).
	WithCode(errors.CodeUnauthorized)

// ErrTokenNotFound is returned when a refresh is requested without a token.
var ErrTokenNotFound = errors.New("refresh token is required", errors.CategoryBadInput).
	WithTextCode(TextCodeTokenNotFound).
	WithCode(errors.CodeNotFound)

// ErrTokenExpired is returned for tokens whose expiry has passed. Kept
// distinct from ErrTokenMalformed so callers can silently re-authenticate
// on expiry while treating tampering as hostile.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for structurally invalid or wrongly signed
// tokens.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidToken).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before they reach the hasher.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
