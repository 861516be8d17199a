package apperrors

import (
	"errors"
)

var (
	// Token errors
	ErrInvalidSignature = errors.New("token signature is invalid or token is malformed")
	ErrMissingClaim     = errors.New("required claim is missing from token")
	ErrIncorrectToken   = errors.New("token is incorrect or revoked")
	ErrTokenExpired     = errors.New("token is expired")

	// Auth errors
	ErrIncorrectLoginOrPassword = errors.New("incorrect login or password")
	ErrLoginAlreadyExists       = errors.New("login already exists")
	ErrRegisterWithoutLogin     = errors.New("at least one of email or phone is required")

	ErrUserNotFound = errors.New("user not found")

	// Password policy errors, checked in order: first failure wins
	ErrPasswordTooShort  = errors.New("password is shorter than 8 characters")
	ErrPasswordNoLower   = errors.New("password has no lowercase letters")
	ErrPasswordNoUpper   = errors.New("password has no uppercase letters")
	ErrPasswordNoDigit   = errors.New("password has no digits")
	ErrPasswordNoSpecial = errors.New("password has no special signs")
	ErrPasswordHasSpaces = errors.New("password contains whitespace")

	// Login identifier errors
	ErrPhoneHasLetters = errors.New("phone number contains letters")
	ErrPhoneInvalid    = errors.New("phone number is not valid")
	ErrEmailInvalid    = errors.New("email is not valid")

	// Saved calculation requests
	ErrRequestNotFound  = errors.New("saved request not found")
	ErrPermissionDenied = errors.New("not enough privilege for operation")
)

// Client-facing codes for the '{error, message}' payload.
// Validation codes are surfaced verbatim so the client can show field-level
// hints; auth codes deliberately stay coarse.
var codes = map[error]string{
	ErrInvalidSignature:         "INCORRECT_TOKEN",
	ErrMissingClaim:             "INCORRECT_TOKEN",
	ErrIncorrectToken:           "INCORRECT_TOKEN",
	ErrTokenExpired:             "EXPIRED_TOKEN",
	ErrIncorrectLoginOrPassword: "INCORRECT_LOGIN_OR_PASSWORD",
	ErrLoginAlreadyExists:       "EXISTING_LOGIN",
	ErrRegisterWithoutLogin:     "REGISTER_WITHOUT_LOGIN",
	ErrUserNotFound:             "USER_NOT_FOUND",
	ErrPasswordTooShort:         "LESS_THAN_8",
	ErrPasswordNoLower:          "NOT_HAS_LOWER_LETTERS",
	ErrPasswordNoUpper:          "NOT_HAS_UPPER_LETTERS",
	ErrPasswordNoDigit:          "NOT_HAS_DIGIT",
	ErrPasswordNoSpecial:        "NOT_HAS_SPECIAL_SIGNS",
	ErrPasswordHasSpaces:        "HAS_WHITE_SPACES",
	ErrPhoneHasLetters:          "INVALID_PHONE_NUMBER",
	ErrPhoneInvalid:             "INVALID_PHONE_NUMBER",
	ErrEmailInvalid:             "INVALID_EMAIL",
	ErrRequestNotFound:          "REQUEST_NOT_FOUND",
	ErrPermissionDenied:         "PERMISSION_DENIED",
}

// Code returns the client-facing code for a known sentinel error.
// Unknown errors map to INTERNAL_ERROR so internals never leak.
func Code(err error) string {
	for sentinel, code := range codes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return "INTERNAL_ERROR"
}
