package validate

import (
	"strings"
	"unicode"

	"github.com/PickAim/jarvis-backend/internal/apperrors"
)

const passwordSpecialSigns = "!@#$%^&*()_+~"

// CheckPassword runs the password policy checks in fixed order,
// returning the first rule violated.
func CheckPassword(password string) error {
	if len([]rune(password)) < 8 {
		return apperrors.ErrPasswordTooShort
	}

	hasLower := false
	hasUpper := false
	hasDigit := false
	hasSpecial := false
	hasSpace := false

	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSpecialSigns, r):
			hasSpecial = true
		case unicode.IsSpace(r):
			hasSpace = true
		}
	}

	switch {
	case !hasLower:
		return apperrors.ErrPasswordNoLower
	case !hasUpper:
		return apperrors.ErrPasswordNoUpper
	case !hasDigit:
		return apperrors.ErrPasswordNoDigit
	case !hasSpecial:
		return apperrors.ErrPasswordNoSpecial
	case hasSpace:
		return apperrors.ErrPasswordHasSpaces
	}

	return nil
}
