package validate

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"

	"github.com/PickAim/jarvis-backend/internal/apperrors"
)

var emailValidator = validator.New()

// PreparePhoneNumber normalizes a raw phone string: strips spaces and
// hyphens, prefixes '+' when missing and rewrites a leading national '8'
// to '+7'. Strings with letters are returned as is (after stripping) and
// left for CheckPhoneNumber to reject.
func PreparePhoneNumber(raw string) string {
	phone := strings.NewReplacer(" ", "", "-", "").Replace(raw)
	if phone == "" {
		return phone
	}

	for _, r := range phone {
		if unicode.IsLetter(r) {
			return phone
		}
	}

	switch {
	case strings.HasPrefix(phone, "8"):
		phone = "+7" + phone[1:]
	case !strings.HasPrefix(phone, "+"):
		phone = "+" + phone
	}

	return phone
}

// CheckPhoneNumber rejects strings with letters, then parses the number
// against the international phone number grammar and rejects numbers that
// are not valid assignable ones.
func CheckPhoneNumber(phone string) error {
	for _, r := range phone {
		if unicode.IsLetter(r) {
			return apperrors.ErrPhoneHasLetters
		}
	}

	num, err := phonenumbers.Parse(phone, "")
	if err != nil {
		return apperrors.ErrPhoneInvalid
	}

	if !phonenumbers.IsValidNumber(num) {
		return apperrors.ErrPhoneInvalid
	}

	return nil
}

// CheckEmail matches the whole string against the email grammar
func CheckEmail(email string) error {
	if err := emailValidator.Var(email, "required,email"); err != nil {
		return apperrors.ErrEmailInvalid
	}
	return nil
}

// PrepareSearchString trims, collapses inner whitespace runs to one space
// and lowercases. Used to normalize niche name lookups.
func PrepareSearchString(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
