package auth

import (
	"errors"
	"strings"
	"unicode/utf16"

	"github.com/corporatesaathi/saathi/internal/common"
)

// SpecialChars is the set of characters that satisfies the special
// character rule of the password policy.
const SpecialChars = "@$!%*?&#"

// MinPasswordLength and MinPhoneLength are advisory. The backend re-validates.
const (
	MinPasswordLength = 8
	MinPhoneLength    = 10
)

var (
	ErrPasswordMismatch  = errors.New("Passwords do not match")
	ErrPasswordTooShort  = errors.New("Password must be at least 8 characters")
	ErrPasswordNoUpper   = errors.New("Password needs 1 uppercase letter")
	ErrPasswordNoLower   = errors.New("Password needs 1 lowercase letter")
	ErrPasswordNoDigit   = errors.New("Password needs 1 number")
	ErrPasswordNoSpecial = errors.New("Password needs 1 special character: @$!%*?&#")
	ErrPhoneTooShort     = errors.New("Phone must be at least 10 digits")
)

// ValidatePassword reports the first rule of the password policy that p
// violates, checking length, upper, lower, digit and special in that order.
func ValidatePassword(p string) error {
	if textLength(p) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	var upper, lower, digit, special bool
	for _, r := range p {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(SpecialChars, r):
			special = true
		}
	}

	switch {
	case !upper:
		return ErrPasswordNoUpper
	case !lower:
		return ErrPasswordNoLower
	case !digit:
		return ErrPasswordNoDigit
	case !special:
		return ErrPasswordNoSpecial
	}
	return nil
}

// ValidatePhone checks the phone length only.
func ValidatePhone(p string) error {
	if textLength(p) < MinPhoneLength {
		return ErrPhoneTooShort
	}
	return nil
}

// textLength counts s in UTF-16 code units, the unit browsers use for
// form field lengths. Characters outside the BMP count twice.
func textLength(s string) int {
	n := 0
	for _, r := range s {
		n += max(utf16.RuneLen(r), 1)
	}
	return n
}

// ValidateSignup runs the signup pre-checks in the order they are shown to
// the user. The returned error text is user-facing.
func ValidateSignup(f Form) error {
	if f.Password != f.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if err := ValidatePassword(f.Password); err != nil {
		return err
	}
	return ValidatePhone(f.Phone)
}

// SanitizeOTP drops every non-digit from s and truncates the rest to the OTP
// length.
func SanitizeOTP(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s) && sb.Len() < common.OTPLength; i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
