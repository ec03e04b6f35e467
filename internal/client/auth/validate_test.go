package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"valid", "Secret1@", nil},
		{"valid long", "CorrectHorse9#Battery", nil},
		{"every special accepted", "Abcdefg1$", nil},
		{"too short", "Sec1@a", ErrPasswordTooShort},
		{"short beats other rules", "abc", ErrPasswordTooShort},
		{"no upper", "secret1@", ErrPasswordNoUpper},
		{"no lower", "SECRET1@", ErrPasswordNoLower},
		{"no digit", "Secretly@", ErrPasswordNoDigit},
		{"no special", "Secret123", ErrPasswordNoSpecial},
		{"special outside set", "Secret12^", ErrPasswordNoSpecial},
		{"non-ascii letters do not count", "ÄÖÜsecret1@", ErrPasswordNoUpper},
		{"length counts characters not bytes", "Ab1@ééé", ErrPasswordTooShort},
		{"eight characters with accents", "Ab1@éééé", nil},
		{"astral characters count twice", "Ab1@😀😀", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePassword(tt.in))
		})
	}
}

// Accepted iff len>=8 and every character class is present.
func TestValidatePassword_MatchesPolicyForAllSpecials(t *testing.T) {
	for _, c := range SpecialChars {
		p := "Abcdef1" + string(c)
		assert.NoError(t, ValidatePassword(p), p)
	}
	for _, c := range "^~-_=+" {
		p := "Abcdef1" + string(c)
		assert.ErrorIs(t, ValidatePassword(p), ErrPasswordNoSpecial, p)
	}
}

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone("9876543210"))
	assert.NoError(t, ValidatePhone("+91 98765 43210"))
	assert.ErrorIs(t, ValidatePhone("987654321"), ErrPhoneTooShort)
	assert.ErrorIs(t, ValidatePhone(""), ErrPhoneTooShort)
	// length is what counts, not digits
	assert.NoError(t, ValidatePhone("abcdefghij"))
	assert.ErrorIs(t, ValidatePhone("९८७६५४"), ErrPhoneTooShort, "Devanagari digits are 3 bytes each")
	assert.NoError(t, ValidatePhone("९८७६५४३२१०"))
}

func TestValidateSignup_Order(t *testing.T) {
	base := Form{Password: "Secret1@", ConfirmPassword: "Secret1@", Phone: "9876543210"}
	assert.NoError(t, ValidateSignup(base))

	mismatchAndWeak := base
	mismatchAndWeak.Password = "weak"
	assert.Equal(t, ErrPasswordMismatch, ValidateSignup(mismatchAndWeak))

	weakAndShortPhone := Form{Password: "weak", ConfirmPassword: "weak", Phone: "1"}
	assert.Equal(t, ErrPasswordTooShort, ValidateSignup(weakAndShortPhone))

	shortPhone := base
	shortPhone.Phone = "12345"
	assert.Equal(t, ErrPhoneTooShort, ValidateSignup(shortPhone))
}

func TestSanitizeOTP(t *testing.T) {
	tests := map[string]string{
		"":                      "",
		"123456":                "123456",
		"12a3-4b56":             "123456",
		"1234567890":            "123456",
		"abc":                   "",
		" 1 2 3 ":               "123",
		"١٢٣123":                "123",
		strings.Repeat("9", 50): "999999",
	}
	for in, want := range tests {
		got := SanitizeOTP(in)
		assert.Equal(t, want, got, "input %q", in)
		assert.LessOrEqual(t, len(got), 6)
	}
}
