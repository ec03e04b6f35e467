package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		code    string
		message string
		want    Kind
	}{
		{"code beats message", 400, "DUPLICATE_EMAIL", "Invalid input", KindDuplicateEmail},
		{"code is case-insensitive", 400, "invalid_otp", "", KindInvalidOTP},
		{"account not found code", 404, CodeAccountNotFound, "", KindNotFound},
		{"unauthorized code", 200, CodeUnauthorized, "", KindUnauthorized},
		{"validation code", 422, CodeValidation, "", KindValidation},
		{"legacy duplicate", 400, "", "duplicate key error", KindDuplicateEmail},
		{"legacy exists", 400, "", "User already exists", KindDuplicateEmail},
		{"legacy not found", 404, "", "User not found", KindNotFound},
		{"legacy invalid", 400, "", "Invalid credentials", KindInvalidCredentials},
		{"invalid wins over not found", 401, "", "Invalid user: account not found", KindInvalidCredentials},
		{"status 401", 401, "", "nope", KindUnauthorized},
		{"status 403", 403, "", "", KindUnauthorized},
		{"status 409", 409, "", "", KindDuplicateEmail},
		{"status 400", 400, "", "bad", KindValidation},
		{"status 500", 500, "", "boom", KindUnknown},
		{"unknown code falls through", 500, "SOMETHING_ELSE", "", KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.status, tt.code, tt.message))
		})
	}
}

func TestError_IsSentinels(t *testing.T) {
	forbidden := &Error{Status: http.StatusForbidden, Kind: KindUnknown}
	assert.ErrorIs(t, forbidden, ErrUnauthorized)
	assert.NotErrorIs(t, forbidden, ErrUnavailable)

	transport := &Error{Kind: KindTransport}
	assert.ErrorIs(t, fmt.Errorf("wrapped: %w", transport), ErrUnavailable)
	assert.NotErrorIs(t, transport, ErrUnauthorized)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindDuplicateEmail, KindOf(fmt.Errorf("x: %w", &Error{Kind: KindDuplicateEmail})))
	assert.Equal(t, KindTransport, KindOf(fmt.Errorf("x: %w", ErrUnavailable)))
	assert.Equal(t, KindUnknown, KindOf(errors.New("other")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil, "fallback"))
	assert.Equal(t, "Wrong OTP", Message(&Error{Message: "Wrong OTP"}, "fallback"))
	assert.Equal(t, "fallback", Message(&Error{}, "fallback"))
	assert.Equal(t, "boom", Message(errors.New("boom"), "fallback"))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "invalid_credentials", KindInvalidCredentials.String())
	assert.Equal(t, "rejected", KindRejected.String())
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestEnvelope_Err(t *testing.T) {
	ok := &Envelope[User]{Success: true}
	assert.NoError(t, ok.Err())

	rejected := &Envelope[User]{Error: "Account suspended"}
	err := rejected.Err()
	assert.Equal(t, KindRejected, KindOf(err))
	assert.Equal(t, "Account suspended", err.Error())

	coded := &Envelope[User]{Message: "bad code", Code: CodeInvalidOTP}
	assert.Equal(t, KindInvalidOTP, KindOf(coded.Err()))

	var missing *Envelope[User]
	assert.Equal(t, KindRejected, KindOf(missing.Err()))
}
