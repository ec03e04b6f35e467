package api

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadResponse  = errors.New("malformed response")
)

// Kind classifies a failed call so callers can react without parsing text.
type Kind int

const (
	KindUnknown Kind = iota
	KindTransport
	KindUnauthorized
	KindInvalidCredentials
	KindNotFound
	KindDuplicateEmail
	KindInvalidOTP
	KindValidation
	KindRejected
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindUnauthorized:
		return "unauthorized"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindNotFound:
		return "not_found"
	case KindDuplicateEmail:
		return "duplicate_email"
	case KindInvalidOTP:
		return "invalid_otp"
	case KindValidation:
		return "validation"
	case KindRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Structured error codes sent by the backend in the envelope "code" field.
const (
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountNotFound    = "ACCOUNT_NOT_FOUND"
	CodeNotFound           = "NOT_FOUND"
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeInvalidOTP         = "INVALID_OTP"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeValidation         = "VALIDATION_ERROR"
)

var kindByCode = map[string]Kind{
	CodeInvalidCredentials: KindInvalidCredentials,
	CodeAccountNotFound:    KindNotFound,
	CodeNotFound:           KindNotFound,
	CodeDuplicateEmail:     KindDuplicateEmail,
	CodeInvalidOTP:         KindInvalidOTP,
	CodeUnauthorized:       KindUnauthorized,
	CodeValidation:         KindValidation,
}

// DefaultErrorMessage is used when a failed response carries no message.
const DefaultErrorMessage = "API request failed"

// Error is a failed backend call. Message is safe to show to the user.
type Error struct {
	Status    int
	Kind      Kind
	Code      string
	Message   string
	RequestID string

	cause error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether e matches one of the package sentinel errors.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Kind == KindUnauthorized ||
			e.Status == http.StatusUnauthorized ||
			e.Status == http.StatusForbidden
	case ErrUnavailable:
		return e.Kind == KindTransport
	}
	return false
}

// KindOf extracts the Kind of err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, ErrUnavailable) {
		return KindTransport
	}
	return KindUnknown
}

// Message returns the user-facing text of err, or fallback when err carries
// none.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Message != "" {
			return e.Message
		}
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

// classify maps a backend error to a Kind. The structured code wins; the
// message heuristics only serve backends that predate error codes.
func classify(status int, code, message string) Kind {
	if k, ok := kindByCode[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return k
	}

	switch {
	case strings.Contains(message, "already exists"), strings.Contains(message, "duplicate"):
		return KindDuplicateEmail
	case strings.Contains(message, "Invalid"):
		return KindInvalidCredentials
	case strings.Contains(message, "not found"):
		return KindNotFound
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindUnauthorized
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindDuplicateEmail
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	}
	return KindUnknown
}
