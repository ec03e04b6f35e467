package auth

import "errors"

var (
	ErrBusy              = errors.New("a request is already in progress")
	ErrInvalidTransition = errors.New("action not available in the current view")
	ErrGoogleDisabled    = errors.New("google sign-in is not configured")
	ErrOTPIncomplete     = errors.New("otp must have exactly 6 digits")
	ErrDone              = errors.New("already authenticated")
)
