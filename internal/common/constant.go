// Package common contains constants and small helpers shared by the client
// and the development backend.
package common

const (
	// TokenStorageKey is the local storage key holding the bearer token.
	TokenStorageKey = "authToken"

	// ThemeStorageKey is the local storage key holding the theme preference.
	ThemeStorageKey = "theme"

	// RequestIDHeaderName correlates client and backend log lines.
	RequestIDHeaderName = "X-Request-ID"

	// OTPLength is the number of digits in a one-time password.
	OTPLength = 6
)
