// Package auth implements the sign-in flow of the client as a small state
// machine with three views: login, signup and otp.
//
// The machine owns the form fields, the error and info messages and the
// loading flag. It talks to the backend through Backend, stores the bearer
// token through TokenSetter and reports success through the callback given
// to OnAuthenticated. There is no authenticated view: once the callback
// fires the machine is Done and the caller is expected to drop it.
//
// Backend failures never escape as errors. They are rendered into
// State.Error and control returns to the caller with Loading cleared. The
// methods only return errors for requests the machine refuses to start
// (ErrBusy, ErrInvalidTransition, ErrGoogleDisabled, ErrOTPIncomplete) or
// for a canceled context.
package auth
