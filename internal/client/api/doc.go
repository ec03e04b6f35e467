// Package api is the client's single funnel to the CorporateSaathi backend.
//
// # Overview
//
// Client.call (through the typed helpers on AuthAPI and ClientsAPI) sends a
// JSON request relative to the configured base URL and decodes the uniform
// response envelope:
//
//	{ "success": bool, "data": ..., "message": "...", "error": "...", "code": "..." }
//
// Every request carries Content-Type: application/json, a fresh X-Request-ID,
// and Authorization: Bearer <token> whenever the TokenSource yields a token.
// Cookies set by the backend are kept in a cookie jar and sent back.
//
// # Error Handling
//
// A 2xx response returns the envelope as-is; callers inspect Success (or call
// Envelope.Err). A non-2xx response becomes an *Error whose Kind is derived
// from the backend "code" when present. Transport failures match
// ErrUnavailable with errors.Is; 401/403 responses match ErrUnauthorized.
//
// Namespaces
//
//   - Auth():    Register, Login, VerifyOTP, ResendOTP, GoogleAuth, Profile
//   - Clients(): Services, Service, DashboardStats, EnrolledServices, Enroll
package api
