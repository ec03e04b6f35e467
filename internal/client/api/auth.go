package api

import (
	"context"
	"net/http"
)

// AuthAPI groups the authentication endpoints. Only VerifyOTP and
// GoogleAuth are expected to return a token.
type AuthAPI struct {
	c *Client
}

// Register creates an account; the backend then sends an OTP out of band.
func (a *AuthAPI) Register(ctx context.Context, req RegisterRequest) (*Envelope[AuthPayload], error) {
	return call[AuthPayload](ctx, a.c, http.MethodPost, PathRegister, req)
}

// Login checks credentials; the backend then sends an OTP out of band.
func (a *AuthAPI) Login(ctx context.Context, req LoginRequest) (*Envelope[AuthPayload], error) {
	return call[AuthPayload](ctx, a.c, http.MethodPost, PathLogin, req)
}

// GoogleAuth exchanges a Google ID token for a session.
func (a *AuthAPI) GoogleAuth(ctx context.Context, credential string) (*Envelope[AuthPayload], error) {
	return call[AuthPayload](ctx, a.c, http.MethodPost, PathGoogleAuth, GoogleAuthRequest{Token: credential})
}

func (a *AuthAPI) VerifyOTP(ctx context.Context, req OTPRequest) (*Envelope[AuthPayload], error) {
	return call[AuthPayload](ctx, a.c, http.MethodPost, PathVerifyOTP, req)
}

func (a *AuthAPI) ResendOTP(ctx context.Context, email string) (*Envelope[MessagePayload], error) {
	return call[MessagePayload](ctx, a.c, http.MethodPost, PathResendOTP, ResendOTPRequest{Email: email})
}

// Profile fetches the current user; it requires a bearer token.
func (a *AuthAPI) Profile(ctx context.Context) (*Envelope[User], error) {
	return call[User](ctx, a.c, http.MethodGet, PathProfile, nil)
}
