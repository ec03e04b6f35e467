// Package identity provides sign-in capabilities backed by external identity
// providers. The terminal client cannot host the Google button, so the user
// pastes a Google ID token issued for the configured OAuth client instead.
package identity

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/corporatesaathi/saathi/internal/client/auth"
)

var (
	ErrNotConfigured       = errors.New("google client id is not configured")
	ErrNoCredential        = errors.New("no credential provided")
	ErrMalformedCredential = errors.New("credential is not a JWT")
	ErrWrongAudience       = errors.New("credential was issued for another client")
	ErrWrongIssuer         = errors.New("credential was not issued by google")
	ErrExpiredCredential   = errors.New("credential has expired")
)

var googleIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

// CredentialReader obtains the raw credential from the user.
type CredentialReader func(ctx context.Context) (string, error)

var _ auth.IdentityProvider = (*TerminalProvider)(nil)

// TerminalProvider is a Google identity provider for terminals. It checks
// the pasted token's claims locally so obvious mistakes never reach the
// backend; the signature is verified server-side only.
type TerminalProvider struct {
	clientID string
	read     CredentialReader
	now      func() time.Time
	handler  func(ctx context.Context, credential string)
}

func NewTerminalProvider(clientID string, read CredentialReader) (*TerminalProvider, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, ErrNotConfigured
	}
	return &TerminalProvider{clientID: clientID, read: read, now: time.Now}, nil
}

func (p *TerminalProvider) OnCredential(handler func(ctx context.Context, credential string)) {
	p.handler = handler
}

// Prompt reads one credential, inspects it and hands it to the registered
// handler.
func (p *TerminalProvider) Prompt(ctx context.Context) error {
	if p.handler == nil {
		return errors.New("no credential handler registered")
	}
	raw, err := p.read(ctx)
	if err != nil {
		return fmt.Errorf("read credential: %w", err)
	}
	credential := strings.TrimSpace(raw)
	if err := p.Inspect(credential); err != nil {
		return err
	}
	p.handler(ctx, credential)
	return nil
}

// Inspect validates issuer, audience and expiry of an ID token without
// checking its signature.
func (p *TerminalProvider) Inspect(credential string) error {
	if credential == "" {
		return ErrNoCredential
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(credential, &claims); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}
	if !slices.Contains(googleIssuers, claims.Issuer) {
		return ErrWrongIssuer
	}
	if !slices.Contains(claims.Audience, p.clientID) {
		return ErrWrongAudience
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(p.now()) {
		return ErrExpiredCredential
	}
	return nil
}
