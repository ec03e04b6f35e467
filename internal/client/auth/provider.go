package auth

import "context"

// IdentityProvider is an external sign-in capability such as Google.
// Prompt asks the user to authenticate. The resulting credential is handed
// to the handler registered with OnCredential, either before Prompt returns
// or later from another goroutine.
type IdentityProvider interface {
	Prompt(ctx context.Context) error
	OnCredential(handler func(ctx context.Context, credential string))
}
