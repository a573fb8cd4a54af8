package client

import (
	"context"

	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
)

type credentialKey struct{}

// WithCredential returns a context whose requests carry c as a bearer token.
// A zero credential yields ctx unchanged.
func WithCredential(ctx context.Context, c models.Credential) context.Context {
	if c.IsZero() {
		return ctx
	}
	return context.WithValue(ctx, credentialKey{}, c)
}

// CredentialFrom returns the credential attached by WithCredential.
func CredentialFrom(ctx context.Context) (models.Credential, bool) {
	c, ok := ctx.Value(credentialKey{}).(models.Credential)
	return c, ok && !c.IsZero()
}
