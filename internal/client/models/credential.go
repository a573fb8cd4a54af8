package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// Credential is the access/refresh token pair issued at sign-in or sign-up.
type Credential struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// IsZero reports whether there is no access token to present.
func (c Credential) IsZero() bool {
	return c.Access == ""
}

// ExpiresAt decodes the exp claim of the access token without verifying the
// signature; only the server can verify it. ok is false for opaque tokens or
// tokens without exp.
func (c Credential) ExpiresAt() (exp time.Time, ok bool) {
	if c.Access == "" {
		return time.Time{}, false
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.Access, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Valid reports whether the credential is worth presenting at now: an access
// token is present and is not known to be expired.
func (c Credential) Valid(now time.Time) bool {
	if c.IsZero() {
		return false
	}
	if exp, ok := c.ExpiresAt(); ok && !now.Before(exp) {
		return false
	}
	return true
}

// Token converts the credential to a bearer oauth2 token.
func (c Credential) Token() *oauth2.Token {
	t := &oauth2.Token{
		AccessToken:  c.Access,
		TokenType:    "Bearer",
		RefreshToken: c.Refresh,
	}
	if exp, ok := c.ExpiresAt(); ok {
		t.Expiry = exp
	}
	return t
}

// AuthResult is the payload of /auth/register/ and /auth/login/.
type AuthResult struct {
	User   Identity   `json:"user"`
	Tokens Credential `json:"tokens"`
}
