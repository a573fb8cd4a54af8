// Package common defines shared constants and sentinel errors used across
// the recipekeeper client layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Session errors.
	ErrAuthRequired = errors.New("sign in required")
	ErrUnauthorized = errors.New("unauthorized")

	// Server decisions.
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation error")
	ErrUnavailable      = errors.New("server unavailable")

	// Substitution lifecycle.
	ErrSubstitutionInFlight = errors.New("substitution already in progress")
	ErrSubstitutionFailed   = errors.New("failed to get substitution")
	ErrSubstitutionTimeout  = errors.New("substitution timed out")
)
