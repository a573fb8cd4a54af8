// Package services holds the client application services for the recipe
// app: the session (sign-in state and current user), recipe browsing and
// per-recipe cards that favorite, rate, delete and request ingredient
// substitutions.
//
// Services never keep ambient transport state. Every call that needs a
// signed-in user obtains a context carrying the credential from
// SessionService.Authorize and passes it to the client.
package services
