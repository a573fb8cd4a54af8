// Package client contains the client-side plumbing for the recipe backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     authentication, profile, recipes, favorites, ratings, ingredient
//     substitution and recipe generation.
//  2. A concrete JSON-over-HTTP implementation (see HTTPClient). Each request
//     carries an X-Request-ID and, when the context holds one, a bearer
//     credential attached with WithCredential.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations) for
//     the CLI, wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Non-2xx answers are returned as *APIError. The server's message is kept
// verbatim in Message and the status is classified into the sentinels of
// package common (ErrValidation, ErrUnauthorized, ErrPermissionDenied,
// ErrNotFound, ErrUnavailable), so callers can use errors.Is and errors.As.
// Network failures wrap common.ErrUnavailable together with the transport
// error, so context.DeadlineExceeded stays matchable.
//
// # Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation and timeouts.
package client
