// Package client contains client-side building blocks for Datalyn.
//
// # Overview
//
// The package provides:
//  1. APIClient, a JSON/HTTP client for the /api endpoints. It keeps the
//     session token returned by signup or login and sends it as a Bearer
//     credential on protected calls.
//  2. HealthClient, a probe for the standard gRPC health service.
//  3. TokenStore, a small on-disk cache so consecutive CLI invocations
//     reuse one session.
//
// # Error Handling
//
// Server error envelopes are returned as *APIError. Common conditions are
// exposed as sentinel errors that callers can match with errors.Is:
// ErrUnavailable, ErrUnauthorized, ErrNoToken.
package client
