package domain

import (
	"errors"
	"fmt"
)

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested store entry was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConfigured indicates the provider's OAuth client credentials
	// are missing from the environment
	ErrNotConfigured = errors.New("provider not configured")

	// ErrProviderNotFound indicates the provider type is not registered
	ErrProviderNotFound = errors.New("provider not found")

	// ErrStateMismatch indicates the presented authorization state is
	// absent, expired, or does not match what was issued. Deliberately a
	// single error: callers must not be able to tell expiry from tampering.
	ErrStateMismatch = errors.New("state mismatch")

	// ErrNoCredentials indicates no cached credentials exist for the tenant
	ErrNoCredentials = errors.New("no credentials found")
)

// UpstreamError reports a failure surfaced by the third-party provider,
// either an error parameter on the OAuth callback or a non-success HTTP
// status from one of its endpoints.
type UpstreamError struct {
	Provider ProviderType
	Op       string // "token_exchange", "callback", "list_contacts", ...
	Message  string
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %s", e.Provider, e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: upstream error", e.Provider, e.Op)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
