package driving

import (
	"context"

	"github.com/custodia-labs/bridge-core/internal/core/domain"
)

// AuthorizeRequest starts an OAuth authorization flow for a tenant.
type AuthorizeRequest struct {
	Provider domain.ProviderType
	Tenant   domain.Tenant
}

// AuthorizeResponse carries the URL the user's browser must visit to grant
// consent on the provider's site.
type AuthorizeResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	ExpiresAt        string `json:"expires_at"`
}

// CallbackRequest carries the query parameters the provider sends to the
// redirect URI after the user completes (or declines) consent.
type CallbackRequest struct {
	Provider         domain.ProviderType
	Code             string
	State            string
	Error            string
	ErrorDescription string
}

// OAuthService orchestrates the authorization-code flow:
// authorize -> external redirect -> callback -> token exchange ->
// transient credential cache.
type OAuthService interface {
	// Authorize mints and persists an anti-forgery state for the tenant
	// and returns the provider authorization URL embedding it.
	// Fails with domain.ErrNotConfigured before any I/O if the provider's
	// client credentials are unset.
	Authorize(ctx context.Context, req AuthorizeRequest) (*AuthorizeResponse, error)

	// Callback validates the returned state, exchanges the authorization
	// code for credentials, and caches them for a single later retrieval.
	// Fails with a *domain.UpstreamError if the provider reported an error
	// or the exchange failed, and domain.ErrStateMismatch if the state is
	// absent, expired, or tampered with.
	Callback(ctx context.Context, req CallbackRequest) error
}
