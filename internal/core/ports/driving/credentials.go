package driving

import (
	"context"
	"encoding/json"

	"github.com/custodia-labs/bridge-core/internal/core/domain"
)

// CredentialService is the one-time-read accessor for cached credentials.
type CredentialService interface {
	// Take returns the provider token payload cached for the tenant and
	// deletes it before returning, so a given payload is delivered at most
	// once. Fails with domain.ErrNoCredentials if nothing is cached
	// (never issued, already consumed, or expired).
	Take(ctx context.Context, provider domain.ProviderType, tenant domain.Tenant) (json.RawMessage, error)
}
