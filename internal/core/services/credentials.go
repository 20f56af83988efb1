package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/bridge-core/internal/core/domain"
	"github.com/custodia-labs/bridge-core/internal/core/ports/driven"
	"github.com/custodia-labs/bridge-core/internal/core/ports/driving"
)

// Ensure credentialService implements CredentialService
var _ driving.CredentialService = (*credentialService)(nil)

// credentialService implements the one-time-read credential gate.
type credentialService struct {
	store driven.KVStore
}

// NewCredentialService creates a new credential access gate.
func NewCredentialService(store driven.KVStore) driving.CredentialService {
	return &credentialService{store: store}
}

// Take returns the cached token payload for the tenant and deletes it
// before returning, forcing callers to use the payload immediately instead
// of treating the cache as durable storage.
func (s *credentialService) Take(ctx context.Context, provider domain.ProviderType, tenant domain.Tenant) (json.RawMessage, error) {
	if err := tenant.Validate(); err != nil {
		return nil, err
	}

	key := tenant.CredentialsKey(provider)
	value, err := s.store.Get(ctx, key)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrNoCredentials
		}
		return nil, fmt.Errorf("get credentials: %w", err)
	}

	if err := s.store.Delete(ctx, key); err != nil {
		return nil, fmt.Errorf("delete credentials: %w", err)
	}

	return json.RawMessage(value), nil
}
