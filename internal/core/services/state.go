package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/bridge-core/internal/core/domain"
	"github.com/custodia-labs/bridge-core/internal/core/ports/driven"
)

// StateManager issues and validates the anti-forgery state tokens that tie
// an OAuth callback to an authorization request this system minted. States
// are tenant-scoped, expire after domain.StateTTL, and are single-use:
// the flow controller consumes the stored entry immediately after a
// successful validation.
//
// Issuing twice for the same tenant overwrites the stored entry, so only
// the most recently started authorization attempt can complete. One
// outstanding authorization per tenant is the supported usage pattern.
type StateManager struct {
	store driven.KVStore
	ttl   time.Duration
}

// NewStateManager creates a state manager backed by the given store.
func NewStateManager(store driven.KVStore) *StateManager {
	return &StateManager{
		store: store,
		ttl:   domain.StateTTL,
	}
}

// Issue mints a random nonce for the tenant, persists the state record
// under the tenant's state key, and returns the encoded blob to embed in
// the authorization URL.
func (m *StateManager) Issue(ctx context.Context, provider domain.ProviderType, tenant domain.Tenant) (string, error) {
	nonce, err := generateNonce()
	if err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	record := domain.AuthState{
		State:  nonce,
		UserID: tenant.UserID,
		OrgID:  tenant.OrgID,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("marshal state record: %w", err)
	}

	if err := m.store.Set(ctx, tenant.StateKey(provider), string(data), m.ttl); err != nil {
		return "", fmt.Errorf("save state: %w", err)
	}

	return record.Encode()
}

// Validate checks a presented state record against the stored one.
// It fails with domain.ErrStateMismatch when no entry exists (expired or
// never issued), when the embedded tenant differs from the tenant the
// callback claims, or when the nonce does not exactly match. Expired and
// forged states are indistinguishable to the caller.
//
// Validate does not remove the entry; the caller must Consume it right
// after a successful validation to enforce single use.
func (m *StateManager) Validate(ctx context.Context, provider domain.ProviderType, tenant domain.Tenant, presented domain.AuthState) error {
	if presented.Tenant() != tenant {
		return domain.ErrStateMismatch
	}

	stored, err := m.store.Get(ctx, tenant.StateKey(provider))
	if err != nil {
		if err == domain.ErrNotFound {
			return domain.ErrStateMismatch
		}
		return fmt.Errorf("get state: %w", err)
	}

	var record domain.AuthState
	if err := json.Unmarshal([]byte(stored), &record); err != nil {
		return domain.ErrStateMismatch
	}

	if record.Tenant() != tenant {
		return domain.ErrStateMismatch
	}
	if subtle.ConstantTimeCompare([]byte(record.State), []byte(presented.State)) != 1 {
		return domain.ErrStateMismatch
	}

	return nil
}

// Consume deletes the tenant's stored state entry.
func (m *StateManager) Consume(ctx context.Context, provider domain.ProviderType, tenant domain.Tenant) error {
	if err := m.store.Delete(ctx, tenant.StateKey(provider)); err != nil {
		return fmt.Errorf("delete state: %w", err)
	}
	return nil
}

// generateNonce returns 32 bytes of cryptographically random data,
// URL-safe encoded.
func generateNonce() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
