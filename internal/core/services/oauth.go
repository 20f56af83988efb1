package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/bridge-core/internal/adapters/driven/connectors"
	"github.com/custodia-labs/bridge-core/internal/core/domain"
	"github.com/custodia-labs/bridge-core/internal/core/ports/driven"
	"github.com/custodia-labs/bridge-core/internal/core/ports/driving"
)

// Ensure oauthService implements OAuthService
var _ driving.OAuthService = (*oauthService)(nil)

// OAuthServiceConfig holds configuration for the OAuth flow service.
type OAuthServiceConfig struct {
	// Registry provides the CRM gateway per provider.
	Registry *connectors.Registry

	// States issues and validates anti-forgery state tokens.
	States *StateManager

	// Store caches exchanged credentials for one-time retrieval.
	Store driven.KVStore
}

// oauthService implements the OAuthService interface.
type oauthService struct {
	registry *connectors.Registry
	states   *StateManager
	store    driven.KVStore
}

// NewOAuthService creates a new OAuth flow service.
func NewOAuthService(cfg OAuthServiceConfig) driving.OAuthService {
	return &oauthService{
		registry: cfg.Registry,
		states:   cfg.States,
		store:    cfg.Store,
	}
}

// Authorize starts an authorization flow for a tenant.
// It mints and persists a state token and returns the provider
// authorization URL embedding it.
func (s *oauthService) Authorize(ctx context.Context, req driving.AuthorizeRequest) (*driving.AuthorizeResponse, error) {
	if err := req.Tenant.Validate(); err != nil {
		return nil, err
	}

	conn, err := s.registry.Get(req.Provider)
	if err != nil {
		return nil, err
	}
	if !conn.Configured() {
		return nil, domain.ErrNotConfigured
	}

	encodedState, err := s.states.Issue(ctx, req.Provider, req.Tenant)
	if err != nil {
		return nil, fmt.Errorf("issue state: %w", err)
	}

	return &driving.AuthorizeResponse{
		AuthorizationURL: conn.BuildAuthURL(encodedState),
		ExpiresAt:        time.Now().Add(domain.StateTTL).Format(time.RFC3339),
	}, nil
}

// Callback completes an authorization flow. It validates the returned
// state, then exchanges the code and consumes the state entry
// concurrently, and finally caches the raw token payload for a single
// later retrieval.
func (s *oauthService) Callback(ctx context.Context, req driving.CallbackRequest) error {
	if req.Error != "" {
		message := req.ErrorDescription
		if message == "" {
			message = req.Error
		}
		return &domain.UpstreamError{
			Provider: req.Provider,
			Op:       "callback",
			Message:  message,
		}
	}

	state, err := domain.DecodeAuthState(req.State)
	if err != nil {
		return err
	}
	tenant := state.Tenant()
	if err := tenant.Validate(); err != nil {
		return domain.ErrStateMismatch
	}

	conn, err := s.registry.Get(req.Provider)
	if err != nil {
		return err
	}
	if !conn.Configured() {
		return domain.ErrNotConfigured
	}

	// Validation is the security gate: it must succeed before the
	// exchange is issued.
	if err := s.states.Validate(ctx, req.Provider, tenant, state); err != nil {
		return err
	}

	// The state entry is spent once validation passed, so consuming it and
	// exchanging the code are independent.
	var payload json.RawMessage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := conn.ExchangeCode(gctx, req.Code)
		if err != nil {
			return err
		}
		payload = p
		return nil
	})
	g.Go(func() error {
		return s.states.Consume(gctx, req.Provider, tenant)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if err := s.store.Set(ctx, tenant.CredentialsKey(req.Provider), string(payload), domain.StateTTL); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}

	return nil
}
