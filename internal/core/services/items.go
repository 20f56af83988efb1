package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/custodia-labs/bridge-core/internal/adapters/driven/connectors"
	"github.com/custodia-labs/bridge-core/internal/core/domain"
	"github.com/custodia-labs/bridge-core/internal/core/ports/driving"
)

// Ensure itemService implements ItemService
var _ driving.ItemService = (*itemService)(nil)

// itemService lists normalized CRM records using the tenant's cached
// credentials.
type itemService struct {
	registry    *connectors.Registry
	credentials driving.CredentialService
}

// NewItemService creates a new item listing service.
func NewItemService(registry *connectors.Registry, credentials driving.CredentialService) driving.ItemService {
	return &itemService{
		registry:    registry,
		credentials: credentials,
	}
}

// List consumes the tenant's cached credentials and fetches one page of
// records per requested kind. Kinds are independent: a failing kind
// contributes zero records while the remaining kinds are still listed, and
// its failure is joined into the returned error. The caller decides
// whether partial results are acceptable.
func (s *itemService) List(ctx context.Context, req driving.ListItemsRequest) ([]domain.IntegrationItem, error) {
	if err := req.Tenant.Validate(); err != nil {
		return nil, err
	}

	conn, err := s.registry.Get(req.Provider)
	if err != nil {
		return nil, err
	}

	payload, err := s.credentials.Take(ctx, req.Provider, req.Tenant)
	if err != nil {
		return nil, err
	}

	var credential struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(payload, &credential); err != nil || credential.AccessToken == "" {
		return nil, fmt.Errorf("%w: credential payload has no access token", domain.ErrNoCredentials)
	}

	kinds := req.Kinds
	if len(kinds) == 0 {
		kinds = conn.SupportedKinds()
	}

	var items []domain.IntegrationItem
	var errs []error
	for _, kind := range kinds {
		objects, err := conn.ListObjects(ctx, credential.AccessToken, kind)
		if err != nil {
			errs = append(errs, fmt.Errorf("list %s: %w", kind, err))
			continue
		}
		items = append(items, objects...)
	}

	return items, errors.Join(errs...)
}
