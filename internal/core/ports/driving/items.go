package driving

import (
	"context"

	"github.com/custodia-labs/bridge-core/internal/core/domain"
)

// ListItemsRequest asks for the tenant's CRM records of the given kinds.
// An empty Kinds slice means all kinds the provider supports.
type ListItemsRequest struct {
	Provider domain.ProviderType
	Tenant   domain.Tenant
	Kinds    []domain.ItemKind
}

// ItemService lists normalized CRM records using the tenant's cached
// credentials.
type ItemService interface {
	// List consumes the tenant's cached credentials and fetches one page
	// of records per requested kind. A kind whose listing call fails
	// contributes zero records; the failure is returned as a
	// *domain.UpstreamError alongside the records of the kinds that
	// succeeded, and the caller decides whether partial results are
	// acceptable. No retries are performed.
	List(ctx context.Context, req ListItemsRequest) ([]domain.IntegrationItem, error)
}
