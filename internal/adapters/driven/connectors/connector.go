package connectors

import (
	"context"
	"encoding/json"

	"github.com/custodia-labs/bridge-core/internal/core/domain"
)

// Connector is the CRM HTTP gateway for one provider. It performs the two
// outbound call families the core needs: exchanging an authorization code
// for a token payload, and listing objects of a given kind.
type Connector interface {
	// Type returns the provider this connector serves.
	Type() domain.ProviderType

	// Configured reports whether the OAuth client ID and secret are set.
	// The flow controller checks this before any network call.
	Configured() bool

	// BuildAuthURL constructs the provider authorization URL embedding the
	// encoded state blob.
	BuildAuthURL(encodedState string) string

	// ExchangeCode exchanges an authorization code for the provider's
	// token payload. The payload is returned verbatim as the provider sent
	// it; the core caches it without reinterpreting its fields.
	ExchangeCode(ctx context.Context, code string) (json.RawMessage, error)

	// ListObjects fetches one page of objects of the given kind using the
	// bearer access token and maps them to normalized items.
	ListObjects(ctx context.Context, accessToken string, kind domain.ItemKind) ([]domain.IntegrationItem, error)

	// SupportedKinds returns the object kinds this connector can list.
	SupportedKinds() []domain.ItemKind
}
