package driving

import (
	"github.com/custodia-labs/bridge-core/internal/core/domain"
)

// ProviderInfo describes one registered provider.
type ProviderInfo struct {
	Type        domain.ProviderType `json:"type"`
	DisplayName string              `json:"display_name"`
	Configured  bool                `json:"configured"`
}

// ProviderService exposes the registered providers for discovery.
type ProviderService interface {
	// List returns all registered providers in stable order.
	List() []ProviderInfo
}
