package services

import (
	"sort"

	"github.com/custodia-labs/bridge-core/internal/adapters/driven/connectors"
	"github.com/custodia-labs/bridge-core/internal/core/ports/driving"
)

// Ensure providerService implements ProviderService
var _ driving.ProviderService = (*providerService)(nil)

// providerService lists the providers registered at startup.
type providerService struct {
	registry *connectors.Registry
}

// NewProviderService creates a new provider discovery service.
func NewProviderService(registry *connectors.Registry) driving.ProviderService {
	return &providerService{registry: registry}
}

// List returns all registered providers sorted by type.
func (s *providerService) List() []driving.ProviderInfo {
	types := s.registry.SupportedTypes()
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	infos := make([]driving.ProviderInfo, 0, len(types))
	for _, t := range types {
		conn, err := s.registry.Get(t)
		if err != nil {
			continue
		}
		infos = append(infos, driving.ProviderInfo{
			Type:        t,
			DisplayName: t.DisplayName(),
			Configured:  conn.Configured(),
		})
	}
	return infos
}
