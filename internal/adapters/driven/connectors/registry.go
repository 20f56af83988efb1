package connectors

import (
	"sync"

	"github.com/custodia-labs/bridge-core/internal/core/domain"
)

// Registry holds the connectors registered at startup, keyed by provider
// type. Safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	connectors map[domain.ProviderType]Connector
}

// NewRegistry creates an empty connector registry.
func NewRegistry() *Registry {
	return &Registry{
		connectors: make(map[domain.ProviderType]Connector),
	}
}

// Register registers a connector for its provider type, replacing any
// previous registration.
func (r *Registry) Register(c Connector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connectors[c.Type()] = c
}

// Get returns the connector for a provider type.
// Returns domain.ErrProviderNotFound if none is registered.
func (r *Registry) Get(providerType domain.ProviderType) (Connector, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.connectors[providerType]
	if !ok {
		return nil, domain.ErrProviderNotFound
	}
	return c, nil
}

// SupportedTypes returns all registered provider types.
func (r *Registry) SupportedTypes() []domain.ProviderType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]domain.ProviderType, 0, len(r.connectors))
	for t := range r.connectors {
		types = append(types, t)
	}
	return types
}
