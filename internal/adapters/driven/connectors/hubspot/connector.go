package hubspot

import (
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/bridge-core/internal/adapters/driven/connectors"
	"github.com/custodia-labs/bridge-core/internal/core/domain"
)

// Ensure Connector implements the interface.
var _ connectors.Connector = (*Connector)(nil)

// Connector is the HubSpot CRM gateway. It handles the token exchange and
// the CRM object listing endpoints.
type Connector struct {
	cfg        *Config
	httpClient *http.Client
}

// New creates a HubSpot connector from the given configuration.
func New(cfg *Config) *Connector {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "https://api.hubapi.com"
	}
	if cfg.AuthBaseURL == "" {
		cfg.AuthBaseURL = "https://app.hubspot.com"
	}
	if cfg.PageLimit <= 0 || cfg.PageLimit > 100 {
		cfg.PageLimit = 100
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = DefaultScopes
	}
	cfg.APIBaseURL = strings.TrimSuffix(cfg.APIBaseURL, "/")
	cfg.AuthBaseURL = strings.TrimSuffix(cfg.AuthBaseURL, "/")

	return &Connector{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Type returns the provider type.
func (c *Connector) Type() domain.ProviderType {
	return domain.ProviderTypeHubSpot
}

// Configured reports whether the OAuth client credentials are set.
func (c *Connector) Configured() bool {
	return c.cfg.ClientID != "" && c.cfg.ClientSecret != ""
}

// SupportedKinds returns the object kinds this connector can list.
func (c *Connector) SupportedKinds() []domain.ItemKind {
	return []domain.ItemKind{domain.ItemKindContact, domain.ItemKindDeal}
}
