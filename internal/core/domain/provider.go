package domain

// ProviderType identifies a third-party CRM provider
type ProviderType string

const (
	ProviderTypeHubSpot ProviderType = "hubspot"
)

// DisplayName returns a human-readable name for a provider
func (p ProviderType) DisplayName() string {
	switch p {
	case ProviderTypeHubSpot:
		return "HubSpot"
	default:
		return string(p)
	}
}
