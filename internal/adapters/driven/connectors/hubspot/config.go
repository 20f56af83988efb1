package hubspot

import "os"

// Config contains configuration for the HubSpot connector. It is built
// once at startup and passed by reference; there is no package-level
// credential state.
type Config struct {
	// ClientID is the OAuth application client ID.
	ClientID string

	// ClientSecret is the OAuth application client secret.
	ClientSecret string

	// RedirectURI is the callback URL registered with the OAuth app.
	RedirectURI string

	// APIBaseURL is the base URL for the HubSpot API.
	// Defaults to https://api.hubapi.com. Overridable for tests.
	APIBaseURL string

	// AuthBaseURL is the base URL for the browser authorization endpoint.
	// Defaults to https://app.hubspot.com.
	AuthBaseURL string

	// PageLimit is the number of objects to fetch per listing call.
	// Maximum is 100.
	PageLimit int

	// Scopes are the OAuth scopes requested during authorization.
	Scopes []string
}

// DefaultScopes are the scopes the listing endpoints need.
var DefaultScopes = []string{
	"crm.objects.contacts.read",
	"crm.objects.contacts.write",
	"crm.objects.deals.read",
	"crm.schemas.contacts.read",
}

// ConfigFromEnv builds a Config from HUBSPOT_CLIENT_ID,
// HUBSPOT_CLIENT_SECRET and HUBSPOT_REDIRECT_URI. Missing values are left
// empty; Configured() gates the flow before any network call.
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	cfg.ClientID = os.Getenv("HUBSPOT_CLIENT_ID")
	cfg.ClientSecret = os.Getenv("HUBSPOT_CLIENT_SECRET")
	cfg.RedirectURI = os.Getenv("HUBSPOT_REDIRECT_URI")
	return cfg
}

// DefaultConfig returns the default HubSpot connector configuration.
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:  "https://api.hubapi.com",
		AuthBaseURL: "https://app.hubspot.com",
		PageLimit:   100,
		Scopes:      DefaultScopes,
	}
}
