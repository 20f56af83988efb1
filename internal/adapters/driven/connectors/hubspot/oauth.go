package hubspot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/bridge-core/internal/core/domain"
)

// oauth2Config builds the x/oauth2 configuration for this connector.
func (c *Connector) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		RedirectURL:  c.cfg.RedirectURI,
		Scopes:       c.cfg.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  c.cfg.AuthBaseURL + "/oauth/authorize",
			TokenURL: c.cfg.APIBaseURL + "/oauth/v1/token",
		},
	}
}

// BuildAuthURL constructs the HubSpot authorization URL embedding the
// encoded state blob.
func (c *Connector) BuildAuthURL(encodedState string) string {
	return c.oauth2Config().AuthCodeURL(encodedState)
}

// ExchangeCode exchanges an authorization code for HubSpot's token
// payload. The response body is returned verbatim: the core caches the
// payload exactly as the provider produced it, so the exchange is done as
// a plain form-encoded POST rather than through oauth2.Config.Exchange,
// which would reshape the fields.
func (c *Connector) ExchangeCode(ctx context.Context, code string) (json.RawMessage, error) {
	params := url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
		"redirect_uri":  {c.cfg.RedirectURI},
		"code":          {code},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.APIBaseURL+"/oauth/v1/token",
		strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.UpstreamError{
			Provider: domain.ProviderTypeHubSpot,
			Op:       "token_exchange",
			Message:  fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	if !json.Valid(body) {
		return nil, &domain.UpstreamError{
			Provider: domain.ProviderTypeHubSpot,
			Op:       "token_exchange",
			Message:  "malformed token response",
		}
	}

	return json.RawMessage(body), nil
}
