package hubspot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/custodia-labs/bridge-core/internal/core/domain"
)

// contactObject is one entry of GET /crm/v3/objects/contacts.
type contactObject struct {
	ID         string `json:"id"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
	Properties struct {
		FirstName        string `json:"firstname"`
		LastName         string `json:"lastname"`
		CreateDate       string `json:"createdate"`
		LastModifiedDate string `json:"lastmodifieddate"`
	} `json:"properties"`
}

// dealObject is one entry of GET /crm/v3/objects/deals.
type dealObject struct {
	ID         string `json:"id"`
	Properties struct {
		DealName         string `json:"dealname"`
		Amount           string `json:"amount"`
		DealStage        string `json:"dealstage"`
		CreateDate       string `json:"createdate"`
		LastModifiedDate string `json:"lastmodifieddate"`
	} `json:"properties"`
}

// ListObjects fetches one page of CRM objects of the given kind and maps
// them to normalized items. Missing remote fields map to empty strings.
func (c *Connector) ListObjects(ctx context.Context, accessToken string, kind domain.ItemKind) ([]domain.IntegrationItem, error) {
	switch kind {
	case domain.ItemKindContact:
		return c.listContacts(ctx, accessToken)
	case domain.ItemKindDeal:
		return c.listDeals(ctx, accessToken)
	default:
		return nil, fmt.Errorf("%w: unsupported item kind %q", domain.ErrInvalidInput, kind)
	}
}

func (c *Connector) listContacts(ctx context.Context, accessToken string) ([]domain.IntegrationItem, error) {
	body, err := c.listRaw(ctx, accessToken, "contacts", "list_contacts")
	if err != nil {
		return nil, err
	}

	var page struct {
		Results []contactObject `json:"results"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decode contacts: %w", err)
	}

	items := make([]domain.IntegrationItem, 0, len(page.Results))
	for _, contact := range page.Results {
		items = append(items, domain.IntegrationItem{
			ID:               "contact_" + contact.ID,
			Type:             domain.ItemKindContact,
			Name:             strings.TrimSpace(contact.Properties.FirstName + " " + contact.Properties.LastName),
			CreationTime:     contact.Properties.CreateDate,
			LastModifiedTime: contact.Properties.LastModifiedDate,
			URL:              c.cfg.AuthBaseURL + "/contacts/" + contact.ID,
			ParentPathOrName: "Contacts",
			Visibility:       true,
		})
	}
	return items, nil
}

func (c *Connector) listDeals(ctx context.Context, accessToken string) ([]domain.IntegrationItem, error) {
	body, err := c.listRaw(ctx, accessToken, "deals", "list_deals")
	if err != nil {
		return nil, err
	}

	var page struct {
		Results []dealObject `json:"results"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decode deals: %w", err)
	}

	items := make([]domain.IntegrationItem, 0, len(page.Results))
	for _, deal := range page.Results {
		items = append(items, domain.IntegrationItem{
			ID:               "deal_" + deal.ID,
			Type:             domain.ItemKindDeal,
			Name:             deal.Properties.DealName,
			CreationTime:     deal.Properties.CreateDate,
			LastModifiedTime: deal.Properties.LastModifiedDate,
			URL:              c.cfg.AuthBaseURL + "/deals/" + deal.ID,
			ParentPathOrName: "Deals",
			Children: []string{
				"Amount: $" + orDefault(deal.Properties.Amount, "0"),
				"Stage: " + orDefault(deal.Properties.DealStage, "Unknown"),
			},
			Visibility: true,
		})
	}
	return items, nil
}

// listRaw performs the bearer-authenticated listing call for one object
// collection and returns the raw page body.
func (c *Connector) listRaw(ctx context.Context, accessToken, collection, op string) ([]byte, error) {
	url := fmt.Sprintf("%s/crm/v3/objects/%s?limit=%d", c.cfg.APIBaseURL, collection, c.cfg.PageLimit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.UpstreamError{
			Provider: domain.ProviderTypeHubSpot,
			Op:       op,
			Message:  fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	return body, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
