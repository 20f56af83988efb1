package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/custodia-labs/bridge-core/internal/core/domain"
	"github.com/custodia-labs/bridge-core/internal/core/ports/driven"
	"github.com/custodia-labs/bridge-core/internal/core/ports/driving"
)

// Mock services for testing

type mockOAuthService struct {
	authorizeFn func(ctx context.Context, req driving.AuthorizeRequest) (*driving.AuthorizeResponse, error)
	callbackFn  func(ctx context.Context, req driving.CallbackRequest) error
}

func (m *mockOAuthService) Authorize(ctx context.Context, req driving.AuthorizeRequest) (*driving.AuthorizeResponse, error) {
	if m.authorizeFn != nil {
		return m.authorizeFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockOAuthService) Callback(ctx context.Context, req driving.CallbackRequest) error {
	if m.callbackFn != nil {
		return m.callbackFn(ctx, req)
	}
	return errors.New("not implemented")
}

type mockCredentialService struct {
	takeFn func(ctx context.Context, provider domain.ProviderType, tenant domain.Tenant) (json.RawMessage, error)
}

func (m *mockCredentialService) Take(ctx context.Context, provider domain.ProviderType, tenant domain.Tenant) (json.RawMessage, error) {
	if m.takeFn != nil {
		return m.takeFn(ctx, provider, tenant)
	}
	return nil, errors.New("not implemented")
}

type mockItemService struct {
	listFn func(ctx context.Context, req driving.ListItemsRequest) ([]domain.IntegrationItem, error)
}

func (m *mockItemService) List(ctx context.Context, req driving.ListItemsRequest) ([]domain.IntegrationItem, error) {
	if m.listFn != nil {
		return m.listFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

type mockProviderService struct {
	infos []driving.ProviderInfo
}

func (m *mockProviderService) List() []driving.ProviderInfo {
	return m.infos
}

func newTestServer(oauth driving.OAuthService, creds driving.CredentialService, items driving.ItemService, verifier driven.TokenVerifier) *Server {
	providers := &mockProviderService{
		infos: []driving.ProviderInfo{
			{Type: domain.ProviderTypeHubSpot, DisplayName: "HubSpot", Configured: true},
		},
	}
	return NewServer(DefaultConfig(), oauth, creds, items, providers, verifier, nil, nil)
}

func doRequest(s *Server, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestHandleAuthorize(t *testing.T) {
	oauth := &mockOAuthService{
		authorizeFn: func(ctx context.Context, req driving.AuthorizeRequest) (*driving.AuthorizeResponse, error) {
			if req.Provider != domain.ProviderTypeHubSpot {
				t.Errorf("expected provider hubspot, got %s", req.Provider)
			}
			if req.Tenant.OrgID != "o1" || req.Tenant.UserID != "u1" {
				t.Errorf("unexpected tenant: %+v", req.Tenant)
			}
			return &driving.AuthorizeResponse{AuthorizationURL: "https://provider.example.com/authorize?state=abc"}, nil
		},
	}
	s := newTestServer(oauth, &mockCredentialService{}, &mockItemService{}, nil)

	rec := doRequest(s, http.MethodGet, "/authorize/hubspot?user_id=u1&org_id=o1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp driving.AuthorizeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.AuthorizationURL == "" {
		t.Error("expected authorization_url in response")
	}
}

func TestHandleAuthorize_MissingTenant(t *testing.T) {
	s := newTestServer(&mockOAuthService{}, &mockCredentialService{}, &mockItemService{}, nil)

	for _, target := range []string{
		"/authorize/hubspot",
		"/authorize/hubspot?user_id=u1",
		"/authorize/hubspot?org_id=o1",
	} {
		rec := doRequest(s, http.MethodGet, target)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestHandleAuthorize_NotConfigured(t *testing.T) {
	oauth := &mockOAuthService{
		authorizeFn: func(ctx context.Context, req driving.AuthorizeRequest) (*driving.AuthorizeResponse, error) {
			return nil, domain.ErrNotConfigured
		},
	}
	s := newTestServer(oauth, &mockCredentialService{}, &mockItemService{}, nil)

	rec := doRequest(s, http.MethodGet, "/authorize/hubspot?user_id=u1&org_id=o1")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestHandleAuthorize_UnknownProvider(t *testing.T) {
	oauth := &mockOAuthService{
		authorizeFn: func(ctx context.Context, req driving.AuthorizeRequest) (*driving.AuthorizeResponse, error) {
			return nil, domain.ErrProviderNotFound
		},
	}
	s := newTestServer(oauth, &mockCredentialService{}, &mockItemService{}, nil)

	rec := doRequest(s, http.MethodGet, "/authorize/salesforce?user_id=u1&org_id=o1")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleOAuthCallback_Success(t *testing.T) {
	oauth := &mockOAuthService{
		callbackFn: func(ctx context.Context, req driving.CallbackRequest) error {
			if req.Code != "code-123" || req.State != "encoded-state" {
				t.Errorf("unexpected callback request: %+v", req)
			}
			return nil
		},
	}
	s := newTestServer(oauth, &mockCredentialService{}, &mockItemService{}, nil)

	rec := doRequest(s, http.MethodGet, "/oauth2callback/hubspot?code=code-123&state=encoded-state")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// The popup flow depends on this exact body.
	if rec.Body.String() != "<html><script>window.close();</script></html>" {
		t.Errorf("unexpected callback body: %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected html content type, got %q", ct)
	}
}

func TestHandleOAuthCallback_StateMismatch(t *testing.T) {
	oauth := &mockOAuthService{
		callbackFn: func(ctx context.Context, req driving.CallbackRequest) error {
			return domain.ErrStateMismatch
		},
	}
	s := newTestServer(oauth, &mockCredentialService{}, &mockItemService{}, nil)

	rec := doRequest(s, http.MethodGet, "/oauth2callback/hubspot?code=c&state=stale")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	// The body must not reveal whether the state expired or was forged.
	if !strings.Contains(rec.Body.String(), "state mismatch") {
		t.Errorf("expected generic state mismatch message, got %s", rec.Body.String())
	}
}

func TestHandleOAuthCallback_UpstreamError(t *testing.T) {
	oauth := &mockOAuthService{
		callbackFn: func(ctx context.Context, req driving.CallbackRequest) error {
			return &domain.UpstreamError{
				Provider: domain.ProviderTypeHubSpot,
				Op:       "callback",
				Message:  "User declined",
			}
		},
	}
	s := newTestServer(oauth, &mockCredentialService{}, &mockItemService{}, nil)

	rec := doRequest(s, http.MethodGet, "/oauth2callback/hubspot?error=access_denied&error_description=User+declined")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "User declined") {
		t.Errorf("expected upstream message to surface, got %s", rec.Body.String())
	}
}

func TestHandleTakeCredentials(t *testing.T) {
	payload := `{"access_token":"abc","token_type":"bearer"}`
	creds := &mockCredentialService{
		takeFn: func(ctx context.Context, provider domain.ProviderType, tenant domain.Tenant) (json.RawMessage, error) {
			return json.RawMessage(payload), nil
		},
	}
	s := newTestServer(&mockOAuthService{}, creds, &mockItemService{}, nil)

	rec := doRequest(s, http.MethodGet, "/credentials/hubspot?user_id=u1&org_id=o1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != payload {
		t.Errorf("expected the raw payload back, got %s", rec.Body.String())
	}
}

func TestHandleTakeCredentials_NothingCached(t *testing.T) {
	creds := &mockCredentialService{
		takeFn: func(ctx context.Context, provider domain.ProviderType, tenant domain.Tenant) (json.RawMessage, error) {
			return nil, domain.ErrNoCredentials
		},
	}
	s := newTestServer(&mockOAuthService{}, creds, &mockItemService{}, nil)

	rec := doRequest(s, http.MethodGet, "/credentials/hubspot?user_id=u1&org_id=o1")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleListItems(t *testing.T) {
	items := &mockItemService{
		listFn: func(ctx context.Context, req driving.ListItemsRequest) ([]domain.IntegrationItem, error) {
			if len(req.Kinds) != 1 || req.Kinds[0] != domain.ItemKindContact {
				t.Errorf("expected kinds filter, got %v", req.Kinds)
			}
			return []domain.IntegrationItem{{ID: "contact_1", Type: domain.ItemKindContact, Name: "Ada"}}, nil
		},
	}
	s := newTestServer(&mockOAuthService{}, &mockCredentialService{}, items, nil)

	rec := doRequest(s, http.MethodGet, "/items/hubspot?user_id=u1&org_id=o1&kinds=contact")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ItemsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].ID != "contact_1" {
		t.Errorf("unexpected items: %+v", resp.Items)
	}
	if resp.Warning != "" {
		t.Errorf("unexpected warning: %s", resp.Warning)
	}
}

func TestHandleListItems_BadKinds(t *testing.T) {
	s := newTestServer(&mockOAuthService{}, &mockCredentialService{}, &mockItemService{}, nil)

	rec := doRequest(s, http.MethodGet, "/items/hubspot?user_id=u1&org_id=o1&kinds=company")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleListItems_PartialFailure(t *testing.T) {
	items := &mockItemService{
		listFn: func(ctx context.Context, req driving.ListItemsRequest) ([]domain.IntegrationItem, error) {
			return []domain.IntegrationItem{{ID: "deal_1", Type: domain.ItemKindDeal}},
				&domain.UpstreamError{Provider: domain.ProviderTypeHubSpot, Op: "list_contacts", Message: "status 500"}
		},
	}
	s := newTestServer(&mockOAuthService{}, &mockCredentialService{}, items, nil)

	rec := doRequest(s, http.MethodGet, "/items/hubspot?user_id=u1&org_id=o1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for partial result, got %d", rec.Code)
	}

	var resp ItemsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(resp.Items) != 1 {
		t.Errorf("expected the surviving kind's items, got %+v", resp.Items)
	}
	if resp.Warning == "" {
		t.Error("expected the failure to surface as a warning")
	}
}

func TestHandleListItems_AllFailed(t *testing.T) {
	items := &mockItemService{
		listFn: func(ctx context.Context, req driving.ListItemsRequest) ([]domain.IntegrationItem, error) {
			return nil, &domain.UpstreamError{Provider: domain.ProviderTypeHubSpot, Op: "list_contacts", Message: "status 500"}
		},
	}
	s := newTestServer(&mockOAuthService{}, &mockCredentialService{}, items, nil)

	rec := doRequest(s, http.MethodGet, "/items/hubspot?user_id=u1&org_id=o1")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
}

func TestHandleListProviders(t *testing.T) {
	s := newTestServer(&mockOAuthService{}, &mockCredentialService{}, &mockItemService{}, nil)

	rec := doRequest(s, http.MethodGet, "/providers")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var infos []driving.ProviderInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &infos); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(infos) != 1 || infos[0].Type != domain.ProviderTypeHubSpot {
		t.Errorf("unexpected providers: %+v", infos)
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(&mockOAuthService{}, &mockCredentialService{}, &mockItemService{}, nil)

	rec := doRequest(s, http.MethodGet, "/health")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
