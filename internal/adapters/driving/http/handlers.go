package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/custodia-labs/bridge-core/internal/core/domain"
	"github.com/custodia-labs/bridge-core/internal/core/ports/driving"
)

// callbackHTML is the exact response the popup-based client flow relies
// on: the callback page closes itself once the flow has completed.
const callbackHTML = "<html><script>window.close();</script></html>"

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error string `json:"error" example:"state mismatch"`
}

// ItemsResponse represents the normalized record listing response
type ItemsResponse struct {
	Items   []domain.IntegrationItem `json:"items"`
	Warning string                   `json:"warning,omitempty"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns readiness; pings the active key-value store
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  ErrorResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// handleListProviders godoc
// @Summary      List registered providers
// @Description  Returns the CRM providers this deployment supports and whether each is configured
// @Tags         Providers
// @Produce      json
// @Success      200  {array}  driving.ProviderInfo
// @Router       /providers [get]
func (s *Server) handleListProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.providerService.List())
}

// OAuth flow endpoints

// handleAuthorize godoc
// @Summary      Start an authorization flow
// @Description  Mints a state token for the tenant and returns the provider authorization URL
// @Tags         OAuth
// @Produce      json
// @Param        provider  path   string  true  "Provider type (hubspot)"
// @Param        user_id   query  string  true  "Tenant user ID"
// @Param        org_id    query  string  true  "Tenant organization ID"
// @Success      200  {object}  driving.AuthorizeResponse
// @Failure      400  {object}  ErrorResponse  "Missing tenant identifiers"
// @Failure      404  {object}  ErrorResponse  "Unknown provider"
// @Failure      500  {object}  ErrorResponse  "Provider not configured"
// @Router       /authorize/{provider} [get]
func (s *Server) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFromQuery(w, r)
	if !ok {
		return
	}

	resp, err := s.oauthService.Authorize(r.Context(), driving.AuthorizeRequest{
		Provider: domain.ProviderType(r.PathValue("provider")),
		Tenant:   tenant,
	})
	if err != nil {
		s.writeFlowError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleOAuthCallback godoc
// @Summary      OAuth redirect target
// @Description  Validates state, exchanges the code and caches credentials; responds with a page that closes the popup
// @Tags         OAuth
// @Produce      html
// @Param        provider  path   string  true   "Provider type (hubspot)"
// @Param        code      query  string  false  "Authorization code"
// @Param        state     query  string  false  "Encoded state blob"
// @Param        error     query  string  false  "Provider error code"
// @Success      200  {string}  string  "window.close() page"
// @Failure      400  {object}  ErrorResponse  "State mismatch"
// @Failure      502  {object}  ErrorResponse  "Provider error"
// @Router       /oauth2callback/{provider} [get]
func (s *Server) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	err := s.oauthService.Callback(r.Context(), driving.CallbackRequest{
		Provider:         domain.ProviderType(r.PathValue("provider")),
		Code:             query.Get("code"),
		State:            query.Get("state"),
		Error:            query.Get("error"),
		ErrorDescription: query.Get("error_description"),
	})
	if err != nil {
		s.writeFlowError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(callbackHTML))
}

// handleTakeCredentials godoc
// @Summary      Retrieve and clear cached credentials
// @Description  Returns the provider token payload cached for the tenant, deleting it so it is delivered at most once
// @Tags         Credentials
// @Produce      json
// @Param        provider  path   string  true  "Provider type (hubspot)"
// @Param        user_id   query  string  true  "Tenant user ID"
// @Param        org_id    query  string  true  "Tenant organization ID"
// @Success      200  {object}  map[string]interface{}  "Raw provider token payload"
// @Failure      400  {object}  ErrorResponse  "No credentials cached"
// @Router       /credentials/{provider} [get]
func (s *Server) handleTakeCredentials(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFromQuery(w, r)
	if !ok {
		return
	}

	payload, err := s.credentialService.Take(r.Context(), domain.ProviderType(r.PathValue("provider")), tenant)
	if err != nil {
		s.writeFlowError(w, err)
		return
	}

	// The payload is stored verbatim as the provider produced it; hand it
	// back the same way.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// handleListItems godoc
// @Summary      List normalized CRM records
// @Description  Consumes the tenant's cached credentials and returns one page of normalized records per requested kind
// @Tags         Items
// @Produce      json
// @Param        provider  path   string  true   "Provider type (hubspot)"
// @Param        user_id   query  string  true   "Tenant user ID"
// @Param        org_id    query  string  true   "Tenant organization ID"
// @Param        kinds     query  string  false  "Comma-separated kinds (contact,deal); defaults to all"
// @Success      200  {object}  ItemsResponse
// @Failure      400  {object}  ErrorResponse  "No credentials cached or bad kinds"
// @Failure      502  {object}  ErrorResponse  "All requested kinds failed upstream"
// @Router       /items/{provider} [get]
func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFromQuery(w, r)
	if !ok {
		return
	}

	kinds, err := domain.ParseItemKinds(r.URL.Query().Get("kinds"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := s.itemService.List(r.Context(), driving.ListItemsRequest{
		Provider: domain.ProviderType(r.PathValue("provider")),
		Tenant:   tenant,
		Kinds:    kinds,
	})
	if err != nil && len(items) == 0 {
		s.writeFlowError(w, err)
		return
	}

	resp := ItemsResponse{Items: items}
	if items == nil {
		resp.Items = []domain.IntegrationItem{}
	}
	if err != nil {
		// Partial result: the failing kind contributed zero records, the
		// caller decides whether that is acceptable.
		resp.Warning = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// tenantFromQuery extracts and validates the tenant identifiers, writing a
// 400 response when they are missing.
func tenantFromQuery(w http.ResponseWriter, r *http.Request) (domain.Tenant, bool) {
	query := r.URL.Query()
	tenant := domain.Tenant{
		OrgID:  query.Get("org_id"),
		UserID: query.Get("user_id"),
	}
	if err := tenant.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "user_id and org_id are required")
		return domain.Tenant{}, false
	}
	return tenant, true
}

// writeFlowError maps domain errors to stable status codes. State failures
// collapse to one generic client error: expired and forged states must be
// indistinguishable to callers.
func (s *Server) writeFlowError(w http.ResponseWriter, err error) {
	var upstream *domain.UpstreamError
	switch {
	case errors.Is(err, domain.ErrStateMismatch):
		writeError(w, http.StatusBadRequest, "state mismatch")
	case errors.Is(err, domain.ErrNoCredentials):
		writeError(w, http.StatusBadRequest, "no credentials found")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrProviderNotFound):
		writeError(w, http.StatusNotFound, "unknown provider")
	case errors.Is(err, domain.ErrNotConfigured):
		writeError(w, http.StatusInternalServerError, "provider credentials not configured")
	case errors.As(err, &upstream):
		writeError(w, http.StatusBadGateway, upstream.Error())
	default:
		s.logger.Error("unhandled flow error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
