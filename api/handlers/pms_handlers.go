package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Ayavuzer/manushotspot/core/store"
)

func (a *API) ListPMSIntegrations(w http.ResponseWriter, r *http.Request) {
	list, err := a.PMS.List(r.Context(), OrgScopeFromContext(r.Context()))
	if err != nil {
		a.serverError(w, "list pms integrations", err)
		return
	}
	if list == nil {
		list = []store.PMSIntegration{}
	}
	writeJSON(w, http.StatusOK, list)
}

type pmsRequest struct {
	OrganizationID *int64  `json:"organization_id"`
	Provider       *string `json:"provider"`
	Endpoint       *string `json:"endpoint"`
	Username       *string `json:"username"`
	Password       *string `json:"password"`
	APIKey         *string `json:"api_key"`
	IsActive       *bool   `json:"is_active"`
}

func (a *API) CreatePMSIntegration(w http.ResponseWriter, r *http.Request) {
	var req pmsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Provider == nil || strings.TrimSpace(*req.Provider) == "" {
		writeError(w, http.StatusBadRequest, "provider is required")
		return
	}
	var orgID int64
	if scope := OrgScopeFromContext(r.Context()); scope != nil {
		orgID = *scope
	} else if req.OrganizationID != nil {
		orgID = *req.OrganizationID
	} else {
		writeError(w, http.StatusBadRequest, "organization_id is required")
		return
	}
	org, err := a.Orgs.Get(r.Context(), orgID)
	if err != nil {
		a.serverError(w, "create pms integration", err)
		return
	}
	if org == nil {
		writeError(w, http.StatusNotFound, "organization not found")
		return
	}
	p := &store.PMSIntegration{
		OrganizationID: orgID,
		Provider:       strings.TrimSpace(*req.Provider),
		IsActive:       true,
	}
	if req.Endpoint != nil {
		p.Endpoint = *req.Endpoint
	}
	if req.Username != nil {
		p.Username = *req.Username
	}
	if req.Password != nil {
		p.Password = *req.Password
	}
	if req.APIKey != nil {
		p.APIKey = *req.APIKey
	}
	id, err := a.PMS.Create(r.Context(), p)
	if err != nil {
		a.serverError(w, "create pms integration", err)
		return
	}
	p.ID = id
	writeJSON(w, http.StatusCreated, p)
}

func (a *API) UpdatePMSIntegration(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid integration id")
		return
	}
	p, err := a.PMS.Get(r.Context(), id)
	if err != nil {
		a.serverError(w, "update pms integration", err)
		return
	}
	if p == nil || !canAccessOrg(r.Context(), p.OrganizationID) {
		writeError(w, http.StatusNotFound, "integration not found")
		return
	}
	var req pmsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Provider != nil {
		provider := strings.TrimSpace(*req.Provider)
		if provider == "" {
			writeError(w, http.StatusBadRequest, "provider cannot be empty")
			return
		}
		p.Provider = provider
	}
	if req.Endpoint != nil {
		p.Endpoint = *req.Endpoint
	}
	if req.Username != nil {
		p.Username = *req.Username
	}
	if req.Password != nil {
		p.Password = *req.Password
	}
	if req.APIKey != nil {
		p.APIKey = *req.APIKey
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := a.PMS.Update(r.Context(), p); err != nil {
		a.serverError(w, "update pms integration", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) DeletePMSIntegration(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid integration id")
		return
	}
	p, err := a.PMS.Get(r.Context(), id)
	if err != nil {
		a.serverError(w, "delete pms integration", err)
		return
	}
	if p == nil || !canAccessOrg(r.Context(), p.OrganizationID) {
		writeError(w, http.StatusNotFound, "integration not found")
		return
	}
	if err := a.PMS.SetActive(r.Context(), id, false); err != nil {
		a.serverError(w, "delete pms integration", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "integration deactivated"})
}
