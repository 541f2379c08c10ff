package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Ayavuzer/manushotspot/core/store"
)

func (a *API) ListAuthMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := a.AuthMethods.Methods(r.Context())
	if err != nil {
		a.serverError(w, "list auth methods", err)
		return
	}
	if methods == nil {
		methods = []store.AuthMethod{}
	}
	writeJSON(w, http.StatusOK, methods)
}

func (a *API) ListOrganizationAuthMethods(w http.ResponseWriter, r *http.Request) {
	orgID, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid organization id")
		return
	}
	if !canAccessOrg(r.Context(), orgID) {
		writeError(w, http.StatusForbidden, "access to this organization is not allowed")
		return
	}
	list, err := a.AuthMethods.ListForOrganization(r.Context(), orgID)
	if err != nil {
		a.serverError(w, "list organization auth methods", err)
		return
	}
	if list == nil {
		list = []store.OrganizationAuthMethod{}
	}
	writeJSON(w, http.StatusOK, list)
}

type orgAuthMethodRequest struct {
	AuthMethodID int64          `json:"auth_method_id"`
	IsEnabled    *bool          `json:"is_enabled"`
	Config       map[string]any `json:"config"`
}

// UpsertOrganizationAuthMethod enables or reconfigures a captive portal
// sign-in method for one organization.
func (a *API) UpsertOrganizationAuthMethod(w http.ResponseWriter, r *http.Request) {
	orgID, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid organization id")
		return
	}
	if !canAccessOrg(r.Context(), orgID) {
		writeError(w, http.StatusForbidden, "access to this organization is not allowed")
		return
	}
	var req orgAuthMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AuthMethodID <= 0 {
		writeError(w, http.StatusBadRequest, "auth_method_id is required")
		return
	}
	org, err := a.Orgs.Get(r.Context(), orgID)
	if err != nil {
		a.serverError(w, "upsert organization auth method", err)
		return
	}
	if org == nil {
		writeError(w, http.StatusNotFound, "organization not found")
		return
	}
	m := &store.OrganizationAuthMethod{
		OrganizationID: orgID,
		AuthMethodID:   req.AuthMethodID,
		IsEnabled:      true,
		Config:         req.Config,
	}
	if req.IsEnabled != nil {
		m.IsEnabled = *req.IsEnabled
	}
	id, err := a.AuthMethods.Upsert(r.Context(), m)
	if err != nil {
		a.serverError(w, "upsert organization auth method", err)
		return
	}
	m.ID = id
	writeJSON(w, http.StatusOK, m)
}
