package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Ayavuzer/manushotspot/core/store"
)

func (a *API) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	scope := OrgScopeFromContext(r.Context())
	if scope != nil {
		// Tenant-bound callers only ever see their own organization.
		org, err := a.Orgs.Get(r.Context(), *scope)
		if err != nil {
			a.serverError(w, "list organizations", err)
			return
		}
		out := []store.Organization{}
		if org != nil {
			out = append(out, *org)
		}
		writeJSON(w, http.StatusOK, out)
		return
	}
	orgs, err := a.Orgs.List(r.Context(), r.URL.Query().Get("include_inactive") == "true")
	if err != nil {
		a.serverError(w, "list organizations", err)
		return
	}
	if orgs == nil {
		orgs = []store.Organization{}
	}
	writeJSON(w, http.StatusOK, orgs)
}

func (a *API) GetOrganization(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid organization id")
		return
	}
	if !canAccessOrg(r.Context(), id) {
		writeError(w, http.StatusForbidden, "access to this organization is not allowed")
		return
	}
	org, err := a.Orgs.Get(r.Context(), id)
	if err != nil {
		a.serverError(w, "get organization", err)
		return
	}
	if org == nil {
		writeError(w, http.StatusNotFound, "organization not found")
		return
	}
	writeJSON(w, http.StatusOK, org)
}

type organizationRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	ContactEmail *string `json:"contact_email"`
	IsActive     *bool   `json:"is_active"`
}

func (a *API) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req organizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	existing, err := a.Orgs.GetByName(r.Context(), strings.TrimSpace(*req.Name))
	if err != nil {
		a.serverError(w, "create organization", err)
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "organization name already in use")
		return
	}
	org := &store.Organization{Name: strings.TrimSpace(*req.Name), IsActive: true}
	if req.Description != nil {
		org.Description = *req.Description
	}
	if req.ContactEmail != nil {
		org.ContactEmail = *req.ContactEmail
	}
	id, err := a.Orgs.Create(r.Context(), org)
	if err != nil {
		a.serverError(w, "create organization", err)
		return
	}
	org.ID = id
	created, err := a.Orgs.Get(r.Context(), id)
	if err == nil && created != nil {
		org = created
	}
	writeJSON(w, http.StatusCreated, org)
}

// UpdateOrganization applies only the fields present in the request body;
// absent fields keep their stored value.
func (a *API) UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid organization id")
		return
	}
	if !canAccessOrg(r.Context(), id) {
		writeError(w, http.StatusForbidden, "access to this organization is not allowed")
		return
	}
	org, err := a.Orgs.Get(r.Context(), id)
	if err != nil {
		a.serverError(w, "update organization", err)
		return
	}
	if org == nil {
		writeError(w, http.StatusNotFound, "organization not found")
		return
	}
	var req organizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			writeError(w, http.StatusBadRequest, "name cannot be empty")
			return
		}
		org.Name = name
	}
	if req.Description != nil {
		org.Description = *req.Description
	}
	if req.ContactEmail != nil {
		org.ContactEmail = *req.ContactEmail
	}
	if req.IsActive != nil {
		org.IsActive = *req.IsActive
	}
	if err := a.Orgs.Update(r.Context(), org); err != nil {
		a.serverError(w, "update organization", err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

// DeleteOrganization deactivates rather than removes; firewalls, users and
// logs under it stay in place.
func (a *API) DeleteOrganization(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid organization id")
		return
	}
	org, err := a.Orgs.Get(r.Context(), id)
	if err != nil {
		a.serverError(w, "delete organization", err)
		return
	}
	if org == nil {
		writeError(w, http.StatusNotFound, "organization not found")
		return
	}
	if err := a.Orgs.SetActive(r.Context(), id, false); err != nil {
		a.serverError(w, "delete organization", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "organization deactivated"})
}

func (a *API) ListOrganizationUsers(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid organization id")
		return
	}
	if !canAccessOrg(r.Context(), id) {
		writeError(w, http.StatusForbidden, "access to this organization is not allowed")
		return
	}
	users, err := a.Users.ListByOrganization(r.Context(), id)
	if err != nil {
		a.serverError(w, "list organization users", err)
		return
	}
	if users == nil {
		users = []store.UserWithRole{}
	}
	writeJSON(w, http.StatusOK, users)
}
