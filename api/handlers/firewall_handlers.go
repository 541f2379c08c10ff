package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Ayavuzer/manushotspot/core/broker"
	"github.com/Ayavuzer/manushotspot/core/store"
)

func (a *API) ListFirewalls(w http.ResponseWriter, r *http.Request) {
	fws, err := a.Firewalls.List(r.Context(), OrgScopeFromContext(r.Context()))
	if err != nil {
		a.serverError(w, "list firewalls", err)
		return
	}
	if fws == nil {
		fws = []store.FirewallConfig{}
	}
	writeJSON(w, http.StatusOK, fws)
}

func (a *API) GetFirewall(w http.ResponseWriter, r *http.Request) {
	fw, ok := a.loadScopedFirewall(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, fw)
}

func (a *API) loadScopedFirewall(w http.ResponseWriter, r *http.Request) (*store.FirewallConfig, bool) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid firewall id")
		return nil, false
	}
	fw, err := a.Firewalls.Get(r.Context(), id)
	if err != nil {
		a.serverError(w, "get firewall", err)
		return nil, false
	}
	if fw == nil || !canAccessOrg(r.Context(), fw.OrganizationID) {
		writeError(w, http.StatusNotFound, "firewall not found")
		return nil, false
	}
	return fw, true
}

type firewallRequest struct {
	Name           *string `json:"name"`
	FirewallTypeID *int64  `json:"firewall_type_id"`
	OrganizationID *int64  `json:"organization_id"`
	Host           *string `json:"host"`
	Port           *int    `json:"port"`
	Username       *string `json:"username"`
	Password       *string `json:"password"`
	APIKey         *string `json:"api_key"`
	IsActive       *bool   `json:"is_active"`
}

// CreateFirewall stores the device and queues a connection test. Tenant
// admins always create inside their own organization regardless of what
// the body says.
func (a *API) CreateFirewall(w http.ResponseWriter, r *http.Request) {
	var req firewallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" ||
		req.FirewallTypeID == nil || req.Host == nil || strings.TrimSpace(*req.Host) == "" {
		writeError(w, http.StatusBadRequest, "name, firewall_type_id and host are required")
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
		a.serverError(w, "create firewall", err)
		return
	}
	if org == nil {
		writeError(w, http.StatusNotFound, "organization not found")
		return
	}

	fw := &store.FirewallConfig{
		Name:           strings.TrimSpace(*req.Name),
		FirewallTypeID: *req.FirewallTypeID,
		OrganizationID: orgID,
		Host:           strings.TrimSpace(*req.Host),
		IsActive:       true,
	}
	if req.Port != nil {
		fw.Port = *req.Port
	}
	if req.Username != nil {
		fw.Username = *req.Username
	}
	if req.Password != nil {
		fw.Password = *req.Password
	}
	if req.APIKey != nil {
		fw.APIKey = *req.APIKey
	}
	id, err := a.Firewalls.Create(r.Context(), fw)
	if err != nil {
		a.serverError(w, "create firewall", err)
		return
	}
	fw.ID = id
	a.queueConnectionTest(fw)
	writeJSON(w, http.StatusCreated, fw)
}

// UpdateFirewall applies only the fields present in the body. An explicit
// empty password or api_key clears the stored secret; an absent field
// keeps it.
func (a *API) UpdateFirewall(w http.ResponseWriter, r *http.Request) {
	fw, ok := a.loadScopedFirewall(w, r)
	if !ok {
		return
	}
	var req firewallRequest
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
		fw.Name = name
	}
	if req.OrganizationID != nil && *req.OrganizationID != fw.OrganizationID {
		if !principal(r).IsSuperAdmin {
			writeError(w, http.StatusForbidden, "only super admins move firewalls between organizations")
			return
		}
		org, err := a.Orgs.Get(r.Context(), *req.OrganizationID)
		if err != nil {
			a.serverError(w, "update firewall", err)
			return
		}
		if org == nil {
			writeError(w, http.StatusNotFound, "organization not found")
			return
		}
		fw.OrganizationID = *req.OrganizationID
	}
	if req.FirewallTypeID != nil {
		fw.FirewallTypeID = *req.FirewallTypeID
	}
	if req.Host != nil {
		fw.Host = strings.TrimSpace(*req.Host)
	}
	if req.Port != nil {
		fw.Port = *req.Port
	}
	if req.Username != nil {
		fw.Username = *req.Username
	}
	if req.Password != nil {
		fw.Password = *req.Password
	}
	if req.APIKey != nil {
		fw.APIKey = *req.APIKey
	}
	if req.IsActive != nil {
		fw.IsActive = *req.IsActive
	}
	if err := a.Firewalls.Update(r.Context(), fw); err != nil {
		a.serverError(w, "update firewall", err)
		return
	}
	a.queueConnectionTest(fw)
	writeJSON(w, http.StatusOK, fw)
}

func (a *API) DeleteFirewall(w http.ResponseWriter, r *http.Request) {
	fw, ok := a.loadScopedFirewall(w, r)
	if !ok {
		return
	}
	if err := a.Firewalls.SetActive(r.Context(), fw.ID, false); err != nil {
		a.serverError(w, "delete firewall", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "firewall deactivated"})
}

func (a *API) TestFirewallConnection(w http.ResponseWriter, r *http.Request) {
	fw, ok := a.loadScopedFirewall(w, r)
	if !ok {
		return
	}
	a.queueConnectionTest(fw)
	writeJSON(w, http.StatusAccepted, map[string]string{"message": "connection test queued"})
}

func (a *API) ListFirewallTypes(w http.ResponseWriter, r *http.Request) {
	types, err := a.Firewalls.Types(r.Context())
	if err != nil {
		a.serverError(w, "list firewall types", err)
		return
	}
	if types == nil {
		types = []store.FirewallType{}
	}
	writeJSON(w, http.StatusOK, types)
}

// queueConnectionTest publishes best-effort; a broker outage must not fail
// the API call that triggered it.
func (a *API) queueConnectionTest(fw *store.FirewallConfig) {
	if a.Publisher == nil {
		return
	}
	err := a.Publisher.PublishFirewallCommand(broker.FirewallCommand{
		Action:           "test_connection",
		FirewallConfigID: fw.ID,
		FirewallTypeID:   fw.FirewallTypeID,
		OrganizationID:   fw.OrganizationID,
	})
	if err != nil && a.Logger != nil {
		a.Logger.Errorf("queue connection test for firewall %d: %v", fw.ID, err)
	}
}
