package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Ayavuzer/manushotspot/core/auth"
	"github.com/Ayavuzer/manushotspot/core/broker"
	"github.com/Ayavuzer/manushotspot/core/store"
	"github.com/Ayavuzer/manushotspot/core/utils"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func parseID(r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	return id, err == nil && id > 0
}

type orgScopeKey struct{}

// WithOrgScope stores the tenant restriction for the request. A nil scope
// means unrestricted (super admin).
func WithOrgScope(ctx context.Context, orgID *int64) context.Context {
	return context.WithValue(ctx, orgScopeKey{}, orgID)
}

func OrgScopeFromContext(ctx context.Context) *int64 {
	if v, ok := ctx.Value(orgScopeKey{}).(*int64); ok {
		return v
	}
	return nil
}

// canAccessOrg reports whether the request's tenant scope covers orgID.
func canAccessOrg(ctx context.Context, orgID int64) bool {
	scope := OrgScopeFromContext(ctx)
	return scope == nil || *scope == orgID
}

func principal(r *http.Request) *auth.Principal {
	p, _ := auth.PrincipalFromContext(r.Context())
	return p
}

// API bundles the dependencies the route handlers need.
type API struct {
	Auth        *auth.Service
	Orgs        store.OrganizationsStore
	Users       store.UsersStore
	Roles       store.RolesStore
	Firewalls   store.FirewallsStore
	Logs        store.FirewallLogsStore
	PMS         store.PMSIntegrationsStore
	AuthMethods store.AuthMethodsStore
	Publisher   broker.Publisher
	Logger      *utils.Logger
}
