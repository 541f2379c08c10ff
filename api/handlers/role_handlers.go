package handlers

import (
	"net/http"

	"github.com/Ayavuzer/manushotspot/core/store"
)

func (a *API) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := a.Roles.List(r.Context())
	if err != nil {
		a.serverError(w, "list roles", err)
		return
	}
	if roles == nil {
		roles = []store.Role{}
	}
	writeJSON(w, http.StatusOK, roles)
}

func (a *API) ListPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := a.Roles.Permissions(r.Context())
	if err != nil {
		a.serverError(w, "list permissions", err)
		return
	}
	if perms == nil {
		perms = []store.Permission{}
	}
	writeJSON(w, http.StatusOK, perms)
}
