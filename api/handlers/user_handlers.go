package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Ayavuzer/manushotspot/core/auth"
	"github.com/Ayavuzer/manushotspot/core/store"
)

func (a *API) ListUsers(w http.ResponseWriter, r *http.Request) {
	f := store.UserFilter{
		OrganizationID:  OrgScopeFromContext(r.Context()),
		IncludeInactive: r.URL.Query().Get("include_inactive") == "true",
	}
	users, err := a.Users.List(r.Context(), f)
	if err != nil {
		a.serverError(w, "list users", err)
		return
	}
	if users == nil {
		users = []store.UserWithRole{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (a *API) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	u, err := a.Users.Get(r.Context(), id)
	if err != nil {
		a.serverError(w, "get user", err)
		return
	}
	if u == nil || !a.userInScope(r, u) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// userInScope hides users outside the caller's tenant instead of revealing
// their existence with a 403.
func (a *API) userInScope(r *http.Request, u *store.User) bool {
	scope := OrgScopeFromContext(r.Context())
	if scope == nil {
		return true
	}
	return u.OrganizationID != nil && *u.OrganizationID == *scope
}

type createUserRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	RoleID         int64  `json:"role_id"`
	IsSuperAdmin   *bool  `json:"is_super_admin"`
	OrganizationID *int64 `json:"organization_id"`
}

func (a *API) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p := principal(r)
	if req.IsSuperAdmin != nil && *req.IsSuperAdmin && !p.IsSuperAdmin {
		writeError(w, http.StatusForbidden, "only super admins grant super admin")
		return
	}
	// Tenant admins create users inside their own organization; naming a
	// foreign one is refused rather than silently overridden.
	orgID := req.OrganizationID
	if scope := OrgScopeFromContext(r.Context()); scope != nil {
		if req.OrganizationID != nil && *req.OrganizationID != *scope {
			writeError(w, http.StatusForbidden, "access to this organization is not allowed")
			return
		}
		orgID = scope
	}
	u, err := a.Auth.Register(r.Context(), auth.RegisterParams{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		RoleID:         req.RoleID,
		IsSuperAdmin:   req.IsSuperAdmin != nil && *req.IsSuperAdmin,
		OrganizationID: orgID,
	})
	if err != nil {
		if status, msg, ok := registerErrorStatus(err); ok {
			writeError(w, status, msg)
			return
		}
		a.serverError(w, "create user", err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// registerErrorStatus maps the caller's mistakes onto 400 and leaves
// everything else (store and driver failures) to the generic 500 path.
func registerErrorStatus(err error) (int, string, bool) {
	switch {
	case errors.Is(err, auth.ErrDuplicateIdentity):
		return http.StatusBadRequest, "username or email already in use", true
	case errors.Is(err, auth.ErrRoleNotFound):
		return http.StatusBadRequest, "role not found", true
	case errors.Is(err, auth.ErrMissingFields):
		return http.StatusBadRequest, "username, email and password are required", true
	}
	return 0, "", false
}

type updateUserRequest struct {
	Username       *string `json:"username"`
	Email          *string `json:"email"`
	RoleID         *int64  `json:"role_id"`
	IsSuperAdmin   *bool   `json:"is_super_admin"`
	OrganizationID *int64  `json:"organization_id"`
	IsActive       *bool   `json:"is_active"`
}

func (a *API) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	u, err := a.Users.Get(r.Context(), id)
	if err != nil {
		a.serverError(w, "update user", err)
		return
	}
	if u == nil || !a.userInScope(r, u) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	p := principal(r)
	if u.IsSuperAdmin && !p.IsSuperAdmin {
		writeError(w, http.StatusForbidden, "cannot modify a super admin account")
		return
	}
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username != nil {
		u.Username = *req.Username
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.RoleID != nil {
		u.RoleID = *req.RoleID
	}
	if req.IsSuperAdmin != nil {
		if !p.IsSuperAdmin {
			writeError(w, http.StatusForbidden, "only super admins grant super admin")
			return
		}
		u.IsSuperAdmin = *req.IsSuperAdmin
	}
	if req.OrganizationID != nil {
		if !p.IsSuperAdmin {
			writeError(w, http.StatusForbidden, "only super admins move users between organizations")
			return
		}
		u.OrganizationID = req.OrganizationID
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	if err := a.Users.Update(r.Context(), u); err != nil {
		a.serverError(w, "update user", err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// DeleteUser deactivates the account. Self-deletion is refused, and only a
// super admin may deactivate another super admin.
func (a *API) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	p := principal(r)
	if p.UserID == id {
		writeError(w, http.StatusBadRequest, "you cannot delete your own account")
		return
	}
	u, err := a.Users.Get(r.Context(), id)
	if err != nil {
		a.serverError(w, "delete user", err)
		return
	}
	if u == nil || !a.userInScope(r, u) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if u.IsSuperAdmin && !p.IsSuperAdmin {
		writeError(w, http.StatusForbidden, "cannot delete a super admin account")
		return
	}
	if err := a.Users.SetActive(r.Context(), id, false); err != nil {
		a.serverError(w, "delete user", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "user deactivated"})
}

type assignOrganizationRequest struct {
	UserID         int64  `json:"user_id"`
	OrganizationID *int64 `json:"organization_id"`
}

// AssignUserToOrganization moves a user into an organization, or detaches
// them when organization_id is null.
func (a *API) AssignUserToOrganization(w http.ResponseWriter, r *http.Request) {
	var req assignOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID <= 0 {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	u, err := a.Users.Get(r.Context(), req.UserID)
	if err != nil {
		a.serverError(w, "assign organization", err)
		return
	}
	if u == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if req.OrganizationID != nil {
		org, err := a.Orgs.Get(r.Context(), *req.OrganizationID)
		if err != nil {
			a.serverError(w, "assign organization", err)
			return
		}
		if org == nil {
			writeError(w, http.StatusNotFound, "organization not found")
			return
		}
	}
	if err := a.Users.AssignOrganization(r.Context(), req.UserID, req.OrganizationID); err != nil {
		a.serverError(w, "assign organization", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "organization assignment updated"})
}

// RemoveUserFromOrganization detaches the user from whatever organization
// they are in. Detaching an unassigned user is a no-op.
func (a *API) RemoveUserFromOrganization(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "userId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	u, err := a.Users.Get(r.Context(), id)
	if err != nil {
		a.serverError(w, "remove user from organization", err)
		return
	}
	if u == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err := a.Users.AssignOrganization(r.Context(), id, nil); err != nil {
		a.serverError(w, "remove user from organization", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "user removed from organization"})
}

func (a *API) GetUserOrganization(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "userId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	u, err := a.Users.Get(r.Context(), id)
	if err != nil {
		a.serverError(w, "get user organization", err)
		return
	}
	if u == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if u.OrganizationID == nil {
		writeJSON(w, http.StatusOK, map[string]any{"organization": nil})
		return
	}
	org, err := a.Orgs.Get(r.Context(), *u.OrganizationID)
	if err != nil {
		a.serverError(w, "get user organization", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"organization": org})
}
