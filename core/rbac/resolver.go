package rbac

import (
	"context"
	"fmt"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"

	"github.com/Ayavuzer/manushotspot/core/store"
	"github.com/Ayavuzer/manushotspot/core/utils"
)

// The enforcer model is a flat role-to-permission allow list. Role
// inheritance is intentionally absent; grants are explicit per role.
const modelText = `
[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj
`

// Resolver answers "may this user perform this operation" from current
// database state. The casbin policy set is an in-memory mirror of the
// role_permissions table, refreshed after every grant change and on a timer.
type Resolver struct {
	enforcer *casbin.SyncedEnforcer
	users    store.UsersStore
	roles    store.RolesStore
	logger   *utils.Logger
}

func NewResolver(users store.UsersStore, roles store.RolesStore, logger *utils.Logger) (*Resolver, error) {
	m, err := casbinmodel.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("rbac model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("rbac enforcer: %w", err)
	}
	return &Resolver{enforcer: enforcer, users: users, roles: roles, logger: logger}, nil
}

// Sync replaces the in-memory policy with the role grants currently stored
// in the database.
func (r *Resolver) Sync(ctx context.Context) error {
	pairs, err := r.roles.RolePermissionPairs(ctx)
	if err != nil {
		return err
	}
	rules := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		rules = append(rules, []string{p[0], p[1]})
	}
	r.enforcer.ClearPolicy()
	if len(rules) > 0 {
		if _, err := r.enforcer.AddPolicies(rules); err != nil {
			return err
		}
	}
	if r.logger != nil {
		r.logger.Printf("rbac policy synced: %d grants", len(rules))
	}
	return nil
}

// HasPermission resolves the user's effective permission from live state.
// Super admins bypass the grant check; disabled and unknown users always
// resolve to false.
func (r *Resolver) HasPermission(ctx context.Context, userID int64, permission string) (bool, error) {
	u, err := r.users.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	if u == nil || !u.IsActive {
		return false, nil
	}
	if u.IsSuperAdmin {
		return true, nil
	}
	role, err := r.roles.Get(ctx, u.RoleID)
	if err != nil {
		return false, err
	}
	if role == nil {
		return false, nil
	}
	return r.enforcer.Enforce(role.Name, permission)
}

// RolePermissions lists the effective grants for one role name.
func (r *Resolver) RolePermissions(roleName string) ([]string, error) {
	policies, err := r.enforcer.GetFilteredPolicy(0, roleName)
	if err != nil {
		return nil, err
	}
	perms := make([]string, 0, len(policies))
	for _, p := range policies {
		if len(p) == 2 {
			perms = append(perms, p[1])
		}
	}
	return perms, nil
}
