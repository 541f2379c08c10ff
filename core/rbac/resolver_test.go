package rbac

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Ayavuzer/manushotspot/config"
	"github.com/Ayavuzer/manushotspot/core/store"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	cfg := &config.AppConfig{DBDriver: "sqlite", DBPath: filepath.Join(t.TempDir(), "test.db")}
	db, err := store.NewDB(cfg, nil)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := store.ApplyMigrations(context.Background(), db, "sqlite", nil); err != nil {
		t.Fatalf("ApplyMigrations: %v", err)
	}
	return db
}

func seedRBAC(t *testing.T, db *sql.DB) (store.UsersStore, store.RolesStore, map[string]int64) {
	t.Helper()
	ctx := context.Background()
	roles := store.NewRolesStore(db)
	users := store.NewUsersStore(db)

	roleIDs := map[string]int64{}
	for _, name := range []string{RoleSuperAdmin, RoleOrganizationAdmin, RoleUser} {
		id, err := roles.EnsureRole(ctx, name, "")
		if err != nil {
			t.Fatalf("EnsureRole %s: %v", name, err)
		}
		roleIDs[name] = id
	}
	for _, perm := range AllPermissions {
		permID, err := roles.EnsurePermission(ctx, perm, "")
		if err != nil {
			t.Fatalf("EnsurePermission %s: %v", perm, err)
		}
		for roleName, grants := range BuiltinRolePermissions {
			for _, g := range grants {
				if g == perm {
					if err := roles.GrantPermission(ctx, roleIDs[roleName], permID); err != nil {
						t.Fatalf("GrantPermission: %v", err)
					}
				}
			}
		}
	}
	return users, roles, roleIDs
}

func seedUser(t *testing.T, users store.UsersStore, username string, roleID int64, super, active bool) int64 {
	t.Helper()
	id, err := users.Create(context.Background(), &store.User{
		Username: username, Email: username + "@x", PasswordHash: "h", Salt: "s",
		RoleID: roleID, IsSuperAdmin: super, IsActive: active,
	})
	if err != nil {
		t.Fatalf("Create %s: %v", username, err)
	}
	return id
}

func TestHasPermission(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users, roles, roleIDs := seedRBAC(t, db)

	resolver, err := NewResolver(users, roles, nil)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	if err := resolver.Sync(ctx); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	superID := seedUser(t, users, "root", roleIDs[RoleSuperAdmin], true, true)
	orgAdminID := seedUser(t, users, "manager", roleIDs[RoleOrganizationAdmin], false, true)
	plainID := seedUser(t, users, "viewer", roleIDs[RoleUser], false, true)
	disabledID := seedUser(t, users, "ghost", roleIDs[RoleUser], false, false)

	cases := []struct {
		name   string
		userID int64
		perm   string
		want   bool
	}{
		{"super admin has everything", superID, PermOrganizationDelete, true},
		{"org admin manages users", orgAdminID, PermUserCreate, true},
		{"org admin cannot create organizations", orgAdminID, PermOrganizationCreate, false},
		{"org admin cannot delete organizations", orgAdminID, PermOrganizationDelete, false},
		{"plain user views firewalls", plainID, PermFirewallView, true},
		{"plain user views logs", plainID, PermLogView, true},
		{"plain user cannot export logs", plainID, PermLogExport, false},
		{"plain user cannot edit firewalls", plainID, PermFirewallEdit, false},
		{"disabled user denied everything", disabledID, PermFirewallView, false},
		{"unknown user denied", 99999, PermFirewallView, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolver.HasPermission(ctx, tc.userID, tc.perm)
			if err != nil {
				t.Fatalf("HasPermission: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSyncPicksUpGrantChanges(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users, roles, roleIDs := seedRBAC(t, db)

	resolver, err := NewResolver(users, roles, nil)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	if err := resolver.Sync(ctx); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	plainID := seedUser(t, users, "viewer", roleIDs[RoleUser], false, true)
	if ok, _ := resolver.HasPermission(ctx, plainID, PermLogExport); ok {
		t.Fatal("viewer should not export logs yet")
	}

	// Grant and resync.
	permID, err := roles.EnsurePermission(ctx, PermLogExport, "")
	if err != nil {
		t.Fatalf("EnsurePermission: %v", err)
	}
	if err := roles.GrantPermission(ctx, roleIDs[RoleUser], permID); err != nil {
		t.Fatalf("GrantPermission: %v", err)
	}
	if err := resolver.Sync(ctx); err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	if ok, _ := resolver.HasPermission(ctx, plainID, PermLogExport); !ok {
		t.Fatal("grant not visible after sync")
	}
}
