package bootstrap

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Ayavuzer/manushotspot/config"
	"github.com/Ayavuzer/manushotspot/core/auth"
	"github.com/Ayavuzer/manushotspot/core/rbac"
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

func testConfig() *config.AppConfig {
	cfg := &config.AppConfig{Pepper: "test-pepper"}
	cfg.Bootstrap.AdminUsername = "root"
	cfg.Bootstrap.AdminEmail = "root@hotel.example"
	cfg.Bootstrap.AdminPassword = "bootstrap-pass"
	return cfg
}

func TestSeed(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	if err := Seed(ctx, db, testConfig(), nil); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	roles := store.NewRolesStore(db)
	perms, err := roles.Permissions(ctx)
	if err != nil {
		t.Fatalf("Permissions: %v", err)
	}
	if len(perms) != len(rbac.AllPermissions) {
		t.Fatalf("seeded %d permissions, want %d", len(perms), len(rbac.AllPermissions))
	}

	superRole, err := roles.GetByName(ctx, rbac.RoleSuperAdmin)
	if err != nil || superRole == nil {
		t.Fatalf("super admin role: %v %v", superRole, err)
	}
	grants, err := roles.RolePermissions(ctx, superRole.ID)
	if err != nil {
		t.Fatalf("RolePermissions: %v", err)
	}
	if len(grants) != len(rbac.AllPermissions) {
		t.Fatalf("super admin has %d grants, want all", len(grants))
	}

	users := store.NewUsersStore(db)
	admin, err := users.FindByUsername(ctx, "root")
	if err != nil || admin == nil {
		t.Fatalf("admin user: %v %v", admin, err)
	}
	if !admin.IsSuperAdmin || admin.OrganizationID != nil {
		t.Fatalf("admin flags: %+v", admin)
	}
	ph, _ := auth.ParsePasswordHash(admin.PasswordHash, admin.Salt)
	if ok, _ := auth.VerifyPassword("bootstrap-pass", "test-pepper", ph); !ok {
		t.Fatal("admin password does not verify")
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	cfg := testConfig()
	if err := Seed(ctx, db, cfg, nil); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := Seed(ctx, db, cfg, nil); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	var count int
	if err := db.QueryRow(`SELECT COUNT(1) FROM users`).Scan(&count); err != nil || count != 1 {
		t.Fatalf("user count after reseed: %d %v", count, err)
	}
	if err := db.QueryRow(`SELECT COUNT(1) FROM permissions`).Scan(&count); err != nil || count != len(rbac.AllPermissions) {
		t.Fatalf("permission count after reseed: %d %v", count, err)
	}
}
