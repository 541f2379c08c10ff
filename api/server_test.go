package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"github.com/Ayavuzer/manushotspot/config"
	"github.com/Ayavuzer/manushotspot/core/bootstrap"
	"github.com/Ayavuzer/manushotspot/core/broker"
	"github.com/Ayavuzer/manushotspot/core/cache"
	"github.com/Ayavuzer/manushotspot/core/rbac"
	"github.com/Ayavuzer/manushotspot/core/store"
)

type testEnv struct {
	srv *Server
	db  *sql.DB
	pub *broker.NopPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.AppConfig{
		ListenAddr:      ":0",
		APIPrefix:       "/api/v1",
		AppEnv:          "test",
		DBDriver:        "sqlite",
		DBPath:          filepath.Join(t.TempDir(), "test.db"),
		JWTSecret:       "test-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		EncryptionKey:   "0123456789abcdef0123456789abcdef",
		Pepper:          "test-pepper",
	}
	cfg.Bootstrap.AdminUsername = "admin"
	cfg.Bootstrap.AdminEmail = "admin@hotel.example"
	cfg.Bootstrap.AdminPassword = "admin-pass"

	db, err := store.NewDB(cfg, nil)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := store.ApplyMigrations(context.Background(), db, "sqlite", nil); err != nil {
		t.Fatalf("ApplyMigrations: %v", err)
	}
	if err := bootstrap.Seed(context.Background(), db, cfg, nil); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	pub := &broker.NopPublisher{}
	srv, err := NewServer(cfg, db, cache.NewRefreshTokenStoreFromClient(client), pub, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return &testEnv{srv: srv, db: db, pub: pub}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) login(t *testing.T, username, password string) (access, refresh string) {
	t.Helper()
	rec := e.do(t, "POST", "/api/v1/auth/login", "", map[string]string{
		"username": username, "password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", username, rec.Code, rec.Body.String())
	}
	var res struct {
		AccessToken  string `json:"token"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return res.AccessToken, res.RefreshToken
}

func (e *testEnv) createOrg(t *testing.T, token, name string) int64 {
	t.Helper()
	rec := e.do(t, "POST", "/api/v1/organizations", token, map[string]string{"name": name})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create org %s: status %d body %s", name, rec.Code, rec.Body.String())
	}
	var org store.Organization
	json.Unmarshal(rec.Body.Bytes(), &org)
	return org.ID
}

func (e *testEnv) roleID(t *testing.T, name string) int64 {
	t.Helper()
	role, err := store.NewRolesStore(e.db).GetByName(context.Background(), name)
	if err != nil || role == nil {
		t.Fatalf("role %s: %v %v", name, role, err)
	}
	return role.ID
}

func (e *testEnv) createUser(t *testing.T, token, username string, roleID, orgID int64) int64 {
	t.Helper()
	rec := e.do(t, "POST", "/api/v1/users", token, map[string]any{
		"username": username, "email": username + "@hotel.example", "password": "user-pass",
		"role_id": roleID, "organization_id": orgID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user %s: status %d body %s", username, rec.Code, rec.Body.String())
	}
	var u store.User
	json.Unmarshal(rec.Body.Bytes(), &u)
	return u.ID
}

func TestLoginAndProfile(t *testing.T) {
	e := newTestEnv(t)
	access, _ := e.login(t, "admin", "admin-pass")

	rec := e.do(t, "GET", "/api/v1/auth/profile", access, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile: status %d", rec.Code)
	}
	var profile store.UserWithRole
	json.Unmarshal(rec.Body.Bytes(), &profile)
	if profile.Username != "admin" || profile.RoleName != rbac.RoleSuperAdmin {
		t.Fatalf("profile: %+v", profile)
	}
	if strings.Contains(rec.Body.String(), "password_hash") {
		t.Fatal("profile leaks credential fields")
	}

	rec = e.do(t, "POST", "/api/v1/auth/login", "", map[string]string{"username": "admin", "password": "nope"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: status %d", rec.Code)
	}
}

func TestRequestsWithoutTokenRejected(t *testing.T) {
	e := newTestEnv(t)
	for _, path := range []string{"/api/v1/users", "/api/v1/organizations", "/api/v1/firewalls", "/api/v1/firewall-logs"} {
		rec := e.do(t, "GET", path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status %d, want 401", path, rec.Code)
		}
	}
	rec := e.do(t, "GET", "/api/v1/users", "not-a-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: status %d", rec.Code)
	}
}

func TestRefreshRotationOverHTTP(t *testing.T) {
	e := newTestEnv(t)
	_, refresh := e.login(t, "admin", "admin-pass")

	rec := e.do(t, "POST", "/api/v1/auth/refresh-token", "", map[string]string{"refreshToken": refresh})
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: status %d body %s", rec.Code, rec.Body.String())
	}
	var pair struct {
		RefreshToken string `json:"refreshToken"`
	}
	json.Unmarshal(rec.Body.Bytes(), &pair)
	if pair.RefreshToken == refresh {
		t.Fatal("refresh token not rotated")
	}

	rec = e.do(t, "POST", "/api/v1/auth/refresh-token", "", map[string]string{"refreshToken": refresh})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("stale refresh token: status %d", rec.Code)
	}
}

func TestTenantIsolation(t *testing.T) {
	e := newTestEnv(t)
	adminTok, _ := e.login(t, "admin", "admin-pass")
	orgA := e.createOrg(t, adminTok, "Hotel A")
	orgB := e.createOrg(t, adminTok, "Hotel B")
	orgAdminRole := e.roleID(t, rbac.RoleOrganizationAdmin)
	e.createUser(t, adminTok, "manager-a", orgAdminRole, orgA)
	e.createUser(t, adminTok, "staff-b", e.roleID(t, rbac.RoleUser), orgB)

	tok, _ := e.login(t, "manager-a", "user-pass")

	// User listing is scoped to the manager's own organization.
	rec := e.do(t, "GET", "/api/v1/users", tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list users: status %d body %s", rec.Code, rec.Body.String())
	}
	var users []store.UserWithRole
	json.Unmarshal(rec.Body.Bytes(), &users)
	if len(users) != 1 || users[0].Username != "manager-a" {
		t.Fatalf("scoped users: %+v", users)
	}

	// Organization listing shows only the own tenant.
	rec = e.do(t, "GET", "/api/v1/organizations", tok, nil)
	var orgs []store.Organization
	json.Unmarshal(rec.Body.Bytes(), &orgs)
	if len(orgs) != 1 || orgs[0].ID != orgA {
		t.Fatalf("scoped orgs: %+v", orgs)
	}

	// Naming a foreign organization explicitly is refused, not overridden.
	rec = e.do(t, "GET", fmt.Sprintf("/api/v1/users?organization_id=%d", orgB), tok, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign org query: status %d", rec.Code)
	}
	rec = e.do(t, "GET", fmt.Sprintf("/api/v1/organizations/%d", orgB), tok, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign org read: status %d", rec.Code)
	}

	// Org admins cannot mint organizations at all.
	rec = e.do(t, "POST", "/api/v1/organizations", tok, map[string]string{"name": "Rogue"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("org create by tenant admin: status %d", rec.Code)
	}

	// Firewall creation is pinned to the own organization even when the
	// body claims another tenant.
	typeID := e.firewallTypeID(t)
	rec = e.do(t, "POST", "/api/v1/firewalls", tok, map[string]any{
		"name": "edge", "firewall_type_id": typeID, "host": "10.0.0.1", "organization_id": orgB,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create firewall: status %d body %s", rec.Code, rec.Body.String())
	}
	var fw store.FirewallConfig
	json.Unmarshal(rec.Body.Bytes(), &fw)
	if fw.OrganizationID != orgA {
		t.Fatalf("firewall landed in org %d, want %d", fw.OrganizationID, orgA)
	}

	// The super admin sees everything.
	rec = e.do(t, "GET", "/api/v1/users?include_inactive=true", adminTok, nil)
	json.Unmarshal(rec.Body.Bytes(), &users)
	if len(users) != 3 {
		t.Fatalf("super admin user count: %d", len(users))
	}
}

func (e *testEnv) firewallTypeID(t *testing.T) int64 {
	t.Helper()
	types, err := store.NewFirewallsStore(e.db, e.srv.encryptor).Types(context.Background())
	if err != nil || len(types) == 0 {
		t.Fatalf("firewall types: %v %v", types, err)
	}
	return types[0].ID
}

func TestFirewallSecretsAndCommands(t *testing.T) {
	e := newTestEnv(t)
	adminTok, _ := e.login(t, "admin", "admin-pass")
	orgA := e.createOrg(t, adminTok, "Hotel A")
	typeID := e.firewallTypeID(t)

	rec := e.do(t, "POST", "/api/v1/firewalls", adminTok, map[string]any{
		"name": "edge", "firewall_type_id": typeID, "organization_id": orgA,
		"host": "10.0.0.1", "port": 443, "username": "admin", "password": "hunter2", "api_key": "key-123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create firewall: status %d body %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "hunter2") || strings.Contains(rec.Body.String(), "key-123") {
		t.Fatal("response leaks device secrets")
	}
	if len(e.pub.Published) != 1 || e.pub.Published[0].Action != "test_connection" {
		t.Fatalf("published commands: %+v", e.pub.Published)
	}

	var fw store.FirewallConfig
	json.Unmarshal(rec.Body.Bytes(), &fw)

	// Explicit test-connection queues another command.
	rec = e.do(t, "POST", fmt.Sprintf("/api/v1/firewalls/%d/test-connection", fw.ID), adminTok, nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("test connection: status %d", rec.Code)
	}
	if len(e.pub.Published) != 2 {
		t.Fatalf("published commands after test: %d", len(e.pub.Published))
	}

	// Update without the password field keeps the stored secret.
	rec = e.do(t, "PUT", fmt.Sprintf("/api/v1/firewalls/%d", fw.ID), adminTok, map[string]any{"name": "edge-renamed"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update firewall: status %d body %s", rec.Code, rec.Body.String())
	}
	stored, err := store.NewFirewallsStore(e.db, e.srv.encryptor).Get(context.Background(), fw.ID)
	if err != nil || stored == nil {
		t.Fatalf("reload firewall: %v", err)
	}
	if stored.Name != "edge-renamed" || stored.Password != "hunter2" {
		t.Fatalf("partial update: name=%q password kept=%v", stored.Name, stored.Password == "hunter2")
	}
}

func TestUserDeletionRules(t *testing.T) {
	e := newTestEnv(t)
	adminTok, _ := e.login(t, "admin", "admin-pass")
	orgA := e.createOrg(t, adminTok, "Hotel A")
	userID := e.createUser(t, adminTok, "staff", e.roleID(t, rbac.RoleUser), orgA)

	// Self-deletion is refused.
	var adminID int64
	if err := e.db.QueryRow(`SELECT id FROM users WHERE username='admin'`).Scan(&adminID); err != nil {
		t.Fatalf("admin id: %v", err)
	}
	rec := e.do(t, "DELETE", fmt.Sprintf("/api/v1/users/%d", adminID), adminTok, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("self delete: status %d", rec.Code)
	}

	// Deletion deactivates; the row and its history remain.
	rec = e.do(t, "DELETE", fmt.Sprintf("/api/v1/users/%d", userID), adminTok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete user: status %d body %s", rec.Code, rec.Body.String())
	}
	var active bool
	if err := e.db.QueryRow(`SELECT is_active FROM users WHERE id=?`, userID).Scan(&active); err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if active {
		t.Fatal("user still active after deletion")
	}

	// A deactivated user cannot log in.
	rec = e.do(t, "POST", "/api/v1/auth/login", "", map[string]string{"username": "staff", "password": "user-pass"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("deactivated login: status %d", rec.Code)
	}
}

func TestFirewallLogsFlow(t *testing.T) {
	e := newTestEnv(t)
	adminTok, _ := e.login(t, "admin", "admin-pass")
	orgA := e.createOrg(t, adminTok, "Hotel A")
	typeID := e.firewallTypeID(t)

	rec := e.do(t, "POST", "/api/v1/firewalls", adminTok, map[string]any{
		"name": "edge", "firewall_type_id": typeID, "organization_id": orgA, "host": "10.0.0.1",
	})
	var fw store.FirewallConfig
	json.Unmarshal(rec.Body.Bytes(), &fw)

	// Ingest against an unknown firewall is a 404.
	rec = e.do(t, "POST", "/api/v1/firewall-logs", adminTok, map[string]any{
		"firewall_config_id": 99999, "log_type": "traffic",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("log for unknown firewall: status %d", rec.Code)
	}

	for i := 0; i < 3; i++ {
		rec = e.do(t, "POST", "/api/v1/firewall-logs", adminTok, map[string]any{
			"firewall_config_id": fw.ID, "log_type": "traffic",
			"source_ip": "192.168.1.10", "destination_ip": "8.8.8.8",
			"source_port": 50000 + i, "destination_port": 443,
			"protocol": "tcp", "action": "allow", "message": "permitted",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("add log: status %d body %s", rec.Code, rec.Body.String())
		}
	}

	rec = e.do(t, "GET", "/api/v1/firewall-logs", adminTok, nil)
	var entries []store.FirewallLogEntry
	json.Unmarshal(rec.Body.Bytes(), &entries)
	if len(entries) != 3 {
		t.Fatalf("log list: %d entries", len(entries))
	}
	if entries[0].FirewallName != "edge" || entries[0].OrganizationName != "Hotel A" {
		t.Fatalf("joined names: %+v", entries[0])
	}

	// CSV export carries the fixed column set.
	rec = e.do(t, "GET", "/api/v1/firewall-logs/export", adminTok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export: status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("export content type: %s", ct)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("export lines: %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ID,Firewall Name,Organization,Log Type") {
		t.Fatalf("export header: %s", lines[0])
	}

	// log_view alone does not grant export.
	e.createUser(t, adminTok, "viewer", e.roleID(t, rbac.RoleUser), orgA)
	viewerTok, _ := e.login(t, "viewer", "user-pass")
	rec = e.do(t, "GET", "/api/v1/firewall-logs", viewerTok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("viewer log list: status %d", rec.Code)
	}
	rec = e.do(t, "GET", "/api/v1/firewall-logs/export", viewerTok, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("viewer export: status %d", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, "GET", "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz: status %d", rec.Code)
	}
	rec = e.do(t, "GET", "/readyz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz: status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestSuperAdminFlagRules(t *testing.T) {
	e := newTestEnv(t)
	adminTok, _ := e.login(t, "admin", "admin-pass")
	orgA := e.createOrg(t, adminTok, "Hotel A")
	orgAdminRole := e.roleID(t, rbac.RoleOrganizationAdmin)
	userID := e.createUser(t, adminTok, "manager-a", orgAdminRole, orgA)
	targetID := e.createUser(t, adminTok, "staff", e.roleID(t, rbac.RoleUser), orgA)

	// Super admin can grant the flag and it persists.
	rec := e.do(t, "PUT", fmt.Sprintf("/api/v1/users/%d", userID), adminTok, map[string]any{"is_super_admin": true})
	if rec.Code != http.StatusOK {
		t.Fatalf("grant super admin: status %d body %s", rec.Code, rec.Body.String())
	}
	var isSuper bool
	if err := e.db.QueryRow(`SELECT is_super_admin FROM users WHERE id=?`, userID).Scan(&isSuper); err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if !isSuper {
		t.Fatal("is_super_admin not persisted")
	}

	// Clearing works the same way.
	rec = e.do(t, "PUT", fmt.Sprintf("/api/v1/users/%d", userID), adminTok, map[string]any{"is_super_admin": false})
	if rec.Code != http.StatusOK {
		t.Fatalf("clear super admin: status %d", rec.Code)
	}
	if err := e.db.QueryRow(`SELECT is_super_admin FROM users WHERE id=?`, userID).Scan(&isSuper); err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if isSuper {
		t.Fatal("is_super_admin not cleared")
	}

	// A tenant admin cannot touch the flag, in updates or creates.
	tok, _ := e.login(t, "manager-a", "user-pass")
	rec = e.do(t, "PUT", fmt.Sprintf("/api/v1/users/%d", targetID), tok, map[string]any{"is_super_admin": true})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("tenant admin grants super admin: status %d", rec.Code)
	}
	rec = e.do(t, "POST", "/api/v1/users", tok, map[string]any{
		"username": "sneaky", "email": "sneaky@hotel.example", "password": "user-pass",
		"role_id": e.roleID(t, rbac.RoleUser), "is_super_admin": true,
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("tenant admin creates super admin: status %d", rec.Code)
	}
}

func TestCreateUserForeignOrgRejected(t *testing.T) {
	e := newTestEnv(t)
	adminTok, _ := e.login(t, "admin", "admin-pass")
	orgA := e.createOrg(t, adminTok, "Hotel A")
	orgB := e.createOrg(t, adminTok, "Hotel B")
	e.createUser(t, adminTok, "manager-a", e.roleID(t, rbac.RoleOrganizationAdmin), orgA)

	tok, _ := e.login(t, "manager-a", "user-pass")
	rec := e.do(t, "POST", "/api/v1/users", tok, map[string]any{
		"username": "planted", "email": "planted@hotel.example", "password": "user-pass",
		"role_id": e.roleID(t, rbac.RoleUser), "organization_id": orgB,
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign org user create: status %d body %s", rec.Code, rec.Body.String())
	}
	var count int
	if err := e.db.QueryRow(`SELECT COUNT(*) FROM users WHERE username='planted'`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatal("rejected user was still created")
	}

	// Naming the own organization explicitly stays allowed.
	rec = e.do(t, "POST", "/api/v1/users", tok, map[string]any{
		"username": "staff-a", "email": "staff-a@hotel.example", "password": "user-pass",
		"role_id": e.roleID(t, rbac.RoleUser), "organization_id": orgA,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("own org user create: status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestRegisterErrorMapping(t *testing.T) {
	e := newTestEnv(t)
	adminTok, _ := e.login(t, "admin", "admin-pass")

	// Duplicate identity is the caller's mistake, not a conflict surface.
	rec := e.do(t, "POST", "/api/v1/auth/register", "", map[string]any{
		"username": "admin", "email": "other@hotel.example", "password": "user-pass",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: status %d", rec.Code)
	}

	rec = e.do(t, "POST", "/api/v1/auth/register", "", map[string]string{"username": "solo"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing fields: status %d", rec.Code)
	}

	// A dangling role id is rejected before the insert.
	orgA := e.createOrg(t, adminTok, "Hotel A")
	rec = e.do(t, "POST", "/api/v1/users", adminTok, map[string]any{
		"username": "ghost", "email": "ghost@hotel.example", "password": "user-pass",
		"role_id": 424242, "organization_id": orgA,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("dangling role id: status %d body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "role not found") {
		t.Fatalf("dangling role id message: %s", rec.Body.String())
	}
}

func TestFirewallOrgMove(t *testing.T) {
	e := newTestEnv(t)
	adminTok, _ := e.login(t, "admin", "admin-pass")
	orgA := e.createOrg(t, adminTok, "Hotel A")
	orgB := e.createOrg(t, adminTok, "Hotel B")
	typeID := e.firewallTypeID(t)

	rec := e.do(t, "POST", "/api/v1/firewalls", adminTok, map[string]any{
		"name": "edge", "firewall_type_id": typeID, "organization_id": orgA, "host": "10.0.0.1",
	})
	var fw store.FirewallConfig
	json.Unmarshal(rec.Body.Bytes(), &fw)

	// Super admins move firewalls between organizations.
	rec = e.do(t, "PUT", fmt.Sprintf("/api/v1/firewalls/%d", fw.ID), adminTok, map[string]any{"organization_id": orgB})
	if rec.Code != http.StatusOK {
		t.Fatalf("move firewall: status %d body %s", rec.Code, rec.Body.String())
	}
	moved, err := store.NewFirewallsStore(e.db, e.srv.encryptor).Get(context.Background(), fw.ID)
	if err != nil || moved == nil {
		t.Fatalf("reload firewall: %v", err)
	}
	if moved.OrganizationID != orgB {
		t.Fatalf("firewall still in org %d", moved.OrganizationID)
	}

	// Tenant admins cannot.
	e.createUser(t, adminTok, "manager-b", e.roleID(t, rbac.RoleOrganizationAdmin), orgB)
	tok, _ := e.login(t, "manager-b", "user-pass")
	rec = e.do(t, "PUT", fmt.Sprintf("/api/v1/firewalls/%d", fw.ID), tok, map[string]any{"organization_id": orgA})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("tenant admin moves firewall: status %d body %s", rec.Code, rec.Body.String())
	}

	// Moving to an unknown organization is refused.
	rec = e.do(t, "PUT", fmt.Sprintf("/api/v1/firewalls/%d", fw.ID), adminTok, map[string]any{"organization_id": 99999})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("move to unknown org: status %d", rec.Code)
	}
}
