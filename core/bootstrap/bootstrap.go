package bootstrap

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/Ayavuzer/manushotspot/config"
	"github.com/Ayavuzer/manushotspot/core/auth"
	"github.com/Ayavuzer/manushotspot/core/rbac"
	"github.com/Ayavuzer/manushotspot/core/utils"
)

var permissionDescriptions = map[string]string{
	rbac.PermUserView:                    "View users",
	rbac.PermUserCreate:                  "Create users",
	rbac.PermUserEdit:                    "Edit users",
	rbac.PermUserDelete:                  "Deactivate users",
	rbac.PermOrganizationView:            "View organizations",
	rbac.PermOrganizationCreate:          "Create organizations",
	rbac.PermOrganizationEdit:            "Edit organizations",
	rbac.PermOrganizationDelete:          "Deactivate organizations",
	rbac.PermFirewallView:                "View firewall configurations",
	rbac.PermFirewallCreate:              "Create firewall configurations",
	rbac.PermFirewallEdit:                "Edit firewall configurations",
	rbac.PermFirewallDelete:              "Deactivate firewall configurations",
	rbac.PermLogView:                     "View firewall logs",
	rbac.PermLogExport:                   "Export firewall logs",
	rbac.PermAssignUserToOrganization:    "Assign users to organizations",
}

var defaultFirewallTypes = map[string]string{
	"fortigate": "Fortinet FortiGate",
	"mikrotik":  "MikroTik RouterOS",
	"pfsense":   "Netgate pfSense",
	"cisco_asa": "Cisco ASA",
}

var defaultAuthMethods = map[string]string{
	"sms":     "SMS one-time code",
	"email":   "Email one-time code",
	"voucher": "Printed voucher code",
	"pms":     "Hotel PMS room verification",
	"social":  "Social login",
}

// Seed brings the catalog tables and the super admin account into their
// expected state. It runs inside one transaction and is idempotent, so it
// is safe on every startup.
func Seed(ctx context.Context, db *sql.DB, cfg *config.AppConfig, logger *utils.Logger) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	permIDs := map[string]int64{}
	for _, name := range rbac.AllPermissions {
		id, err := ensureRow(ctx, tx, "permissions", name, permissionDescriptions[name])
		if err != nil {
			return err
		}
		permIDs[name] = id
	}

	roleIDs := map[string]int64{}
	for roleName, grants := range rbac.BuiltinRolePermissions {
		roleID, err := ensureRow(ctx, tx, "roles", roleName, "")
		if err != nil {
			return err
		}
		roleIDs[roleName] = roleID
		for _, perm := range grants {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO role_permissions(role_id, permission_id) VALUES(?,?)`,
				roleID, permIDs[perm]); err != nil {
				return err
			}
		}
	}

	for name, desc := range defaultFirewallTypes {
		if _, err := ensureRow(ctx, tx, "firewall_types", name, desc); err != nil {
			return err
		}
	}
	for name, desc := range defaultAuthMethods {
		if _, err := ensureRow(ctx, tx, "auth_methods", name, desc); err != nil {
			return err
		}
	}

	if err := ensureSuperAdmin(ctx, tx, cfg, roleIDs[rbac.RoleSuperAdmin], logger); err != nil {
		return err
	}
	return tx.Commit()
}

func ensureSuperAdmin(ctx context.Context, tx *sql.Tx, cfg *config.AppConfig, roleID int64, logger *utils.Logger) error {
	username := strings.TrimSpace(cfg.Bootstrap.AdminUsername)
	if username == "" {
		username = "admin"
	}
	email := strings.TrimSpace(cfg.Bootstrap.AdminEmail)
	if email == "" {
		email = "admin@localhost"
	}
	var existing int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM users WHERE username=?`, username).Scan(&existing)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return err
	}
	password := cfg.Bootstrap.AdminPassword
	if password == "" {
		// Dev convenience only; config validation rejects this in production.
		password = "admin"
	}
	ph := auth.MustHashPassword(password, cfg.Pepper)
	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO users(username, email, password_hash, salt, role_id, is_super_admin, organization_id, is_active, created_at, updated_at)
		VALUES(?,?,?,?,?,?,NULL,?,?,?)`,
		username, email, ph.Hash, ph.Salt, roleID, true, true, now, now)
	if err == nil && logger != nil {
		logger.Printf("super admin %q created", username)
	}
	return err
}

func ensureRow(ctx context.Context, tx *sql.Tx, table, name, description string) (int64, error) {
	var id int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM `+table+` WHERE name=?`, name).Scan(&id); err == nil {
		return id, nil
	} else if err != sql.ErrNoRows {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO `+table+`(name, description) VALUES(?,?)`, name, description)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
