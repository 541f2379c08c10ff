package store

import (
	"context"
	"database/sql"
)

type RolesStore interface {
	Get(ctx context.Context, id int64) (*Role, error)
	GetByName(ctx context.Context, name string) (*Role, error)
	List(ctx context.Context) ([]Role, error)
	EnsureRole(ctx context.Context, name, description string) (int64, error)
	Permissions(ctx context.Context) ([]Permission, error)
	EnsurePermission(ctx context.Context, name, description string) (int64, error)
	RolePermissions(ctx context.Context, roleID int64) ([]string, error)
	GrantPermission(ctx context.Context, roleID, permissionID int64) error
	// RolePermissionPairs returns every (role name, permission name)
	// assignment for policy sync.
	RolePermissionPairs(ctx context.Context) ([][2]string, error)
}

type rolesStore struct {
	db *sql.DB
}

func NewRolesStore(db *sql.DB) RolesStore {
	return &rolesStore{db: db}
}

func (s *rolesStore) Get(ctx context.Context, id int64) (*Role, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, description FROM roles WHERE id=?`, id)
	return scanRole(row)
}

func (s *rolesStore) GetByName(ctx context.Context, name string) (*Role, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, description FROM roles WHERE name=?`, name)
	return scanRole(row)
}

func scanRole(row *sql.Row) (*Role, error) {
	var r Role
	if err := row.Scan(&r.ID, &r.Name, &r.Description); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

func (s *rolesStore) List(ctx context.Context) ([]Role, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, description FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Role
	for rows.Next() {
		var r Role
		if err := rows.Scan(&r.ID, &r.Name, &r.Description); err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	return res, rows.Err()
}

func (s *rolesStore) EnsureRole(ctx context.Context, name, description string) (int64, error) {
	var id int64
	if err := s.db.QueryRowContext(ctx, `SELECT id FROM roles WHERE name=?`, name).Scan(&id); err == nil {
		return id, nil
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO roles(name, description) VALUES(?,?)`, name, description)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *rolesStore) Permissions(ctx context.Context) ([]Permission, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, description FROM permissions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Permission
	for rows.Next() {
		var p Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.Description); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (s *rolesStore) EnsurePermission(ctx context.Context, name, description string) (int64, error) {
	var id int64
	if err := s.db.QueryRowContext(ctx, `SELECT id FROM permissions WHERE name=?`, name).Scan(&id); err == nil {
		return id, nil
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO permissions(name, description) VALUES(?,?)`, name, description)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *rolesStore) RolePermissions(ctx context.Context, roleID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.name FROM permissions p
		INNER JOIN role_permissions rp ON rp.permission_id=p.id
		WHERE rp.role_id=? ORDER BY p.name`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		res = append(res, name)
	}
	return res, rows.Err()
}

func (s *rolesStore) GrantPermission(ctx context.Context, roleID, permissionID int64) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO role_permissions(role_id, permission_id) VALUES(?,?)`,
		roleID, permissionID)
	return err
}

func (s *rolesStore) RolePermissionPairs(ctx context.Context) ([][2]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.name, p.name FROM role_permissions rp
		INNER JOIN roles r ON r.id=rp.role_id
		INNER JOIN permissions p ON p.id=rp.permission_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res [][2]string
	for rows.Next() {
		var pair [2]string
		if err := rows.Scan(&pair[0], &pair[1]); err != nil {
			return nil, err
		}
		res = append(res, pair)
	}
	return res, rows.Err()
}
