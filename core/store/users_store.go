package store

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

type UsersStore interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	Get(ctx context.Context, userID int64) (*User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	Create(ctx context.Context, user *User) (int64, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, userID int64, hash, salt string) error
	UpdateLastLogin(ctx context.Context, userID int64, ts time.Time) error
	SetActive(ctx context.Context, userID int64, active bool) error
	AssignOrganization(ctx context.Context, userID int64, orgID *int64) error
	List(ctx context.Context, f UserFilter) ([]UserWithRole, error)
	ListByOrganization(ctx context.Context, orgID int64) ([]UserWithRole, error)
}

type usersStore struct {
	db *sql.DB
}

func NewUsersStore(db *sql.DB) UsersStore {
	return &usersStore{db: db}
}

const userColumns = `id, username, email, password_hash, salt, role_id, is_super_admin, organization_id, is_active, last_login_at, created_at, updated_at`

func (s *usersStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username=?`, username)
	return scanUser(row)
}

func (s *usersStore) Get(ctx context.Context, userID int64) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id=?`, userID)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var orgID sql.NullInt64
	var lastLogin sql.NullTime
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Salt, &u.RoleID,
		&u.IsSuperAdmin, &orgID, &u.IsActive, &lastLogin, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if orgID.Valid {
		u.OrganizationID = &orgID.Int64
	}
	if lastLogin.Valid {
		u.LastLoginAt = &lastLogin.Time
	}
	return &u, nil
}

func (s *usersStore) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM users WHERE username=? OR email=?`, username, email).Scan(&n)
	return n > 0, err
}

func (s *usersStore) Create(ctx context.Context, user *User) (int64, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users(username, email, password_hash, salt, role_id, is_super_admin, organization_id, is_active, last_login_at, created_at, updated_at)
		VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
		user.Username, user.Email, user.PasswordHash, user.Salt, user.RoleID,
		boolToInt(user.IsSuperAdmin), nullableInt64(user.OrganizationID), boolToInt(user.IsActive),
		nullableTime(user.LastLoginAt), now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *usersStore) Update(ctx context.Context, user *User) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET username=?, email=?, role_id=?, is_super_admin=?, organization_id=?, is_active=?, updated_at=?
		WHERE id=?`,
		user.Username, user.Email, user.RoleID, boolToInt(user.IsSuperAdmin),
		nullableInt64(user.OrganizationID), boolToInt(user.IsActive), time.Now().UTC(), user.ID)
	return err
}

func (s *usersStore) UpdatePassword(ctx context.Context, userID int64, hash, salt string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash=?, salt=?, updated_at=? WHERE id=?`,
		hash, salt, time.Now().UTC(), userID)
	return err
}

func (s *usersStore) UpdateLastLogin(ctx context.Context, userID int64, ts time.Time) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET last_login_at=? WHERE id=?`, ts.UTC(), userID)
	return err
}

func (s *usersStore) SetActive(ctx context.Context, userID int64, active bool) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET is_active=?, updated_at=? WHERE id=?`,
		boolToInt(active), time.Now().UTC(), userID)
	return err
}

func (s *usersStore) AssignOrganization(ctx context.Context, userID int64, orgID *int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET organization_id=?, updated_at=? WHERE id=?`,
		nullableInt64(orgID), time.Now().UTC(), userID)
	return err
}

func (s *usersStore) List(ctx context.Context, f UserFilter) ([]UserWithRole, error) {
	where := []string{}
	args := []any{}
	if f.OrganizationID != nil {
		where = append(where, "u.organization_id=?")
		args = append(args, *f.OrganizationID)
	}
	if !f.IncludeInactive {
		where = append(where, "u.is_active=?")
		args = append(args, boolToInt(true))
	}
	query := `
		SELECT u.id, u.username, u.email, u.password_hash, u.salt, u.role_id, u.is_super_admin,
		       u.organization_id, u.is_active, u.last_login_at, u.created_at, u.updated_at,
		       r.name, o.name
		FROM users u
		INNER JOIN roles r ON r.id=u.role_id
		LEFT JOIN organizations o ON o.id=u.organization_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY u.username"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []UserWithRole
	for rows.Next() {
		var u UserWithRole
		var orgID sql.NullInt64
		var lastLogin sql.NullTime
		var orgName sql.NullString
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Salt, &u.RoleID,
			&u.IsSuperAdmin, &orgID, &u.IsActive, &lastLogin, &u.CreatedAt, &u.UpdatedAt,
			&u.RoleName, &orgName); err != nil {
			return nil, err
		}
		if orgID.Valid {
			u.OrganizationID = &orgID.Int64
		}
		if lastLogin.Valid {
			u.LastLoginAt = &lastLogin.Time
		}
		if orgName.Valid {
			u.OrganizationName = &orgName.String
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

func (s *usersStore) ListByOrganization(ctx context.Context, orgID int64) ([]UserWithRole, error) {
	return s.List(ctx, UserFilter{OrganizationID: &orgID})
}
