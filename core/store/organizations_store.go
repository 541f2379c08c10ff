package store

import (
	"context"
	"database/sql"
	"time"
)

type OrganizationsStore interface {
	Get(ctx context.Context, id int64) (*Organization, error)
	GetByName(ctx context.Context, name string) (*Organization, error)
	List(ctx context.Context, includeInactive bool) ([]Organization, error)
	Create(ctx context.Context, org *Organization) (int64, error)
	Update(ctx context.Context, org *Organization) error
	SetActive(ctx context.Context, id int64, active bool) error
}

type organizationsStore struct {
	db *sql.DB
}

func NewOrganizationsStore(db *sql.DB) OrganizationsStore {
	return &organizationsStore{db: db}
}

const orgColumns = `id, name, description, contact_email, is_active, created_at, updated_at`

func (s *organizationsStore) Get(ctx context.Context, id int64) (*Organization, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+orgColumns+` FROM organizations WHERE id=?`, id)
	return scanOrganization(row)
}

func (s *organizationsStore) GetByName(ctx context.Context, name string) (*Organization, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+orgColumns+` FROM organizations WHERE name=?`, name)
	return scanOrganization(row)
}

func scanOrganization(row *sql.Row) (*Organization, error) {
	var o Organization
	if err := row.Scan(&o.ID, &o.Name, &o.Description, &o.ContactEmail, &o.IsActive, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (s *organizationsStore) List(ctx context.Context, includeInactive bool) ([]Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations`
	if !includeInactive {
		query += ` WHERE is_active=?`
	}
	query += ` ORDER BY name`
	var rows *sql.Rows
	var err error
	if includeInactive {
		rows, err = s.db.QueryContext(ctx, query)
	} else {
		rows, err = s.db.QueryContext(ctx, query, boolToInt(true))
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Organization
	for rows.Next() {
		var o Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.Description, &o.ContactEmail, &o.IsActive, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, o)
	}
	return res, rows.Err()
}

func (s *organizationsStore) Create(ctx context.Context, org *Organization) (int64, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO organizations(name, description, contact_email, is_active, created_at, updated_at)
		VALUES(?,?,?,?,?,?)`,
		org.Name, org.Description, org.ContactEmail, boolToInt(org.IsActive), now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *organizationsStore) Update(ctx context.Context, org *Organization) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE organizations SET name=?, description=?, contact_email=?, is_active=?, updated_at=?
		WHERE id=?`,
		org.Name, org.Description, org.ContactEmail, boolToInt(org.IsActive), time.Now().UTC(), org.ID)
	return err
}

func (s *organizationsStore) SetActive(ctx context.Context, id int64, active bool) error {
	_, err := s.db.ExecContext(ctx, `UPDATE organizations SET is_active=?, updated_at=? WHERE id=?`,
		boolToInt(active), time.Now().UTC(), id)
	return err
}
