package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/Ayavuzer/manushotspot/core/utils"
)

type FirewallsStore interface {
	Get(ctx context.Context, id int64) (*FirewallConfig, error)
	List(ctx context.Context, orgID *int64) ([]FirewallConfig, error)
	Create(ctx context.Context, fw *FirewallConfig) (int64, error)
	Update(ctx context.Context, fw *FirewallConfig) error
	SetActive(ctx context.Context, id int64, active bool) error
	Types(ctx context.Context) ([]FirewallType, error)
	EnsureType(ctx context.Context, name, description string) (int64, error)
}

// firewallsStore encrypts device credentials before they touch the database
// and decrypts them on read, so plaintext secrets never land on disk.
type firewallsStore struct {
	db  *sql.DB
	enc *utils.Encryptor
}

func NewFirewallsStore(db *sql.DB, enc *utils.Encryptor) FirewallsStore {
	return &firewallsStore{db: db, enc: enc}
}

const fwColumns = `id, name, firewall_type_id, organization_id, host, port, username, password_enc, api_key_enc, is_active, created_at, updated_at`

func (s *firewallsStore) Get(ctx context.Context, id int64) (*FirewallConfig, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+fwColumns+` FROM firewall_configs WHERE id=?`, id)
	var fw FirewallConfig
	var passEnc, keyEnc string
	if err := row.Scan(&fw.ID, &fw.Name, &fw.FirewallTypeID, &fw.OrganizationID, &fw.Host, &fw.Port,
		&fw.Username, &passEnc, &keyEnc, &fw.IsActive, &fw.CreatedAt, &fw.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if err := s.decryptInto(&fw, passEnc, keyEnc); err != nil {
		return nil, err
	}
	return &fw, nil
}

func (s *firewallsStore) List(ctx context.Context, orgID *int64) ([]FirewallConfig, error) {
	query := `SELECT ` + fwColumns + ` FROM firewall_configs WHERE is_active=?`
	args := []any{boolToInt(true)}
	if orgID != nil {
		query += ` AND organization_id=?`
		args = append(args, *orgID)
	}
	query += ` ORDER BY name`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []FirewallConfig
	for rows.Next() {
		var fw FirewallConfig
		var passEnc, keyEnc string
		if err := rows.Scan(&fw.ID, &fw.Name, &fw.FirewallTypeID, &fw.OrganizationID, &fw.Host, &fw.Port,
			&fw.Username, &passEnc, &keyEnc, &fw.IsActive, &fw.CreatedAt, &fw.UpdatedAt); err != nil {
			return nil, err
		}
		if err := s.decryptInto(&fw, passEnc, keyEnc); err != nil {
			return nil, err
		}
		res = append(res, fw)
	}
	return res, rows.Err()
}

func (s *firewallsStore) decryptInto(fw *FirewallConfig, passEnc, keyEnc string) error {
	var err error
	if fw.Password, err = s.enc.DecryptString(passEnc); err != nil {
		return err
	}
	fw.APIKey, err = s.enc.DecryptString(keyEnc)
	return err
}

func (s *firewallsStore) Create(ctx context.Context, fw *FirewallConfig) (int64, error) {
	passEnc, err := s.enc.EncryptString(fw.Password)
	if err != nil {
		return 0, err
	}
	keyEnc, err := s.enc.EncryptString(fw.APIKey)
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO firewall_configs(name, firewall_type_id, organization_id, host, port, username, password_enc, api_key_enc, is_active, created_at, updated_at)
		VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
		fw.Name, fw.FirewallTypeID, fw.OrganizationID, fw.Host, fw.Port, fw.Username,
		passEnc, keyEnc, boolToInt(fw.IsActive), now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *firewallsStore) Update(ctx context.Context, fw *FirewallConfig) error {
	passEnc, err := s.enc.EncryptString(fw.Password)
	if err != nil {
		return err
	}
	keyEnc, err := s.enc.EncryptString(fw.APIKey)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE firewall_configs
		SET name=?, firewall_type_id=?, organization_id=?, host=?, port=?, username=?, password_enc=?, api_key_enc=?, is_active=?, updated_at=?
		WHERE id=?`,
		fw.Name, fw.FirewallTypeID, fw.OrganizationID, fw.Host, fw.Port, fw.Username,
		passEnc, keyEnc, boolToInt(fw.IsActive), time.Now().UTC(), fw.ID)
	return err
}

func (s *firewallsStore) SetActive(ctx context.Context, id int64, active bool) error {
	_, err := s.db.ExecContext(ctx, `UPDATE firewall_configs SET is_active=?, updated_at=? WHERE id=?`,
		boolToInt(active), time.Now().UTC(), id)
	return err
}

func (s *firewallsStore) Types(ctx context.Context) ([]FirewallType, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, description FROM firewall_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []FirewallType
	for rows.Next() {
		var t FirewallType
		if err := rows.Scan(&t.ID, &t.Name, &t.Description); err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (s *firewallsStore) EnsureType(ctx context.Context, name, description string) (int64, error) {
	var id int64
	if err := s.db.QueryRowContext(ctx, `SELECT id FROM firewall_types WHERE name=?`, name).Scan(&id); err == nil {
		return id, nil
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO firewall_types(name, description) VALUES(?,?)`, name, description)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
