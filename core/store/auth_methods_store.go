package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/Ayavuzer/manushotspot/core/utils"
)

// secretConfigKeys are the per-method config fields encrypted at rest.
var secretConfigKeys = map[string]bool{
	"api_key":  true,
	"secret":   true,
	"password": true,
}

type AuthMethodsStore interface {
	Methods(ctx context.Context) ([]AuthMethod, error)
	EnsureMethod(ctx context.Context, name, description string) (int64, error)
	ListForOrganization(ctx context.Context, orgID int64) ([]OrganizationAuthMethod, error)
	Upsert(ctx context.Context, m *OrganizationAuthMethod) (int64, error)
	SetEnabled(ctx context.Context, orgID, methodID int64, enabled bool) error
}

type authMethodsStore struct {
	db  *sql.DB
	enc *utils.Encryptor
}

func NewAuthMethodsStore(db *sql.DB, enc *utils.Encryptor) AuthMethodsStore {
	return &authMethodsStore{db: db, enc: enc}
}

func (s *authMethodsStore) Methods(ctx context.Context) ([]AuthMethod, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, description FROM auth_methods ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []AuthMethod
	for rows.Next() {
		var m AuthMethod
		if err := rows.Scan(&m.ID, &m.Name, &m.Description); err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

func (s *authMethodsStore) EnsureMethod(ctx context.Context, name, description string) (int64, error) {
	var id int64
	if err := s.db.QueryRowContext(ctx, `SELECT id FROM auth_methods WHERE name=?`, name).Scan(&id); err == nil {
		return id, nil
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO auth_methods(name, description) VALUES(?,?)`, name, description)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *authMethodsStore) ListForOrganization(ctx context.Context, orgID int64) ([]OrganizationAuthMethod, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, organization_id, auth_method_id, is_enabled, config, created_at, updated_at
		FROM organization_auth_methods WHERE organization_id=? ORDER BY auth_method_id`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []OrganizationAuthMethod
	for rows.Next() {
		var m OrganizationAuthMethod
		var raw string
		if err := rows.Scan(&m.ID, &m.OrganizationID, &m.AuthMethodID, &m.IsEnabled, &raw, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		if m.Config, err = s.decodeConfig(raw); err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

func (s *authMethodsStore) Upsert(ctx context.Context, m *OrganizationAuthMethod) (int64, error) {
	raw, err := s.encodeConfig(m.Config)
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC()

	var existing int64
	err = s.db.QueryRowContext(ctx,
		`SELECT id FROM organization_auth_methods WHERE organization_id=? AND auth_method_id=?`,
		m.OrganizationID, m.AuthMethodID).Scan(&existing)
	if err == nil {
		_, err = s.db.ExecContext(ctx,
			`UPDATE organization_auth_methods SET is_enabled=?, config=?, updated_at=? WHERE id=?`,
			boolToInt(m.IsEnabled), raw, now, existing)
		return existing, err
	}
	if err != sql.ErrNoRows {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO organization_auth_methods(organization_id, auth_method_id, is_enabled, config, created_at, updated_at)
		VALUES(?,?,?,?,?,?)`,
		m.OrganizationID, m.AuthMethodID, boolToInt(m.IsEnabled), raw, now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *authMethodsStore) SetEnabled(ctx context.Context, orgID, methodID int64, enabled bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE organization_auth_methods SET is_enabled=?, updated_at=? WHERE organization_id=? AND auth_method_id=?`,
		boolToInt(enabled), time.Now().UTC(), orgID, methodID)
	return err
}

func (s *authMethodsStore) encodeConfig(cfg map[string]any) (string, error) {
	if cfg == nil {
		return "{}", nil
	}
	out := make(map[string]any, len(cfg))
	for k, v := range cfg {
		if secretConfigKeys[k] {
			str, ok := v.(string)
			if !ok {
				out[k] = v
				continue
			}
			enc, err := s.enc.EncryptString(str)
			if err != nil {
				return "", err
			}
			out[k] = enc
			continue
		}
		out[k] = v
	}
	b, err := json.Marshal(out)
	return string(b), err
}

func (s *authMethodsStore) decodeConfig(raw string) (map[string]any, error) {
	if raw == "" || raw == "{}" {
		return nil, nil
	}
	var cfg map[string]any
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, err
	}
	for k, v := range cfg {
		if !secretConfigKeys[k] {
			continue
		}
		str, ok := v.(string)
		if !ok {
			continue
		}
		plain, err := s.enc.DecryptString(str)
		if err != nil {
			return nil, err
		}
		cfg[k] = plain
	}
	return cfg, nil
}
