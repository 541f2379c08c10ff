package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/Ayavuzer/manushotspot/core/utils"
)

type PMSIntegrationsStore interface {
	Get(ctx context.Context, id int64) (*PMSIntegration, error)
	List(ctx context.Context, orgID *int64) ([]PMSIntegration, error)
	Create(ctx context.Context, p *PMSIntegration) (int64, error)
	Update(ctx context.Context, p *PMSIntegration) error
	SetActive(ctx context.Context, id int64, active bool) error
}

type pmsStore struct {
	db  *sql.DB
	enc *utils.Encryptor
}

func NewPMSIntegrationsStore(db *sql.DB, enc *utils.Encryptor) PMSIntegrationsStore {
	return &pmsStore{db: db, enc: enc}
}

const pmsColumns = `id, organization_id, provider, endpoint, username, password_enc, api_key_enc, is_active, created_at, updated_at`

func (s *pmsStore) Get(ctx context.Context, id int64) (*PMSIntegration, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+pmsColumns+` FROM pms_integrations WHERE id=?`, id)
	var p PMSIntegration
	var passEnc, keyEnc string
	if err := row.Scan(&p.ID, &p.OrganizationID, &p.Provider, &p.Endpoint, &p.Username, &passEnc, &keyEnc, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if err := s.decryptInto(&p, passEnc, keyEnc); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *pmsStore) List(ctx context.Context, orgID *int64) ([]PMSIntegration, error) {
	query := `SELECT ` + pmsColumns + ` FROM pms_integrations`
	args := []any{}
	if orgID != nil {
		query += ` WHERE organization_id=?`
		args = append(args, *orgID)
	}
	query += ` ORDER BY provider`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []PMSIntegration
	for rows.Next() {
		var p PMSIntegration
		var passEnc, keyEnc string
		if err := rows.Scan(&p.ID, &p.OrganizationID, &p.Provider, &p.Endpoint, &p.Username, &passEnc, &keyEnc, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if err := s.decryptInto(&p, passEnc, keyEnc); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (s *pmsStore) Create(ctx context.Context, p *PMSIntegration) (int64, error) {
	passEnc, keyEnc, err := s.encryptSecrets(p)
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO pms_integrations(organization_id, provider, endpoint, username, password_enc, api_key_enc, is_active, created_at, updated_at)
		VALUES(?,?,?,?,?,?,?,?,?)`,
		p.OrganizationID, p.Provider, p.Endpoint, p.Username, passEnc, keyEnc, boolToInt(p.IsActive), now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *pmsStore) Update(ctx context.Context, p *PMSIntegration) error {
	passEnc, keyEnc, err := s.encryptSecrets(p)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE pms_integrations SET provider=?, endpoint=?, username=?, password_enc=?, api_key_enc=?, is_active=?, updated_at=?
		WHERE id=?`,
		p.Provider, p.Endpoint, p.Username, passEnc, keyEnc, boolToInt(p.IsActive), time.Now().UTC(), p.ID)
	return err
}

func (s *pmsStore) encryptSecrets(p *PMSIntegration) (passEnc, keyEnc string, err error) {
	if passEnc, err = s.enc.EncryptString(p.Password); err != nil {
		return "", "", err
	}
	if keyEnc, err = s.enc.EncryptString(p.APIKey); err != nil {
		return "", "", err
	}
	return passEnc, keyEnc, nil
}

func (s *pmsStore) decryptInto(p *PMSIntegration, passEnc, keyEnc string) error {
	var err error
	if p.Password, err = s.enc.DecryptString(passEnc); err != nil {
		return err
	}
	if p.APIKey, err = s.enc.DecryptString(keyEnc); err != nil {
		return err
	}
	return nil
}

func (s *pmsStore) SetActive(ctx context.Context, id int64, active bool) error {
	_, err := s.db.ExecContext(ctx, `UPDATE pms_integrations SET is_active=?, updated_at=? WHERE id=?`,
		boolToInt(active), time.Now().UTC(), id)
	return err
}
