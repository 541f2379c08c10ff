package store

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

const defaultLogLimit = 100

type FirewallLogsStore interface {
	Insert(ctx context.Context, log *FirewallLog) (int64, error)
	Query(ctx context.Context, f LogFilter) ([]FirewallLogEntry, error)
}

type firewallLogsStore struct {
	db *sql.DB
}

func NewFirewallLogsStore(db *sql.DB) FirewallLogsStore {
	return &firewallLogsStore{db: db}
}

func (s *firewallLogsStore) Insert(ctx context.Context, log *FirewallLog) (int64, error) {
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO firewall_logs(firewall_config_id, organization_id, log_type, source_ip, destination_ip, source_port, destination_port, protocol, action, message, timestamp, created_at)
		VALUES(?,?,?,?,?,?,?,?,?,?,?,?)`,
		log.FirewallConfigID, log.OrganizationID, log.LogType, log.SourceIP, log.DestinationIP,
		log.SourcePort, log.DestinationPort, log.Protocol, log.Action, log.Message,
		log.Timestamp.UTC(), time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Query returns newest-first log rows joined with firewall and organization
// names. Date bounds are inclusive on both ends; giving only one bound
// filters on that side alone.
func (s *firewallLogsStore) Query(ctx context.Context, f LogFilter) ([]FirewallLogEntry, error) {
	where := []string{}
	args := []any{}
	if f.OrganizationID != nil {
		where = append(where, "l.organization_id=?")
		args = append(args, *f.OrganizationID)
	}
	if f.FirewallConfigID != nil {
		where = append(where, "l.firewall_config_id=?")
		args = append(args, *f.FirewallConfigID)
	}
	if strings.TrimSpace(f.LogType) != "" {
		where = append(where, "l.log_type=?")
		args = append(args, strings.TrimSpace(f.LogType))
	}
	switch {
	case f.StartDate != nil && f.EndDate != nil:
		where = append(where, "l.timestamp>=? AND l.timestamp<=?")
		args = append(args, f.StartDate.UTC(), f.EndDate.UTC())
	case f.StartDate != nil:
		where = append(where, "l.timestamp>=?")
		args = append(args, f.StartDate.UTC())
	case f.EndDate != nil:
		where = append(where, "l.timestamp<=?")
		args = append(args, f.EndDate.UTC())
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultLogLimit
	}

	query := `
		SELECT l.id, l.firewall_config_id, l.organization_id, l.log_type, l.source_ip, l.destination_ip,
		       l.source_port, l.destination_port, l.protocol, l.action, l.message,
		       l.timestamp, l.created_at, fc.name, o.name
		FROM firewall_logs l
		INNER JOIN firewall_configs fc ON fc.id=l.firewall_config_id
		INNER JOIN organizations o ON o.id=l.organization_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY l.timestamp DESC LIMIT ?"
	args = append(args, limit)
	if f.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, f.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []FirewallLogEntry
	for rows.Next() {
		var e FirewallLogEntry
		if err := rows.Scan(&e.ID, &e.FirewallConfigID, &e.OrganizationID, &e.LogType, &e.SourceIP, &e.DestinationIP,
			&e.SourcePort, &e.DestinationPort, &e.Protocol, &e.Action, &e.Message,
			&e.Timestamp, &e.CreatedAt, &e.FirewallName, &e.OrganizationName); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}
