package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Ayavuzer/manushotspot/core/store"
)

const exportLimit = 10000

var csvHeader = []string{
	"ID", "Firewall Name", "Organization", "Log Type",
	"Source IP", "Destination IP", "Source Port", "Destination Port",
	"Protocol", "Action", "Message", "Timestamp",
}

func (a *API) ListFirewallLogs(w http.ResponseWriter, r *http.Request) {
	f, err := logFilterFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	entries, err := a.Logs.Query(r.Context(), f)
	if err != nil {
		a.serverError(w, "list firewall logs", err)
		return
	}
	if entries == nil {
		entries = []store.FirewallLogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

type addLogRequest struct {
	FirewallConfigID int64  `json:"firewall_config_id"`
	LogType          string `json:"log_type"`
	SourceIP         string `json:"source_ip"`
	DestinationIP    string `json:"destination_ip"`
	SourcePort       int    `json:"source_port"`
	DestinationPort  int    `json:"destination_port"`
	Protocol         string `json:"protocol"`
	Action           string `json:"action"`
	Message          string `json:"message"`
	Timestamp        string `json:"timestamp"`
}

func (a *API) AddFirewallLog(w http.ResponseWriter, r *http.Request) {
	var req addLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FirewallConfigID <= 0 {
		writeError(w, http.StatusBadRequest, "firewall_config_id is required")
		return
	}
	fw, err := a.Firewalls.Get(r.Context(), req.FirewallConfigID)
	if err != nil {
		a.serverError(w, "add firewall log", err)
		return
	}
	if fw == nil || !canAccessOrg(r.Context(), fw.OrganizationID) {
		writeError(w, http.StatusNotFound, "firewall not found")
		return
	}
	log := &store.FirewallLog{
		FirewallConfigID: req.FirewallConfigID,
		OrganizationID:   fw.OrganizationID,
		LogType:          req.LogType,
		SourceIP:         req.SourceIP,
		DestinationIP:    req.DestinationIP,
		SourcePort:       req.SourcePort,
		DestinationPort:  req.DestinationPort,
		Protocol:         req.Protocol,
		Action:           req.Action,
		Message:          req.Message,
	}
	if req.Timestamp != "" {
		ts, err := parseLogDate(req.Timestamp)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid timestamp")
			return
		}
		log.Timestamp = ts
	}
	id, err := a.Logs.Insert(r.Context(), log)
	if err != nil {
		a.serverError(w, "add firewall log", err)
		return
	}
	log.ID = id
	writeJSON(w, http.StatusCreated, log)
}

// ExportFirewallLogs streams the current filter result as CSV (default) or
// JSON. Timestamps are ISO 8601 in UTC.
func (a *API) ExportFirewallLogs(w http.ResponseWriter, r *http.Request) {
	f, err := logFilterFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	f.Limit = exportLimit
	f.Offset = 0
	entries, err := a.Logs.Query(r.Context(), f)
	if err != nil {
		a.serverError(w, "export firewall logs", err)
		return
	}

	stamp := time.Now().UTC().Format("20060102-150405")
	if r.URL.Query().Get("format") == "json" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=firewall-logs-%s.json", stamp))
		if entries == nil {
			entries = []store.FirewallLogEntry{}
		}
		writeJSON(w, http.StatusOK, entries)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=firewall-logs-%s.csv", stamp))
	cw := csv.NewWriter(w)
	_ = cw.Write(csvHeader)
	for _, e := range entries {
		_ = cw.Write([]string{
			strconv.FormatInt(e.ID, 10),
			e.FirewallName,
			e.OrganizationName,
			e.LogType,
			e.SourceIP,
			e.DestinationIP,
			strconv.Itoa(e.SourcePort),
			strconv.Itoa(e.DestinationPort),
			e.Protocol,
			e.Action,
			e.Message,
			e.Timestamp.UTC().Format(time.RFC3339),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil && a.Logger != nil {
		a.Logger.Errorf("export firewall logs: %v", err)
	}
}

func logFilterFromRequest(r *http.Request) (store.LogFilter, error) {
	q := r.URL.Query()
	f := store.LogFilter{
		OrganizationID: OrgScopeFromContext(r.Context()),
		LogType:        q.Get("log_type"),
	}
	if raw := strings.TrimSpace(q.Get("firewall_config_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return f, fmt.Errorf("invalid firewall_config_id")
		}
		f.FirewallConfigID = &id
	}
	if raw := strings.TrimSpace(q.Get("start_date")); raw != "" {
		ts, err := parseLogDate(raw)
		if err != nil {
			return f, fmt.Errorf("invalid start_date")
		}
		f.StartDate = &ts
	}
	if raw := strings.TrimSpace(q.Get("end_date")); raw != "" {
		ts, err := parseLogDate(raw)
		if err != nil {
			return f, fmt.Errorf("invalid end_date")
		}
		// A bare date means the whole day.
		if len(raw) == len("2006-01-02") {
			ts = ts.Add(24*time.Hour - time.Nanosecond)
		}
		f.EndDate = &ts
	}
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return f, fmt.Errorf("invalid limit")
		}
		f.Limit = n
	}
	if raw := strings.TrimSpace(q.Get("offset")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return f, fmt.Errorf("invalid offset")
		}
		f.Offset = n
	}
	return f, nil
}

func parseLogDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}
