package store

import "time"

type Organization struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	ContactEmail string     `json:"contact_email,omitempty"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type Role struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Permission struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// User carries credentials only inside the store and service layers; API
// responses go through a sanitized view that drops PasswordHash and Salt.
type User struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"`
	Salt           string     `json:"-"`
	RoleID         int64      `json:"role_id"`
	IsSuperAdmin   bool       `json:"is_super_admin"`
	OrganizationID *int64     `json:"organization_id"`
	IsActive       bool       `json:"is_active"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type UserWithRole struct {
	User
	RoleName         string  `json:"role_name,omitempty"`
	OrganizationName *string `json:"organization_name,omitempty"`
}

type FirewallType struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// FirewallConfig holds device connection settings. Password and APIKey are
// stored encrypted; the store decrypts on read so callers always see
// plaintext, and handlers decide what to expose.
type FirewallConfig struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	FirewallTypeID int64     `json:"firewall_type_id"`
	OrganizationID int64     `json:"organization_id"`
	Host           string    `json:"host"`
	Port           int       `json:"port"`
	Username       string    `json:"username,omitempty"`
	Password       string    `json:"-"`
	APIKey         string    `json:"-"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type FirewallLog struct {
	ID               int64     `json:"id"`
	FirewallConfigID int64     `json:"firewall_config_id"`
	OrganizationID   int64     `json:"organization_id"`
	LogType          string    `json:"log_type"`
	SourceIP         string    `json:"source_ip,omitempty"`
	DestinationIP    string    `json:"destination_ip,omitempty"`
	SourcePort       int       `json:"source_port,omitempty"`
	DestinationPort  int       `json:"destination_port,omitempty"`
	Protocol         string    `json:"protocol,omitempty"`
	Action           string    `json:"action,omitempty"`
	Message          string    `json:"message,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
	CreatedAt        time.Time `json:"created_at"`
}

// FirewallLogEntry is a log row joined with the names used by list views
// and the CSV export.
type FirewallLogEntry struct {
	FirewallLog
	FirewallName     string `json:"firewall_name"`
	OrganizationName string `json:"organization_name"`
}

type PMSIntegration struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	Provider       string    `json:"provider"`
	Endpoint       string    `json:"endpoint"`
	Username       string    `json:"username,omitempty"`
	Password       string    `json:"-"`
	APIKey         string    `json:"-"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type AuthMethod struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// OrganizationAuthMethod enables a captive-portal sign-in method for one
// tenant. Config is a JSON object whose secret keys are encrypted at rest.
type OrganizationAuthMethod struct {
	ID             int64          `json:"id"`
	OrganizationID int64          `json:"organization_id"`
	AuthMethodID   int64          `json:"auth_method_id"`
	IsEnabled      bool           `json:"is_enabled"`
	Config         map[string]any `json:"config,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// LogFilter narrows firewall log queries. A nil OrganizationID means no
// tenant restriction (super admin); handlers set it from the request context.
type LogFilter struct {
	OrganizationID   *int64
	FirewallConfigID *int64
	LogType          string
	StartDate        *time.Time
	EndDate          *time.Time
	Limit            int
	Offset           int
}

type UserFilter struct {
	OrganizationID  *int64
	IncludeInactive bool
}
