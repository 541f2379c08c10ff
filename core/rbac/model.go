package rbac

// Permission names. These are stable identifiers referenced by route
// guards; renaming one is a breaking change for stored role grants.
const (
	PermUserView   = "user_view"
	PermUserCreate = "user_create"
	PermUserEdit   = "user_edit"
	PermUserDelete = "user_delete"

	PermOrganizationView   = "organization_view"
	PermOrganizationCreate = "organization_create"
	PermOrganizationEdit   = "organization_edit"
	PermOrganizationDelete = "organization_delete"

	PermFirewallView   = "firewall_view"
	PermFirewallCreate = "firewall_create"
	PermFirewallEdit   = "firewall_edit"
	PermFirewallDelete = "firewall_delete"

	PermLogView   = "log_view"
	PermLogExport = "log_export"

	PermAssignUserToOrganization = "assign_user_to_organization"
)

const (
	RoleSuperAdmin        = "Super Admin"
	RoleOrganizationAdmin = "Organization Admin"
	RoleUser              = "User"
)

// AllPermissions is the full catalog seeded at bootstrap.
var AllPermissions = []string{
	PermUserView, PermUserCreate, PermUserEdit, PermUserDelete,
	PermOrganizationView, PermOrganizationCreate, PermOrganizationEdit, PermOrganizationDelete,
	PermFirewallView, PermFirewallCreate, PermFirewallEdit, PermFirewallDelete,
	PermLogView, PermLogExport,
	PermAssignUserToOrganization,
}

// BuiltinRolePermissions defines the default grants seeded at bootstrap.
// Admins may grant more later; these are only the starting point.
var BuiltinRolePermissions = map[string][]string{
	RoleSuperAdmin: AllPermissions,
	RoleOrganizationAdmin: {
		PermUserView, PermUserCreate, PermUserEdit, PermUserDelete,
		PermOrganizationView,
		PermFirewallView, PermFirewallCreate, PermFirewallEdit, PermFirewallDelete,
		PermLogView, PermLogExport,
		PermAssignUserToOrganization,
	},
	RoleUser: {
		PermFirewallView,
		PermLogView,
	},
}
