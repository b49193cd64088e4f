package authz

const (
	RoleUser    = "user"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// Permission flag names as they appear in API payloads.
const (
	PermAdd           = "canAdd"
	PermEdit          = "canEdit"
	PermDelete        = "canDelete"
	PermViewTeam      = "canViewTeam"
	PermManageUsers   = "canManageUsers"
	PermExport        = "canExport"
	PermAccessReports = "canAccessReports"
)

func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	}
	return false
}

func IsElevated(role string) bool {
	return role == RoleManager || role == RoleAdmin
}
