package domain

// Role is the closed set of console roles governing route access.
type Role string

const (
	RoleSuperAdmin   Role = "SUPER_ADMIN"
	RoleProjectAdmin Role = "PROJECT_ADMIN"
)

const superAdminUsername = "superadmin"

// Valid reports whether r is one of the known console roles.
func (r Role) Valid() bool {
	return r == RoleSuperAdmin || r == RoleProjectAdmin
}

// ResolveIdentity derives the console identity from the submitted username.
// The backend never asserts a role on the token endpoint, so the mapping is
// fixed: "superadmin" is the only super admin.
func ResolveIdentity(username string) Identity {
	if username == superAdminUsername {
		return Identity{Username: username, Role: RoleSuperAdmin, DisplayName: "Super Admin"}
	}
	return Identity{Username: username, Role: RoleProjectAdmin, DisplayName: "Project Admin"}
}

// RoleAllowed reports whether role is permitted by allowed.
// An empty allow-list admits every role.
func RoleAllowed(role Role, allowed []Role) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
