package constants

// Role is the flat role attached to every user account.
type Role string

const (
	RoleUser        Role = "ROLE_USER"
	RoleStoreKeeper Role = "ROLE_STORE_KEEPER"
	RoleAdmin       Role = "ROLE_ADMIN"
	RoleCompta      Role = "ROLE_COMPTA"
)

// AllRoles lists every declared role, used to validate stored values.
var AllRoles = []Role{RoleUser, RoleStoreKeeper, RoleAdmin, RoleCompta}

// IsValidRole reports whether s names a declared role.
func IsValidRole(s string) bool {
	for _, r := range AllRoles {
		if string(r) == s {
			return true
		}
	}
	return false
}

// RoleIn reports whether role is a member of the allowed set. Routes are
// gated with ad hoc allowed-role lists; this is the single tie-break.
func RoleIn(role Role, allowed []Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
