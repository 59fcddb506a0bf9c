package auth

// Role is the user's role
type Role string

const (
	// RoleUser is a regular account (view, own-resource edits)
	RoleUser Role = "user"
	// RoleModerator can act on other users' resources
	RoleModerator Role = "moderator"
	// RoleAdmin has blanket authorization
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is one of the predefined valid roles
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsPrivileged reports whether the role grants authorization over
// resources the caller does not own.
func (r Role) IsPrivileged() bool {
	switch r {
	case RoleAdmin, RoleModerator:
		return true
	default:
		return false
	}
}

// ParseRole safely parses a string into a Role
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, role.IsValid()
}

// GetAllRoles returns all predefined roles
func GetAllRoles() []Role {
	return []Role{RoleUser, RoleModerator, RoleAdmin}
}

// IsPrivileged reports whether the identity may act on resources it
// does not own.
func IsPrivileged(identity Identity) bool {
	if identity == nil {
		return false
	}
	return identity.Role().IsPrivileged()
}

// IsOwner reports whether the identity owns the resource identified by
// ownerID. Resource lookups resolve before this runs; a missing
// resource is a not-found, never a permission failure.
func IsOwner(identity Identity, ownerID string) bool {
	if identity == nil {
		return false
	}
	return identity.ID() == ownerID
}

// CanMutate is the authorization rule shared by page and post mutation
// endpoints: privileged callers or the resource owner.
func CanMutate(identity Identity, ownerID string) bool {
	return IsPrivileged(identity) || IsOwner(identity, ownerID)
}
