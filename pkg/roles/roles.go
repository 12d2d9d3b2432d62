package roles

// Role represents a user's access role.
// The role set is closed: any value outside the declared constants is invalid
// and must be rejected before use.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// Default is the role assigned when no explicit role exists.
// Every fallback path (missing record, failed read, absent claim) resolves
// to this lowest-privilege role, never to elevated access.
const Default = RoleStaff

// permissionLevels orders roles by privilege. Higher means more privileged.
var permissionLevels = map[Role]int{
	RoleStaff:   1,
	RoleManager: 2,
	RoleAdmin:   3,
}

// PermissionLevel returns the numeric privilege level for a role.
// Unknown roles map to 0, below every valid role.
func PermissionLevel(r Role) int {
	return permissionLevels[r]
}

// HasPermission reports whether userRole satisfies requiredRole.
// The relation is reflexive and transitive over the role hierarchy.
func HasPermission(userRole, requiredRole Role) bool {
	return PermissionLevel(userRole) >= PermissionLevel(requiredRole)
}

// IsValid reports whether the value belongs to the closed role set.
func IsValid(r Role) bool {
	_, ok := permissionLevels[r]
	return ok
}

// Parse validates an arbitrary string against the closed role set.
// Returns ErrInvalidRole for any value outside it, including the empty string.
func Parse(s string) (Role, error) {
	r := Role(s)
	if !IsValid(r) {
		return "", ErrInvalidRole
	}
	return r, nil
}

// All returns the closed role set ordered by ascending privilege.
func All() []Role {
	return []Role{RoleStaff, RoleManager, RoleAdmin}
}
