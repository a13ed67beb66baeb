package constant

const (
	RoleAdmin        = "admin"
	RoleClinician    = "clinician"
	RoleNurse        = "nurse"
	RoleReceptionist = "receptionist"

	DefaultUserRole = RoleReceptionist
)

var roles = map[string]struct{}{
	RoleAdmin:        {},
	RoleClinician:    {},
	RoleNurse:        {},
	RoleReceptionist: {},
}

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role string) bool {
	_, ok := roles[role]
	return ok
}
