package model

type Role int

const (
	RoleUnauthorized Role = iota
	RoleAuthorized
	RoleAdmin
)

// Satisfies reports whether r is allowed to run something that requires the given role.
func (r Role) Satisfies(required Role) bool {
	return r >= required
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleAuthorized:
		return "authorized"
	default:
		return "unauthorized"
	}
}
