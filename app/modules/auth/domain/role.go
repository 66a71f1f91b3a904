package authdomain

// Role represents a caller's role within a tournament.
type Role string

const (
	RoleViewer Role = "viewer"
	RolePlayer Role = "player"
	RoleAdmin  Role = "admin"
)

// IsValid checks if the role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleViewer, RolePlayer, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanAdminister reports whether the role may bypass round locks and manage the tournament.
func (r Role) CanAdminister() bool {
	return r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}
