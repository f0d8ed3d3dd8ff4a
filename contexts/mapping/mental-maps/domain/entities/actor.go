package entities

import "strings"

type Role string

const (
	RoleRegular   Role = "regular"
	RoleModerator Role = "moderator"
)

// Actor is the authenticated caller supplied by the identity layer.
type Actor struct {
	ID   string
	Role Role
}

// ParseRole maps a raw role header value onto a known role.
// Anything that is not "moderator" is treated as a regular user.
func ParseRole(raw string) Role {
	if strings.EqualFold(strings.TrimSpace(raw), string(RoleModerator)) {
		return RoleModerator
	}
	return RoleRegular
}

func (a Actor) IsModerator() bool {
	return a.Role == RoleModerator
}
