package domain

import "encoding/json"

// RoleAssignment is the principal's membership in a named role.
type RoleAssignment struct {
	RoleName  string `json:"role_name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ScreenPermission grants access to one UI screen. A grant only counts
// while IsValid is true.
type ScreenPermission struct {
	ScreenName string `json:"screen_name"`
	IsValid    bool   `json:"isvalid"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// UserDetails is the profile snapshot returned by /auth/user-details and
// cached next to the bearer token.
type UserDetails struct {
	UserID            string             `json:"user_id"`
	ID                string             `json:"id"`
	Email             string             `json:"email"`
	CreatedAt         string             `json:"created_at"`
	UpdatedAt         string             `json:"updated_at"`
	Attributes        []json.RawMessage  `json:"attributes"`
	Roles             []RoleAssignment   `json:"roles"`
	ScreenPermissions []ScreenPermission `json:"screen_permissions"`
}

// HasPermission reports whether the profile holds a valid grant for screen.
// Names are compared exactly: no case folding, no wildcards.
func (u *UserDetails) HasPermission(screen string) bool {
	if u == nil {
		return false
	}
	for _, p := range u.ScreenPermissions {
		if p.ScreenName == screen && p.IsValid {
			return true
		}
	}
	return false
}

// HasRole reports whether any role assignment is named role.
func (u *UserDetails) HasRole(role string) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r.RoleName == role {
			return true
		}
	}
	return false
}

// RoleNames returns the assigned role names in backend order.
func (u *UserDetails) RoleNames() []string {
	if u == nil {
		return nil
	}
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.RoleName)
	}
	return names
}

// GrantedScreens returns the names of screens with a valid grant.
func (u *UserDetails) GrantedScreens() []string {
	if u == nil {
		return nil
	}
	var out []string
	for _, p := range u.ScreenPermissions {
		if p.IsValid {
			out = append(out, p.ScreenName)
		}
	}
	return out
}
