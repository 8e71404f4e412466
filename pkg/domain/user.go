package domain

import "strings"

// User is a console account as listed on the admin screen.
type User struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// UserPage is one page of the admin user listing.
type UserPage struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
}

// MaskedPassword hides all but the last eight characters of the stored
// password hash behind a fixed five-star prefix.
func (u User) MaskedPassword() string {
	if u.Password == "" {
		return ""
	}
	const visible = 8
	tail := u.Password
	if len(tail) > visible {
		tail = tail[len(tail)-visible:]
	}
	return strings.Repeat("*", 5) + tail
}
