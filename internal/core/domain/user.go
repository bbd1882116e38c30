package domain

import "time"

// Role values mirror the stored "type" column.
const (
	RoleAdmin = "0"
	RoleUser  = "1"
)

// DefaultProfileURL is shown for users that never uploaded a profile image.
const DefaultProfileURL = "/media/user-default.png"

// User models an authenticated actor in the system.
type User struct {
	ID            uint       `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	Type          string     `json:"type"`
	Phone         string     `json:"phone,omitempty"`
	Address       string     `json:"address,omitempty"`
	DOB           *time.Time `json:"dob,omitempty"`
	Profile       string     `json:"profile,omitempty"`
	CreatedUserID *uint      `json:"created_user_id,omitempty"`
	UpdatedUserID *uint      `json:"updated_user_id,omitempty"`
	DeletedUserID *uint      `json:"deleted_user_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Type == RoleAdmin
}

func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// ProfileURL returns the public path of the profile image or the default placeholder.
func (u *User) ProfileURL() string {
	if u.Profile == "" {
		return DefaultProfileURL
	}
	return "/media/" + u.Profile
}

// RoleLabel returns the human readable role name.
func RoleLabel(role string) string {
	switch role {
	case RoleAdmin:
		return "Admin"
	case RoleUser:
		return "User"
	default:
		return ""
	}
}

// Actor is the authenticated user performing a request.
type Actor struct {
	ID    uint
	Email string
	Role  string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanUpdateUser reports whether the actor may edit the account id. Only admins
// edit other accounts.
func (a Actor) CanUpdateUser(id uint) bool {
	return a.IsAdmin() || a.ID == id
}
