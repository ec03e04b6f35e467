package users

import (
	"time"

	"github.com/corporatesaathi/saathi/internal/client/api"
)

const RoleClient = "client"

type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Role         string
	PasswordHash []byte
	Verified     bool
	CreatedAt    time.Time
}

// Public returns the user as sent over the wire, without credentials.
func (u *User) Public() *api.User {
	return &api.User{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Role:       u.Role,
		IsVerified: u.Verified,
	}
}

// Session is a signed-in user with the token issued for it.
type Session struct {
	Token string
	User  *User
}
