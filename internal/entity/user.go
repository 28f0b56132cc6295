package entity

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleConsumer Role = "consumer"
	RoleCreator  Role = "creator"
	RoleAdmin    Role = "admin"
)

// ParseRole accepts exactly one of the known role names.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleConsumer, RoleCreator, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
	}
}

type User struct {
	ID           uint      `json:"user_id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	DisplayName  *string   `json:"display_name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
