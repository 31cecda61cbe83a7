package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	Email    string `bun:"email,notnull,unique" json:"email"`
	Password string `bun:"password,notnull" json:"-"`
	Role     string `bun:"role,notnull,default:'User'" json:"role"`
	Active   bool   `bun:"active,notnull,default:true" json:"active"`
	Deleted  bool   `bun:"deleted,notnull,default:false" json:"deleted"`
}

// UserDetails is the profile row paired 1:1 with a user account. Its
// soft-delete state follows the user's.
type UserDetails struct {
	bun.BaseModel `bun:"table:users_details"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID      int64     `bun:"user_id,notnull,unique" json:"userId"`
	FirstName   string    `bun:"first_name" json:"firstName"`
	LastName    string    `bun:"last_name" json:"lastName"`
	DateOfBirth time.Time `bun:"date_of_birth" json:"dateOfBirth"`
	Active      bool      `bun:"active,notnull,default:true" json:"active"`
	Deleted     bool      `bun:"deleted,notnull,default:false" json:"deleted"`
}

type RegisterRequest struct {
	Email       string    `json:"email"`
	Password    string    `json:"password"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	DateOfBirth time.Time `json:"dateOfBirth"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthenticatedResponse struct {
	Token string `json:"token"`
}
