package models

import (
	"time"
)

// User is a person record in the directory. Placeholder profiles created by an
// admin before the person signs up have IsUnclaimed set and no password.
type User struct {
	ID          int64      `json:"id" db:"id" example:"1"`
	Email       string     `json:"email" db:"email" example:"ada@cs.example.edu"`
	Password    string     `json:"-" db:"password"`
	FirstName   string     `json:"firstName" db:"first_name" example:"Ada"`
	LastName    string     `json:"lastName" db:"last_name" example:"Lovelace"`
	RoleType    RoleType   `json:"role" db:"role_type" example:"head_ta"`
	InvitedByID *int64     `json:"invitedById,omitempty" db:"invited_by_id"`
	IsUnclaimed bool       `json:"isUnclaimed" db:"is_unclaimed"`
	ClaimedByID *int64     `json:"claimedById,omitempty" db:"claimed_by_id"`
	ClaimedAt   *time.Time `json:"claimedAt,omitempty" db:"claimed_at"`
	IsActive    bool       `json:"isActive" db:"is_active"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// FullName returns "First Last"
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.RoleType == RoleAdmin
}

// CanLogin reports whether the account may authenticate
func (u *User) CanLogin() bool {
	return u.IsActive && !u.IsUnclaimed && u.Password != ""
}
