package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleLead  Role = "lead"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleLead:
		return true
	}
	return false
}

// User is the full identity record. Password holds the encoded argon2id hash
// and is empty for OAuth-only and lead accounts.
type User struct {
	ID            int64     `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	Password      string    `json:"-"`
	Phone         *string   `json:"phone"`
	Role          Role      `json:"role"`
	EmailVerified bool      `json:"email_verified"`
	GoogleUserID  *string   `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (u *User) ScanTargets() []any {
	return []any{
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Password, &u.Phone,
		&u.Role, &u.EmailVerified, &u.GoogleUserID, &u.CreatedAt, &u.UpdatedAt,
	}
}

// Public returns the projection attached to authenticated requests.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:            u.ID,
		Email:         u.Email,
		Role:          u.Role,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		EmailVerified: u.EmailVerified,
	}
}

// PublicUser never carries the password hash.
type PublicUser struct {
	ID            int64  `json:"id"`
	Email         string `json:"email"`
	Role          Role   `json:"role"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	EmailVerified bool   `json:"email_verified"`
}

func (u *PublicUser) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// UserUpdate is a partial update; nil fields are left unchanged.
type UserUpdate struct {
	FirstName     *string
	LastName      *string
	Email         *string
	Phone         *string
	Role          *Role
	EmailVerified *bool
	GoogleUserID  *string
	Password      *string
}

type UserFilter struct {
	Page    int
	PerPage int
	Search  string
	Role    Role
}
