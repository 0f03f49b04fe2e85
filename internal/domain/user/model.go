package user

import (
	"time"

	"github.com/google/uuid"
)

// User is an account row. The password hash never leaves the server.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         string     `db:"role" json:"role"`
	IsActive     bool       `db:"is_active" json:"isActive"`
	LastLogin    *time.Time `db:"last_login" json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
}

// SignupRequest is the POST /auth/signup body.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest is the POST /auth/login body. Role is part of the credential:
// a patient token cannot be obtained with provider credentials and vice versa.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// AuthResponse pairs a fresh session token with the public user fields.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
