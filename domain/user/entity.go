package user

import (
	"time"
)

// Role is the authorization role of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a registered account.
type User struct {
	ID           string    `gorm:"primaryKey;type:text" json:"id"`
	Name         string    `gorm:"not null;type:text" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null;type:text" json:"email"`
	PasswordHash string    `gorm:"not null;type:text" json:"-"`
	Role         Role      `gorm:"not null;type:text" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session is an authenticated user together with the bearer token issued for them.
type Session struct {
	User      User   `json:"user"`
	Token     string `json:"token"`
	TokenType string `json:"type"`
	ExpiresIn int64  `json:"expires_in"`
}

// Claims is the identity carried by a validated bearer token.
type Claims struct {
	UserID    string    `json:"user_id"`
	TokenID   string    `json:"token_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
