package models

import (
	"strings"
	"time"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID           int64      `json:"id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Email        string     `json:"email,omitempty"`
	Active       bool       `json:"active"`
	Role         string     `json:"role"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u User) IsAdmin() bool {
	return strings.EqualFold(u.Role, RoleAdmin)
}
