package domain

import "time"

// User is the domain model for registered bird watchers. Email is the
// identity key carried inside tokens and is stored lowercased.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
