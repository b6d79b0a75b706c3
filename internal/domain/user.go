package domain

import "time"

// User is an administrator allowed to manage portfolio content.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
