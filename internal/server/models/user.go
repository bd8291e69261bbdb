package models

import "time"

// User is a vault account. ResetToken and ResetTokenExpiry are either both
// set or both nil; repositories update them together.
type User struct {
	ID               string
	Username         string
	Email            string
	PasswordHash     string
	ResetToken       *string
	ResetTokenExpiry *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
