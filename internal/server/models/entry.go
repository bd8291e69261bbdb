package models

import "time"

// Entry is a stored credential. PasswordCiphertext is the opaque token
// produced by cryptox.Cipher; the plaintext never reaches the repository.
type Entry struct {
	ID                 string
	UserID             string
	ServiceName        string
	Username           string
	Email              string
	PasswordCiphertext string
	Notes              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
