package model

import (
	"strings"
	"time"
)

// Account is a registered user. The Email column always holds the
// pre-normalized form produced by NormalizeEmail.
type Account struct {
	ID           int64     `db:"Id"`
	Email        string    `db:"Email"`
	Name         string    `db:"Name"`
	PasswordHash string    `db:"PasswordHash"`
	PasswordSalt string    `db:"PasswordSalt"`
	CreatedAt    time.Time `db:"CreatedAt"`
}

// NormalizeEmail canonicalizes an email address for comparison and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
