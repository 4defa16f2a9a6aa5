// Package models holds server-side domain types.
package models

import (
	"strings"
	"time"
)

// Account is an account record owned by the credential store. The email is
// the identity key and is stored in normalized form. Accounts are immutable
// after creation; other components receive copies.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	CreatedAt    time.Time
}

// Clone returns a copy safe to hand outside the store.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// NormalizeEmail canonicalizes an identity key: trimmed and lowercased.
// Every read and write path must go through this, otherwise case variants
// of the same address could register as distinct accounts.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
