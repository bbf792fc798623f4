// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Users normally sign up with email + password; the password is stored only as
// a bcrypt hash. Accounts can also be created through GitHub sign-in, in which
// case PasswordHash stays empty and GitHubID carries GitHub's numeric user ID.
//
// WHY `json:"-"` ON PasswordHash?
// The hash must never leave the server. Tagging the field with "-" tells
// encoding/json to skip it entirely, so even a careless handler that marshals
// the whole struct cannot leak it. PublicView exists for responses instead.
//
// WHY GitHubID int64?
// GitHub user IDs are integers (e.g. 1234567). int64 avoids overflow for large
// account numbers; zero means "no linked GitHub account".
type User struct {
	ID           string    `json:"id"        db:"id"`
	Name         string    `json:"name"      db:"name"`
	Email        string    `json:"email"     db:"email"` // unique, stored lowercase
	PasswordHash string    `json:"-"         db:"password_hash"`
	GitHubID     int64     `json:"-"         db:"github_id"` // 0 when the account has no GitHub link
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// PublicUser is the shape of a user we return to clients: just enough for the
// SPA to show who is logged in. No hash, no timestamps, no GitHub linkage.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Public returns the client-safe view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}
