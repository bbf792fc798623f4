// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Status is the lifecycle stage of a job application.
//
// WHY A NAMED STRING TYPE?
// Using `type Status string` instead of plain string gives us:
//   - Documentation: a function taking a Status is clearer than one taking a string
//   - A natural home for the enumeration constants below
//   - Free JSON marshalling (it's still a string on the wire)
//
// Go has no enum keyword. The idiomatic equivalent is a named type plus a
// const block of its allowed values.
type Status string

const (
	StatusApplied   Status = "Applied"
	StatusInterview Status = "Interview"
	StatusOffer     Status = "Offer"
	StatusRejected  Status = "Rejected"
)

// Statuses lists every allowed status in its fixed presentation order.
// Analytics and validation both iterate this slice, so the order here is the
// order charts render categories in — keep it stable.
var Statuses = []Status{StatusApplied, StatusInterview, StatusOffer, StatusRejected}

// Valid reports whether s is one of the four enumerated statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusApplied, StatusInterview, StatusOffer, StatusRejected:
		return true
	}
	return false
}

// Application represents a single tracked job application.
//
// The `json:"..."` tags tell Go's encoding/json package how to serialize/deserialize
// this struct to/from JSON. The SPA reads exactly these field names.
//
// WHY AppliedDate string (not time.Time)?
// The applied date is a calendar date ("2024-01-15"), not an instant. Storing it
// as the ISO string the client sends keeps it timezone-free, makes descending
// sort a plain string comparison, and lets analytics derive the month bucket by
// slicing the first 7 characters. time.Time would force a fake midnight-UTC
// instant onto a value that is only ever a date.
type Application struct {
	ID          string    `json:"id"          db:"id"`
	UserID      string    `json:"userId"      db:"user_id"` // owner — every query filters on this
	Company     string    `json:"company"     db:"company"`
	Role        string    `json:"role"        db:"role"`
	Status      Status    `json:"status"      db:"status"`
	AppliedDate string    `json:"appliedDate" db:"applied_date"` // ISO calendar date, YYYY-MM-DD
	Source      string    `json:"source"      db:"source"`       // where the posting was found
	Notes       string    `json:"notes"       db:"notes"`        // optional, defaults to ""
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   db:"updated_at"`
}
