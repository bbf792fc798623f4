// Package repository defines the storage interfaces the service layer
// programs against. Concrete implementations live in the sqlite and jsonfile
// subpackages; services never import either directly.
package repository

import (
	"context"

	"github.com/sakif/jobtrack/internal/model"
)

// UserRepository stores registered accounts.
//
// The method names carry a User suffix so one storage type can implement
// this interface AND ApplicationRepository without name collisions (both
// stores do exactly that).
type UserRepository interface {
	// CreateUser inserts a new user. Returns apperror.ErrConflict if a user
	// with the same (lowercased) email already exists.
	CreateUser(ctx context.Context, user *model.User) error

	// GetUserByEmail looks a user up by their lowercased email.
	// Returns apperror.ErrNotFound if no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// GetUserByID looks a user up by their internal ID.
	GetUserByID(ctx context.Context, id string) (*model.User, error)

	// UpsertGitHub inserts or updates a user keyed by their GitHub ID.
	// On first sign-in the user is created; afterwards name/email are
	// refreshed from the GitHub profile. The caller's struct is populated
	// with the canonical stored record either way.
	UpsertGitHub(ctx context.Context, user *model.User) error
}

// ApplicationRepository stores job-application records.
//
// EVERY method takes the owning userID and filters on it. Ownership is
// enforced here, at the lowest layer, so a caller can never observe or
// mutate another user's records no matter what the layers above do.
// "Doesn't exist" and "exists but owned by someone else" are deliberately
// indistinguishable: both are NotFound.
type ApplicationRepository interface {
	// ListByUser returns all of a user's applications, newest appliedDate first.
	ListByUser(ctx context.Context, userID string) ([]model.Application, error)

	// Create inserts a new application for the user, assigning ID and timestamps.
	Create(ctx context.Context, app *model.Application) error

	// Update replaces the mutable fields of an owned application and
	// refreshes UpdatedAt. Returns apperror.ErrNotFound if the id does not
	// exist for this user.
	Update(ctx context.Context, userID string, app *model.Application) error

	// Delete removes an owned application. Returns apperror.ErrNotFound if
	// the id does not exist for this user.
	Delete(ctx context.Context, userID, id string) error

	// GetByUser returns a single owned application.
	GetByUser(ctx context.Context, userID, id string) (*model.Application, error)
}
