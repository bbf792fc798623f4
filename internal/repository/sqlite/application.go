package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/jobtrack/internal/apperror"
	"github.com/sakif/jobtrack/internal/model"
	"github.com/sakif/jobtrack/internal/repository"
)

// compile-time check that *DB implements repository.ApplicationRepository
var _ repository.ApplicationRepository = (*DB)(nil)

const appColumns = `id, user_id, company, role, status, applied_date, source, notes, created_at, updated_at`

// ListByUser returns all of a user's applications, newest appliedDate first.
//
// ORDER BY applied_date DESC works because applied_date is a fixed-width ISO
// string — lexicographic equals chronological. created_at DESC breaks ties so
// the order is stable across reloads.
//
// OWNERSHIP:
// The WHERE clause on user_id is the isolation boundary. It appears in every
// query in this file — an application row is invisible unless the caller owns it.
func (db *DB) ListByUser(ctx context.Context, userID string) ([]model.Application, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+appColumns+`
		 FROM applications
		 WHERE user_id = ?
		 ORDER BY applied_date DESC, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing applications: %w", err)
	}
	// sql.Rows holds a pool connection — always close it, even on panic.
	defer rows.Close()

	apps := make([]model.Application, 0, 16)
	for rows.Next() {
		var a model.Application
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Company, &a.Role, &a.Status,
			&a.AppliedDate, &a.Source, &a.Notes,
			&a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning application row: %w", err)
		}
		apps = append(apps, a)
	}

	// rows.Err() catches errors that happened DURING iteration
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating applications: %w", err)
	}

	return apps, nil
}

// Create inserts a new application, assigning the ID and both timestamps.
// The caller's struct is modified in place (pointer receiver semantics) so
// the handler can echo the stored record straight back.
func (db *DB) Create(ctx context.Context, app *model.Application) error {
	app.ID = xid.New().String()

	now := time.Now()
	app.CreatedAt = now
	app.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO applications (`+appColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		app.ID,
		app.UserID,
		app.Company,
		app.Role,
		app.Status,
		app.AppliedDate,
		app.Source,
		app.Notes,
		app.CreatedAt,
		app.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating application: %w", err)
	}

	return nil
}

// GetByUser returns a single application if — and only if — the user owns it.
func (db *DB) GetByUser(ctx context.Context, userID, id string) (*model.Application, error) {
	var a model.Application

	err := db.conn.QueryRowContext(ctx,
		`SELECT `+appColumns+`
		 FROM applications
		 WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(
		&a.ID, &a.UserID, &a.Company, &a.Role, &a.Status,
		&a.AppliedDate, &a.Source, &a.Notes,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("application", id)
		}
		return nil, fmt.Errorf("sqlite: getting application %s: %w", id, err)
	}

	return &a, nil
}

// Update replaces the mutable fields of an owned application.
//
// The WHERE clause matches on BOTH id and user_id, so an id that exists but
// belongs to another user affects zero rows and falls into the same NotFound
// path as a genuinely absent id. RowsAffected is how we detect it — one
// query instead of SELECT-then-UPDATE.
func (db *DB) Update(ctx context.Context, userID string, app *model.Application) error {
	app.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE applications
		 SET company = ?, role = ?, status = ?, applied_date = ?, source = ?, notes = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		app.Company,
		app.Role,
		app.Status,
		app.AppliedDate,
		app.Source,
		app.Notes,
		app.UpdatedAt,
		app.ID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating application %s: %w", app.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("application", app.ID)
	}

	return nil
}

// Delete removes an owned application. Same RowsAffected pattern as Update.
func (db *DB) Delete(ctx context.Context, userID, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM applications WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting application %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("application", id)
	}

	return nil
}
