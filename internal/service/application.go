// Package service — job-application business logic.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/jobtrack/internal/apperror"
	"github.com/sakif/jobtrack/internal/model"
	"github.com/sakif/jobtrack/internal/repository"
)

// ApplicationInput is the set of caller-supplied fields for creating or
// updating an application. ID, ownership, and timestamps are never accepted
// from the client — the server assigns all of them.
type ApplicationInput struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	Status      string `json:"status"`
	AppliedDate string `json:"appliedDate"`
	Source      string `json:"source"`
	Notes       string `json:"notes"`
}

// ApplicationService handles CRUD over a user's application records.
//
// Every method takes the verified caller's userID as an explicit parameter.
// There is no ambient "current user" — the identity flows from the auth
// middleware through the handler into here, so a reader can see the scoping
// at every call site.
type ApplicationService struct {
	repo   repository.ApplicationRepository
	logger *slog.Logger
}

// NewApplicationService creates an ApplicationService.
func NewApplicationService(repo repository.ApplicationRepository, logger *slog.Logger) *ApplicationService {
	return &ApplicationService{
		repo:   repo,
		logger: logger,
	}
}

// List returns all of the user's applications, newest appliedDate first.
func (s *ApplicationService) List(ctx context.Context, userID string) ([]model.Application, error) {
	apps, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list applications",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing applications: %w", err)
	}
	return apps, nil
}

// Create validates the input and stores a new application owned by userID.
// On success the returned record carries the generated ID and
// createdAt == updatedAt.
func (s *ApplicationService) Create(ctx context.Context, userID string, in ApplicationInput) (*model.Application, error) {
	app, err := buildApplication(userID, in)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, app); err != nil {
		s.logger.Error("failed to create application",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating application: %w", err)
	}

	s.logger.Info("application created",
		slog.String("id", app.ID),
		slog.String("userID", userID),
		slog.String("company", app.Company),
	)

	return app, nil
}

// Update validates the input and replaces the mutable fields of an owned
// application. A non-existent id and someone else's id both fail NotFound.
func (s *ApplicationService) Update(ctx context.Context, userID, id string, in ApplicationInput) (*model.Application, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "application ID is required")
	}

	app, err := buildApplication(userID, in)
	if err != nil {
		return nil, err
	}
	app.ID = id

	if err := s.repo.Update(ctx, userID, app); err != nil {
		return nil, err
	}

	s.logger.Info("application updated",
		slog.String("id", id),
		slog.String("userID", userID),
	)

	// Re-read so callers get the stored record with its original CreatedAt.
	return s.repo.GetByUser(ctx, userID, id)
}

// Delete removes an owned application.
func (s *ApplicationService) Delete(ctx context.Context, userID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "application ID is required")
	}

	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.logger.Info("application deleted",
		slog.String("id", id),
		slog.String("userID", userID),
	)
	return nil
}

// buildApplication validates every input field and assembles the model.
// All violations are collected into one Validation error with per-field
// messages, so a form submission reports everything wrong at once.
func buildApplication(userID string, in ApplicationInput) (*model.Application, error) {
	fields := make(map[string]string)

	company := strings.TrimSpace(in.Company)
	if company == "" {
		fields["company"] = "company is required"
	}

	role := strings.TrimSpace(in.Role)
	if role == "" {
		fields["role"] = "role is required"
	}

	status := model.Status(in.Status)
	if !status.Valid() {
		fields["status"] = "status must be one of Applied, Interview, Offer, Rejected"
	}

	appliedDate := strings.TrimSpace(in.AppliedDate)
	if _, err := time.Parse("2006-01-02", appliedDate); err != nil {
		fields["appliedDate"] = "appliedDate must be a valid date in YYYY-MM-DD format"
	}

	source := strings.TrimSpace(in.Source)
	if source == "" {
		fields["source"] = "source is required"
	}

	if len(fields) > 0 {
		return nil, apperror.ValidationFields(fields)
	}

	return &model.Application{
		UserID:      userID,
		Company:     company,
		Role:        role,
		Status:      status,
		AppliedDate: appliedDate,
		Source:      source,
		Notes:       strings.TrimSpace(in.Notes), // optional, "" when omitted
	}, nil
}
