// Package service — analytics aggregation.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/sakif/jobtrack/internal/model"
	"github.com/sakif/jobtrack/internal/repository"
)

// AnalyticsService derives the dashboard snapshot from a user's applications.
//
// There is deliberately no cache: the snapshot is a pure function of the
// current record set, computing it is a single pass over a list that fits in
// L1 cache, and a cache would only add an invalidation problem.
type AnalyticsService struct {
	repo   repository.ApplicationRepository
	logger *slog.Logger
}

// NewAnalyticsService creates an AnalyticsService.
func NewAnalyticsService(repo repository.ApplicationRepository, logger *slog.Logger) *AnalyticsService {
	return &AnalyticsService{
		repo:   repo,
		logger: logger,
	}
}

// Snapshot computes the analytics view for one user, fresh from storage.
func (s *AnalyticsService) Snapshot(ctx context.Context, userID string) (*model.AnalyticsSnapshot, error) {
	apps, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load applications for analytics",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("loading applications for analytics: %w", err)
	}

	return Summarize(apps), nil
}

// Summarize aggregates a list of applications into an AnalyticsSnapshot.
//
// It is a pure function — deterministic, no I/O, no mutation of the input —
// which is what makes the aggregation trivially testable without a store.
//
// ALGORITHM:
//  1. byStatus: count per status, emitted in the fixed model.Statuses order
//     so every status appears even at zero and charts get a stable category
//     order.
//  2. byMonth: bucket by the YYYY-MM prefix of appliedDate, then emit in
//     ascending key order (lexicographic == chronological for this
//     fixed-width format).
//  3. totals: counts plus offer/interview rates as percentages rounded to
//     one decimal. A user with no applications gets rates of 0, never a
//     division by zero.
func Summarize(apps []model.Application) *model.AnalyticsSnapshot {
	statusCounts := make(map[model.Status]int, len(model.Statuses))
	monthCounts := make(map[string]int)

	for _, a := range apps {
		statusCounts[a.Status]++
		if len(a.AppliedDate) >= 7 {
			monthCounts[a.AppliedDate[:7]]++
		}
	}

	byStatus := make([]model.StatusCount, 0, len(model.Statuses))
	for _, status := range model.Statuses {
		byStatus = append(byStatus, model.StatusCount{
			Status: status,
			Count:  statusCounts[status],
		})
	}

	months := make([]string, 0, len(monthCounts))
	for month := range monthCounts {
		months = append(months, month)
	}
	sort.Strings(months)

	byMonth := make([]model.MonthCount, 0, len(months))
	for _, month := range months {
		byMonth = append(byMonth, model.MonthCount{
			Month: month,
			Count: monthCounts[month],
		})
	}

	total := len(apps)
	interviews := statusCounts[model.StatusInterview]
	offers := statusCounts[model.StatusOffer]

	return &model.AnalyticsSnapshot{
		Totals: model.Totals{
			Total:         total,
			Interviews:    interviews,
			Offers:        offers,
			OfferRate:     rate(offers, total),
			InterviewRate: rate(interviews, total),
		},
		ByStatus: byStatus,
		ByMonth:  byMonth,
	}
}

// rate returns count/total as a percentage rounded to one decimal place,
// or 0 when total is zero.
func rate(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*1000) / 10
}
