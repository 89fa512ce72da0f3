package services

import (
	"context"
	"time"

	"worklog/internal/domain"
	"worklog/internal/logging"
	"worklog/internal/ports"
)

// SummaryService computes the per-task daily work-hour summary from recorded
// sessions
type SummaryService struct {
	sessions ports.SessionReader
}

// NewSummaryService creates a new SummaryService
func NewSummaryService(sessions ports.SessionReader) *SummaryService {
	return &SummaryService{sessions: sessions}
}

// Daily returns one entry per task with rounded hours worked on the given
// calendar date. Only closed sessions count; tasks with zero hours are
// dropped.
func (s *SummaryService) Daily(ctx context.Context, date time.Time) ([]domain.DailySummaryEntry, error) {
	rows, err := s.sessions.ListForDate(ctx, date)
	if err != nil {
		return nil, err
	}

	entries := domain.Summarize(date, rows)

	logging.Logger.Debug("Computed daily summary",
		"date", date.Format("2006-01-02"),
		"sessions", len(rows),
		"entries", len(entries),
		"total_hours", domain.TotalHours(entries))

	return entries, nil
}
