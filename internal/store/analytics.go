package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CounterField names one of the additive daily analytics counters.
type CounterField string

const (
	CounterPapersAnalyzed CounterField = "papers_analyzed"
	CounterStudyHours     CounterField = "study_hours"
	CounterResourcesUsed  CounterField = "resources_used"
	CounterAIInteractions CounterField = "ai_interactions"
)

func (f CounterField) valid() bool {
	switch f {
	case CounterPapersAnalyzed, CounterStudyHours, CounterResourcesUsed, CounterAIInteractions:
		return true
	}
	return false
}

// DayOf truncates a timestamp to its calendar day.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IncrementAnalytics adds amount to one counter on the user's row for the
// given day, creating the row when absent. The whole operation is a single
// conditional upsert, so concurrent increments never lose updates.
func (s *Store) IncrementAnalytics(ctx context.Context, userID int64, field CounterField, amount int, day time.Time) error {
	if !field.valid() {
		return fmt.Errorf("unknown analytics counter %q", field)
	}
	if amount <= 0 {
		return nil
	}

	row := StudyAnalytics{
		UserID: userID,
		Date:   DayOf(day),
	}
	switch field {
	case CounterPapersAnalyzed:
		row.PapersAnalyzed = amount
	case CounterStudyHours:
		row.StudyHours = amount
	case CounterResourcesUsed:
		row.ResourcesUsed = amount
	case CounterAIInteractions:
		row.AIInteractions = amount
	}

	column := string(field)
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]any{
			column: gorm.Expr(fmt.Sprintf("study_analytics.%s + EXCLUDED.%s", column, column)),
		}),
	}).Create(&row).Error
}

// AnalyticsSummary is a user's counters accumulated across all days.
type AnalyticsSummary struct {
	UserID         int64 `json:"userId"`
	PapersAnalyzed int   `json:"papersAnalyzed"`
	StudyHours     int   `json:"studyHours"`
	ResourcesUsed  int   `json:"resourcesUsed"`
	AIInteractions int   `json:"aiInteractions"`
	DaysActive     int   `json:"daysActive"`
}

// GetAnalyticsSummary sums a user's counters over their whole history.
func (s *Store) GetAnalyticsSummary(ctx context.Context, userID int64) (*AnalyticsSummary, error) {
	type aggregate struct {
		PapersAnalyzed int
		StudyHours     int
		ResourcesUsed  int
		AIInteractions int
		DaysActive     int
	}

	var result aggregate
	err := s.db.WithContext(ctx).Model(&StudyAnalytics{}).
		Select(
			"COALESCE(SUM(papers_analyzed), 0) as papers_analyzed",
			"COALESCE(SUM(study_hours), 0) as study_hours",
			"COALESCE(SUM(resources_used), 0) as resources_used",
			"COALESCE(SUM(ai_interactions), 0) as ai_interactions",
			"COUNT(*) as days_active",
		).
		Where("user_id = ?", userID).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return &AnalyticsSummary{
		UserID:         userID,
		PapersAnalyzed: result.PapersAnalyzed,
		StudyHours:     result.StudyHours,
		ResourcesUsed:  result.ResourcesUsed,
		AIInteractions: result.AIInteractions,
		DaysActive:     result.DaysActive,
	}, nil
}

// ListDailyAnalytics returns up to days recent daily rows, newest first.
func (s *Store) ListDailyAnalytics(ctx context.Context, userID int64, days int) ([]StudyAnalytics, error) {
	if days <= 0 {
		days = 7
	}

	rows := make([]StudyAnalytics, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date desc").
		Limit(days).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
