package store

import (
	"context"
	"fmt"
)

// CreateExam inserts an exam schedule entry.
func (s *Store) CreateExam(ctx context.Context, exam *ExamSchedule) error {
	return s.db.WithContext(ctx).Create(exam).Error
}

// GetExam fetches an exam schedule entry by id.
func (s *Store) GetExam(ctx context.Context, id int64) (*ExamSchedule, error) {
	var exam ExamSchedule
	if err := s.db.WithContext(ctx).First(&exam, id).Error; err != nil {
		return nil, notFound("exam schedule", id, err)
	}
	return &exam, nil
}

// ListExamsByUser returns a user's exams in date order.
func (s *Store) ListExamsByUser(ctx context.Context, userID int64) ([]ExamSchedule, error) {
	exams := make([]ExamSchedule, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date asc").
		Find(&exams).Error
	if err != nil {
		return nil, err
	}
	return exams, nil
}

// UpdateExam applies a partial update and returns the updated row.
func (s *Store) UpdateExam(ctx context.Context, id int64, updates map[string]any) (*ExamSchedule, error) {
	if len(updates) > 0 {
		result := s.db.WithContext(ctx).Model(&ExamSchedule{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, fmt.Errorf("exam schedule %d: %w", id, ErrNotFound)
		}
	}
	return s.GetExam(ctx, id)
}

// DeleteExam removes an exam schedule entry by id.
func (s *Store) DeleteExam(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(&ExamSchedule{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("exam schedule %d: %w", id, ErrNotFound)
	}
	return nil
}
