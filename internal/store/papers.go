package store

import (
	"context"
	"fmt"
)

// CreatePaper inserts an uploaded question paper. New papers start
// unanalyzed regardless of caller input.
func (s *Store) CreatePaper(ctx context.Context, paper *QuestionPaper) error {
	paper.Analyzed = false
	paper.AnalysisResults = nil
	return s.db.WithContext(ctx).Create(paper).Error
}

// GetPaper fetches a question paper by id.
func (s *Store) GetPaper(ctx context.Context, id int64) (*QuestionPaper, error) {
	var paper QuestionPaper
	if err := s.db.WithContext(ctx).First(&paper, id).Error; err != nil {
		return nil, notFound("question paper", id, err)
	}
	return &paper, nil
}

// ListPapersByUser returns a user's papers, newest upload first.
func (s *Store) ListPapersByUser(ctx context.Context, userID int64) ([]QuestionPaper, error) {
	papers := make([]QuestionPaper, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("upload_date desc").
		Find(&papers).Error
	if err != nil {
		return nil, err
	}
	return papers, nil
}

// DeletePaper removes a paper by id.
func (s *Store) DeletePaper(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(&QuestionPaper{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("question paper %d: %w", id, ErrNotFound)
	}
	return nil
}

// MarkPaperAnalyzed stores the analysis and flips the analyzed flag in a
// single statement, so a paper is never visible analyzed without results.
func (s *Store) MarkPaperAnalyzed(ctx context.Context, id int64, results JSONMap) (*QuestionPaper, error) {
	if results == nil {
		return nil, fmt.Errorf("question paper %d: empty analysis results", id)
	}
	result := s.db.WithContext(ctx).Model(&QuestionPaper{}).Where("id = ?", id).
		Updates(map[string]any{
			"analyzed":         true,
			"analysis_results": results,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("question paper %d: %w", id, ErrNotFound)
	}
	return s.GetPaper(ctx, id)
}
