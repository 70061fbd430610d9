package store

import (
	"context"
	"fmt"
	"strings"
)

// CreateStudyResource inserts a study resource for a user.
func (s *Store) CreateStudyResource(ctx context.Context, resource *StudyResource) error {
	resource.Reviews = 0
	return s.db.WithContext(ctx).Create(resource).Error
}

// GetStudyResource fetches a study resource by id.
func (s *Store) GetStudyResource(ctx context.Context, id int64) (*StudyResource, error) {
	var resource StudyResource
	if err := s.db.WithContext(ctx).First(&resource, id).Error; err != nil {
		return nil, notFound("study resource", id, err)
	}
	return &resource, nil
}

// ListStudyResources returns a user's resources, optionally narrowed to
// those carrying every requested tag. Tag matching happens in memory since
// tags live in a JSON column.
func (s *Store) ListStudyResources(ctx context.Context, userID int64, tags []string) ([]StudyResource, error) {
	resources := make([]StudyResource, 0)
	query := s.db.WithContext(ctx).Order("added_date desc")
	if userID > 0 {
		query = query.Where("user_id = ?", userID)
	}
	err := query.Find(&resources).Error
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return resources, nil
	}

	filtered := make([]StudyResource, 0, len(resources))
	for _, resource := range resources {
		if hasAllTags(resource.Tags, tags) {
			filtered = append(filtered, resource)
		}
	}
	return filtered, nil
}

func hasAllTags(have StringList, want []string) bool {
	for _, tag := range want {
		found := false
		for _, existing := range have {
			if strings.EqualFold(existing, tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// DeleteStudyResource removes a study resource by id.
func (s *Store) DeleteStudyResource(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(&StudyResource{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("study resource %d: %w", id, ErrNotFound)
	}
	return nil
}

// CreateVideoResource inserts a shared video resource.
func (s *Store) CreateVideoResource(ctx context.Context, video *VideoResource) error {
	video.Views = 0
	return s.db.WithContext(ctx).Create(video).Error
}

// GetVideoResource fetches a video resource by id.
func (s *Store) GetVideoResource(ctx context.Context, id int64) (*VideoResource, error) {
	var video VideoResource
	if err := s.db.WithContext(ctx).First(&video, id).Error; err != nil {
		return nil, notFound("video resource", id, err)
	}
	return &video, nil
}

// ListVideoResources returns all shared videos, newest first.
func (s *Store) ListVideoResources(ctx context.Context) ([]VideoResource, error) {
	videos := make([]VideoResource, 0)
	err := s.db.WithContext(ctx).Order("added_date desc").Find(&videos).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}
