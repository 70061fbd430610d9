package store

import (
	"context"
	"fmt"
)

// CreatePost inserts a community post. Engagement counters start at zero.
func (s *Store) CreatePost(ctx context.Context, post *CommunityPost) error {
	post.Likes = 0
	post.Comments = 0
	post.Solved = false
	return s.db.WithContext(ctx).Create(post).Error
}

// GetPost fetches a community post by id.
func (s *Store) GetPost(ctx context.Context, id int64) (*CommunityPost, error) {
	var post CommunityPost
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, notFound("community post", id, err)
	}
	return &post, nil
}

// ListPosts returns all community posts, newest first.
func (s *Store) ListPosts(ctx context.Context) ([]CommunityPost, error) {
	posts := make([]CommunityPost, 0)
	err := s.db.WithContext(ctx).Order("post_date desc").Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdatePost applies a partial update and returns the updated row.
func (s *Store) UpdatePost(ctx context.Context, id int64, updates map[string]any) (*CommunityPost, error) {
	if len(updates) > 0 {
		result := s.db.WithContext(ctx).Model(&CommunityPost{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, fmt.Errorf("community post %d: %w", id, ErrNotFound)
		}
	}
	return s.GetPost(ctx, id)
}

// DeletePost removes a community post by id.
func (s *Store) DeletePost(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(&CommunityPost{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("community post %d: %w", id, ErrNotFound)
	}
	return nil
}
