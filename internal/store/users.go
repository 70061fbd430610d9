package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrUsernameTaken is returned when a username or email is already in use.
var ErrUsernameTaken = errors.New("username or email already in use")

// CreateUser inserts a new user. The password must already be hashed.
func (s *Store) CreateUser(ctx context.Context, user *User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUsernameTaken
	}
	return err
}

// GetUser fetches a user by id.
func (s *Store) GetUser(ctx context.Context, id int64) (*User, error) {
	var user User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound("user", id, err)
	}
	return &user, nil
}

// GetUserByUsername fetches a user by username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies a partial update and returns the updated row.
// Keys are wire field names; unknown keys are rejected by the caller.
func (s *Store) UpdateUser(ctx context.Context, id int64, updates map[string]any) (*User, error) {
	if len(updates) > 0 {
		result := s.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
	}
	return s.GetUser(ctx, id)
}

// AddUserStudyHours adds to the user's lifetime study-hours counter.
func (s *Store) AddUserStudyHours(ctx context.Context, id int64, hours int) error {
	result := s.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).
		Update("study_hours", gorm.Expr("study_hours + ?", hours))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return nil
}

// AddUserAIInteractions adds to the user's lifetime AI-interaction counter.
func (s *Store) AddUserAIInteractions(ctx context.Context, id int64, count int) error {
	result := s.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).
		Update("ai_interactions", gorm.Expr("ai_interactions + ?", count))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return nil
}
