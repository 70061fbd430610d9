package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/studyace/studyace-server/internal/llm"
)

// GetChatHistory returns a user's stored conversation, or an empty
// transcript when none exists yet.
func (s *Store) GetChatHistory(ctx context.Context, userID int64) (*ChatHistory, error) {
	var history ChatHistory
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&history).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &ChatHistory{UserID: userID, Messages: MessageList{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return &history, nil
}

// SaveChatHistory replaces a user's stored conversation, creating the row
// on first write.
func (s *Store) SaveChatHistory(ctx context.Context, userID int64, messages []llm.Message) (*ChatHistory, error) {
	row := ChatHistory{
		UserID:   userID,
		Messages: MessageList(messages),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"messages", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}
	return s.GetChatHistory(ctx, userID)
}
