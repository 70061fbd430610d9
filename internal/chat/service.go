package chat

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/studyace/studyace-server/internal/config"
	"github.com/studyace/studyace-server/internal/llm"
	"github.com/studyace/studyace-server/internal/store"
)

// Assistant answers one message given the prior conversation.
type Assistant interface {
	Chat(ctx context.Context, message string, history []llm.Message) (string, error)
}

// Service owns the assistant conversation flow. The server is the only
// writer of chat history; clients never supply their own transcript.
type Service struct {
	store     *store.Store
	cache     *Cache
	assistant Assistant
	logger    *slog.Logger
	maxTurns  int
}

// NewService wires the chat flow together.
func NewService(cfg *config.Config, st *store.Store, cache *Cache, assistant Assistant, logger *slog.Logger) (*Service, error) {
	if st == nil {
		return nil, errors.New("store is nil")
	}
	if assistant == nil {
		return nil, errors.New("assistant is nil")
	}
	maxTurns := 0
	if cfg != nil {
		maxTurns = cfg.Chat.HistoryMaxTurns
	}
	return &Service{
		store:     st,
		cache:     cache,
		assistant: assistant,
		logger:    logger,
		maxTurns:  maxTurns,
	}, nil
}

// Send relays one user message and persists both turns. The stored
// transcript grows append-only; only the context window sent to the model
// is trimmed.
func (s *Service) Send(ctx context.Context, userID int64, prompt string) (string, []llm.Message, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return "", nil, err
	}

	history, err := s.loadHistory(ctx, userID)
	if err != nil {
		return "", nil, err
	}

	reply, err := s.assistant.Chat(ctx, prompt, s.window(history))
	if err != nil {
		return "", nil, err
	}

	updated := append(history,
		llm.Message{Role: llm.RoleUser, Content: prompt},
		llm.Message{Role: llm.RoleAssistant, Content: reply},
	)
	saved, err := s.store.SaveChatHistory(ctx, userID, updated)
	if err != nil {
		return "", nil, err
	}

	if s.cache != nil {
		if cacheErr := s.cache.Set(ctx, userID, saved.Messages); cacheErr != nil {
			s.logWarn("chat_cache_write_failed", "user_id", userID, "error", cacheErr)
		}
	}

	s.recordInteraction(ctx, userID)
	return reply, saved.Messages, nil
}

// History returns a user's stored transcript, preferring the cache.
func (s *Service) History(ctx context.Context, userID int64) ([]llm.Message, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.loadHistory(ctx, userID)
}

func (s *Service) loadHistory(ctx context.Context, userID int64) ([]llm.Message, error) {
	if s.cache != nil {
		cached, hit, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.logWarn("chat_cache_read_failed", "user_id", userID, "error", err)
		} else if hit {
			return cached, nil
		}
	}

	stored, err := s.store.GetChatHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	return stored.Messages, nil
}

// window trims the transcript to the most recent turns for the model call.
func (s *Service) window(history []llm.Message) []llm.Message {
	if s.maxTurns <= 0 || len(history) <= s.maxTurns {
		return history
	}
	return history[len(history)-s.maxTurns:]
}

func (s *Service) recordInteraction(ctx context.Context, userID int64) {
	now := time.Now()
	if err := s.store.IncrementAnalytics(ctx, userID, store.CounterAIInteractions, 1, now); err != nil {
		s.logWarn("analytics_increment_failed", "user_id", userID, "error", err)
	}
	if err := s.store.AddUserAIInteractions(ctx, userID, 1); err != nil {
		s.logWarn("user_counter_update_failed", "user_id", userID, "error", err)
	}
}

func (s *Service) logWarn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
