package handler

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/goccy/go-json"
	"gorm.io/gorm"

	"github.com/studyace/studyace-server/internal/ai"
	"github.com/studyace/studyace-server/internal/chat"
	"github.com/studyace/studyace-server/internal/config"
	"github.com/studyace/studyace-server/internal/health"
	"github.com/studyace/studyace-server/internal/llm"
	"github.com/studyace/studyace-server/internal/metrics"
	"github.com/studyace/studyace-server/internal/store"
)

// stubRelay stands in for the Gemini relay across all handler tests.
type stubRelay struct {
	analyzeResult *ai.AnalysisResult
	analyzeErr    error
	topics        []string
	topicsErr     error
	plan          *ai.StudyPlan
	planErr       error
	chatReply     string
	chatErr       error

	planExamName string
	planDays     int
	planTopics   []string
}

func (s *stubRelay) AnalyzePaper(ctx context.Context, paperContent string, subject string) (*ai.AnalysisResult, error) {
	if s.analyzeErr != nil {
		return nil, s.analyzeErr
	}
	return s.analyzeResult, nil
}

func (s *stubRelay) RecommendTopics(ctx context.Context, paperContent string, subject string) ([]string, error) {
	if s.topicsErr != nil {
		return nil, s.topicsErr
	}
	return s.topics, nil
}

func (s *stubRelay) GenerateStudyPlan(ctx context.Context, examName string, daysUntilExam int, topics []string) (*ai.StudyPlan, error) {
	s.planExamName = examName
	s.planDays = daysUntilExam
	s.planTopics = topics
	if s.planErr != nil {
		return nil, s.planErr
	}
	return s.plan, nil
}

func (s *stubRelay) Chat(ctx context.Context, message string, history []llm.Message) (string, error) {
	if s.chatErr != nil {
		return "", s.chatErr
	}
	return s.chatReply, nil
}

type fixture struct {
	cfg    *config.Config
	store  *store.Store
	relay  *stubRelay
	router *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Logging: config.LoggingConfig{Level: "info"},
		Chat:    config.ChatConfig{HistoryMaxTurns: 20},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := newHandlerTestStore(t)
	relay := &stubRelay{chatReply: "stub reply"}

	cache, err := chat.NewCache(cfg)
	if err != nil {
		t.Fatal(err)
	}
	chatService, err := chat.NewService(cfg, st, cache, relay, logger)
	if err != nil {
		t.Fatal(err)
	}

	router := NewRouter(
		cfg,
		logger,
		health.NewChecker(cfg, st, cache),
		NewUserHandler(cfg, st, logger),
		NewPaperHandler(cfg, st, relay, logger),
		NewResourceHandler(cfg, st, logger),
		NewExamHandler(cfg, st, relay, logger),
		NewPostHandler(cfg, st, logger),
		NewChatHandler(cfg, chatService, logger),
		NewAnalyticsHandler(cfg, st, logger),
		NewDashboardHandler(cfg, st, logger),
		NewMetricsHandler(metrics.NewStore()),
	)

	return &fixture{cfg: cfg, store: st, relay: relay, router: router}
}

func newHandlerTestStore(t *testing.T) *store.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := store.NewWithDB(db, logger)
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func (f *fixture) do(t *testing.T, method string, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func (f *fixture) createUser(t *testing.T, username string) *store.User {
	t.Helper()
	user := &store.User{Username: username, Password: "hashed-password"}
	if err := f.store.CreateUser(context.Background(), user); err != nil {
		t.Fatal(err)
	}
	return user
}

func (f *fixture) createPaper(t *testing.T, userID int64) *store.QuestionPaper {
	t.Helper()
	paper := &store.QuestionPaper{
		UserID:       userID,
		Title:        "Calculus Midterm 2024",
		Subject:      "Mathematics",
		Difficulty:   "intermediate",
		PaperContent: "Q1. Differentiate f(x) = x^2 sin(x).",
		Tags:         store.StringList{"calculus"},
	}
	if err := f.store.CreatePaper(context.Background(), paper); err != nil {
		t.Fatal(err)
	}
	return paper
}

func testAnalysisResult() *ai.AnalysisResult {
	return &ai.AnalysisResult{
		Topics:                     []string{"differentiation"},
		Difficulty:                 "intermediate",
		TimeEstimate:               90,
		KeyConceptsToReview:        []string{"product rule"},
		SimilarTopicsFromPastYears: []string{"chain rule"},
		QuestionTypeDistribution:   map[string]float64{"proof": 40, "computation": 60},
		RecommendedStrategies:      []string{"practice past papers"},
	}
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}
