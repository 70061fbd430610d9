package di

import (
	"fmt"

	"github.com/studyace/studyace-server/internal/ai"
	"github.com/studyace/studyace-server/internal/chat"
	"github.com/studyace/studyace-server/internal/config"
	"github.com/studyace/studyace-server/internal/handler"
	"github.com/studyace/studyace-server/internal/health"
	"github.com/studyace/studyace-server/internal/metrics"
	"github.com/studyace/studyace-server/internal/server"
	"github.com/studyace/studyace-server/internal/store"
)

// InitializeApp wires the application dependencies and returns an App.
func InitializeApp() (*App, error) {
	cfg, err := config.ProvideConfig()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	metricsStore := metrics.NewStore()

	st, err := store.Open(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	relay, err := ai.NewClient(cfg, metricsStore)
	if err != nil {
		return nil, fmt.Errorf("ai relay: %w", err)
	}

	chatCache, err := chat.NewCache(cfg)
	if err != nil {
		return nil, fmt.Errorf("chat cache: %w", err)
	}

	chatService, err := chat.NewService(cfg, st, chatCache, relay, logger)
	if err != nil {
		return nil, fmt.Errorf("chat service: %w", err)
	}

	checker := health.NewChecker(cfg, st, chatCache)

	router := handler.NewRouter(
		cfg,
		logger,
		checker,
		handler.NewUserHandler(cfg, st, logger),
		handler.NewPaperHandler(cfg, st, relay, logger),
		handler.NewResourceHandler(cfg, st, logger),
		handler.NewExamHandler(cfg, st, relay, logger),
		handler.NewPostHandler(cfg, st, logger),
		handler.NewChatHandler(cfg, chatService, logger),
		handler.NewAnalyticsHandler(cfg, st, logger),
		handler.NewDashboardHandler(cfg, st, logger),
		handler.NewMetricsHandler(metricsStore),
	)
	httpServer := server.NewHTTPServer(cfg, router)

	return NewApp(httpServer, logger, cfg, st, chatCache), nil
}
