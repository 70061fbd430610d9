package di

import (
	"log/slog"
	"net/http"

	"github.com/studyace/studyace-server/internal/chat"
	"github.com/studyace/studyace-server/internal/config"
	"github.com/studyace/studyace-server/internal/store"
)

// App bundles the assembled application components.
type App struct {
	Server    *http.Server
	Logger    *slog.Logger
	Config    *config.Config
	Store     *store.Store
	ChatCache *chat.Cache
}

// NewApp builds an App instance.
func NewApp(
	server *http.Server,
	logger *slog.Logger,
	cfg *config.Config,
	st *store.Store,
	chatCache *chat.Cache,
) *App {
	return &App{
		Server:    server,
		Logger:    logger,
		Config:    cfg,
		Store:     st,
		ChatCache: chatCache,
	}
}

// Close releases application resources.
func (a *App) Close() {
	if a.ChatCache != nil {
		a.ChatCache.Close()
	}
	if a.Store != nil {
		a.Store.Close()
	}
}
