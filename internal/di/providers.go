package di

import (
	"fmt"
	"log/slog"

	"github.com/studyace/studyace-server/internal/config"
	"github.com/studyace/studyace-server/internal/logging"
)

// ProvideLogger configures and returns the application logger.
func ProvideLogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}
