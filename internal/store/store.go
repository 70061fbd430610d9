package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/studyace/studyace-server/internal/config"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store provides typed access to all persisted entities.
type Store struct {
	db     *gorm.DB
	sqlDB  *sql.DB
	logger *slog.Logger
}

// Open connects to Postgres, applies pool settings and migrates the schema.
func Open(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	gormCfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	}
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get db handle: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.Database.MinPool)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxPool)
	if cfg.Database.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetimeMinutes) * time.Minute)
	}

	store := &Store{db: db, sqlDB: sqlDB, logger: logger}
	if err := store.migrate(); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("db_connected", "host", cfg.Database.Host, "name", cfg.Database.Name)
	}
	return store, nil
}

// NewWithDB wraps an already-open GORM handle and migrates the schema.
// Used by tests with an in-memory database.
func NewWithDB(db *gorm.DB, logger *slog.Logger) (*Store, error) {
	store := &Store{db: db, logger: logger}
	if err := store.migrate(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) migrate() error {
	err := s.db.AutoMigrate(
		&User{},
		&QuestionPaper{},
		&StudyResource{},
		&VideoResource{},
		&ExamSchedule{},
		&StudyAnalytics{},
		&CommunityPost{},
		&ChatHistory{},
	)
	if err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	if s.sqlDB != nil {
		return s.sqlDB.PingContext(ctx)
	}
	return s.db.WithContext(ctx).Exec("SELECT 1").Error
}

// Close releases the underlying connection pool.
func (s *Store) Close() {
	if s.sqlDB != nil {
		_ = s.sqlDB.Close()
		s.sqlDB = nil
	}
}

func notFound(entity string, id int64, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
	}
	return err
}
