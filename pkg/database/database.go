package database

import (
	"fmt"
	"sync"

	"github.com/buildledger/construct-api/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Handle owns the connection pool. It is constructed once by the process
// entry point and passed by reference to everything that touches storage;
// there is no package-level instance. Close drains the pool and is
// idempotent; no operation may be issued after Close begins.
type Handle struct {
	db        *gorm.DB
	closeOnce sync.Once
	closeErr  error
}

// Open connects to PostgreSQL and applies the pool settings from config.
func Open(dbConfig *config.DBConfig) (*Handle, error) {
	pgConfig := postgres.Config{
		DSN:                  dbConfig.GetDSN(),
		PreferSimpleProtocol: true, // Disables implicit prepared statement usage
	}

	db, err := gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger:         logger.Default.LogMode(dbConfig.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	sqlDB.SetMaxIdleConns(dbConfig.MaxIdleConns)
	sqlDB.SetMaxOpenConns(dbConfig.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)

	return &Handle{db: db}, nil
}

// FromGorm wraps an already-open gorm connection. Used by tests that run
// against an in-memory store.
func FromGorm(db *gorm.DB) *Handle {
	return &Handle{db: db}
}

// DB returns the underlying gorm connection for issuing statements.
func (h *Handle) DB() *gorm.DB {
	return h.db
}

// Migrate runs migrations for the provided models
func (h *Handle) Migrate(models ...interface{}) error {
	if h == nil || h.db == nil {
		return fmt.Errorf("database is not initialized")
	}

	if err := h.db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	return nil
}

// Close drains and closes the pool. Safe to call more than once.
func (h *Handle) Close() error {
	h.closeOnce.Do(func() {
		sqlDB, err := h.db.DB()
		if err != nil {
			h.closeErr = err
			return
		}
		h.closeErr = sqlDB.Close()
	})
	return h.closeErr
}
