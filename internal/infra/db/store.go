package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"itemsapi/internal/config"
	"itemsapi/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultConnectTimeout = 10 * time.Second

const createItemsTable = `
CREATE TABLE IF NOT EXISTS items (
    item_id SERIAL PRIMARY KEY,
    item_name TEXT NOT NULL,
    item_desc TEXT NOT NULL
)`

// Store owns the pooled database handle shared by every repository.
type Store struct {
	DB *gorm.DB
}

func NewStore(cfg config.Config) (*Store, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, fmt.Errorf("%w: DATABASE_URL is required", domain.ErrStartup)
	}

	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	if cfg.Debug() {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}
	gdb, err := gorm.Open(postgres.Open(cfg.DatabaseURL), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: connect postgres: %v", domain.ErrStartup, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: connection pool: %v", domain.ErrStartup, err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	timeout := cfg.DBConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%w: ping postgres: %v", domain.ErrStartup, err)
	}

	return &Store{DB: gdb}, nil
}

// EnsureSchema creates the items table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return fmt.Errorf("%w: %v", domain.ErrStartup, errDBUnavailable)
	}
	if err := s.DB.WithContext(ctx).Exec(createItemsTable).Error; err != nil {
		return fmt.Errorf("%w: create items table: %v", domain.ErrStartup, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return errDBUnavailable
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
