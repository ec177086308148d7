package store

import (
	"context"
	"fmt"

	"github.com/ledskov/openwall/internal/config"
	"github.com/ledskov/openwall/internal/logger"
	"github.com/ledskov/openwall/migrations"
)

// Storages bundles every repository backed by the shared database
// connection. It is constructed once at process start and handed to the
// service layer.
type Storages struct {
	UserRepository    UserRepository
	MessageRepository MessageRepository

	db *DB
}

// NewStorages connects to PostgreSQL, applies pending schema migrations and
// wires all repositories.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err := migrations.Migrate(db.DB); err != nil {
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	return &Storages{
		UserRepository:    NewUserRepository(db, log),
		MessageRepository: NewMessageRepository(db, log),
		db:                db,
	}, nil
}

// Close releases the underlying database connection pool.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
