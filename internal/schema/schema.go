// Package schema makes sure the application database and its tables
// exist before requests are served.
package schema

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"room-scheduler-api/internal/config"
)

//go:embed schema.sql
var tablesDDL string

// Tables lists the managed tables in creation order.
var Tables = []string{"rooms", "users", "appointments"}

// another instance won the race to create it
const duplicateDatabase = "42P04"

type Manager struct {
	cfg *config.Config
	log *zap.Logger
}

func NewManager(cfg *config.Config, log *zap.Logger) *Manager {
	return &Manager{cfg: cfg, log: log}
}

// Run bootstraps the schema and reports whether it is in place. Failures
// are logged only; the caller keeps starting and requests fail later
// against the missing schema.
func (m *Manager) Run(ctx context.Context) bool {
	if err := m.Ensure(ctx); err != nil {
		m.log.Warn("schema bootstrap failed, continuing without it", zap.Error(err))
		return false
	}
	m.log.Info("schema ready", zap.String("database", m.cfg.DB.Name))
	return true
}

// Ensure is idempotent. Tables are still attempted when the database step
// fails.
func (m *Manager) Ensure(ctx context.Context) error {
	dbErr := m.ensureDatabase(ctx)
	if dbErr != nil {
		m.log.Warn("database check failed, trying tables anyway", zap.Error(dbErr))
	}
	return errors.Join(dbErr, m.ensureTables(ctx))
}

func (m *Manager) connect(ctx context.Context, dsn string) (*pgx.Conn, error) {
	cc, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cc.ConnectTimeout = m.cfg.DB.ConnectTimeout
	return pgx.ConnectConfig(ctx, cc)
}

func (m *Manager) ensureDatabase(ctx context.Context) error {
	conn, err := m.connect(ctx, m.cfg.MaintenanceDSN())
	if err != nil {
		return fmt.Errorf("connect to server: %w", err)
	}
	defer conn.Close(ctx)

	var exists bool
	err = conn.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)`, m.cfg.DB.Name,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("lookup database: %w", err)
	}
	if exists {
		return nil
	}

	// CREATE DATABASE takes no parameters
	_, err = conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{m.cfg.DB.Name}.Sanitize())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == duplicateDatabase {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create database %s: %w", m.cfg.DB.Name, err)
	}
	m.log.Info("database created", zap.String("database", m.cfg.DB.Name))
	return nil
}

func (m *Manager) ensureTables(ctx context.Context) error {
	conn, err := m.connect(ctx, m.cfg.DSN())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, tablesDDL); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
