package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"room-scheduler-api/internal/config"
)

var ErrNotFound = errors.New("not found")

type Kind int

const (
	KindQuery Kind = iota
	KindConnection
	KindIntegrity
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindIntegrity:
		return "integrity"
	default:
		return "query"
	}
}

// Error is returned for every failed statement other than a missing row.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) == 5 && pgErr.Code[:2] == "23" {
		return &Error{Op: op, Kind: KindIntegrity, Err: err}
	}
	return &Error{Op: op, Kind: KindQuery, Err: err}
}

type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func New(pool *pgxpool.Pool, log *zap.Logger) *Store {
	return &Store{pool: pool, log: log}
}

// Open builds the pool from cfg. Connections are dialed lazily so a
// store that is down at startup only fails the requests that need it.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Store, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.DB.MaxConns > 0 {
		pc.MaxConns = int32(cfg.DB.MaxConns)
	}
	pc.ConnConfig.ConnectTimeout = cfg.DB.ConnectTimeout
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("pool: %w", err)
	}
	return New(pool, log), nil
}

func (s *Store) Close() { s.pool.Close() }

func (s *Store) Ping(ctx context.Context) error {
	return s.withConn(ctx, "ping", func(c *pgxpool.Conn) error {
		return c.Ping(ctx)
	})
}

// withConn acquires one connection for the duration of fn and always
// releases it.
func (s *Store) withConn(ctx context.Context, op string, fn func(c *pgxpool.Conn) error) error {
	c, err := s.pool.Acquire(ctx)
	if err != nil {
		s.log.Error("acquire connection", zap.String("op", op), zap.Error(err))
		return &Error{Op: op, Kind: KindConnection, Err: err}
	}
	defer c.Release()

	err = classify(op, fn(c))
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.log.Error("statement failed", zap.String("op", op), zap.Error(err))
	}
	return err
}
