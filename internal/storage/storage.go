package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/card-ledger/internal/config"
)

// BeginFunc opens a unit of work.
type BeginFunc func(ctx context.Context) (*Writer, error)

type Storage struct {
	*Reader
	begin  BeginFunc
	closer func() error
	ping   func(ctx context.Context) error
}

// New builds a Storage from a reader and a unit-of-work opener.
func New(reader *Reader, begin BeginFunc, closer func() error) *Storage {
	return &Storage{
		Reader: reader,
		begin:  begin,
		closer: closer,
	}
}

// NewStorage connects to Postgres.
func NewStorage(ctx context.Context, env *config.Config) (*Storage, error) {
	db, err := sql.Open("postgres", env.PostgresURL())
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return NewStorageFromDB(db), nil
}

// NewStorageFromDB wraps an open Postgres handle.
func NewStorageFromDB(db *sql.DB) *Storage {
	exec := bob.NewDB(db)

	begin := func(ctx context.Context) (*Writer, error) {
		tx, err := exec.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		return NewWriter(tx), nil
	}

	s := New(NewReader(exec), begin, db.Close)
	s.ping = db.PingContext
	return s
}

// Write opens a unit of work. The caller must end it with Commit or Rollback.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	return s.begin(ctx)
}

// Ping reports whether the backend is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

func (s *Storage) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
