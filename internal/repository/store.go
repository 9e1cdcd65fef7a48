package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Querier is the subset of *sql.DB and *sql.Tx used by the repositories.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store groups the repositories over one database handle and exposes
// multi-entity writes as a single unit of work.
type Store struct {
	db      *sql.DB
	dialect string

	Users        *UserRepo
	Tables       *TableRepo
	Reservations *ReservationRepo
}

// Tx is the view of the store inside a unit of work.  Its repositories
// are bound to the open transaction.
type Tx struct {
	Users        *UserRepo
	Tables       *TableRepo
	Reservations *ReservationRepo
}

// NewStore returns a Store for db.  dialect is the driver name
// ("mysql" or "sqlite3") and controls row locking.
func NewStore(db *sql.DB, dialect string) *Store {
	lock := lockClause(dialect)
	return &Store{
		db:           db,
		dialect:      dialect,
		Users:        &UserRepo{db: db},
		Tables:       &TableRepo{db: db, lock: lock},
		Reservations: &ReservationRepo{db: db, lock: lock},
	}
}

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB { return s.db }

// Atomic runs fn inside a transaction.  The transaction commits when fn
// returns nil and rolls back on error or panic, so callers never observe
// a partial write.
func (s *Store) Atomic(ctx context.Context, fn func(tx *Tx) error) (err error) {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = sqlTx.Rollback()
		}
	}()

	lock := lockClause(s.dialect)
	if err := fn(&Tx{
		Users:        &UserRepo{db: sqlTx},
		Tables:       &TableRepo{db: sqlTx, lock: lock},
		Reservations: &ReservationRepo{db: sqlTx, lock: lock},
	}); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}

// lockClause returns the row-lock suffix for SELECTs inside a
// transaction.  SQLite has no row locks; its single writer already
// serializes transactions.
func lockClause(dialect string) string {
	if dialect == "mysql" {
		return " FOR UPDATE"
	}
	return ""
}

// placeholders returns "?,?,..." with n entries and the ids as args.
func placeholders(ids []uint64) (string, []any) {
	args := make([]any, 0, len(ids))
	q := make([]byte, 0, len(ids)*2)
	for i, id := range ids {
		if i > 0 {
			q = append(q, ',')
		}
		q = append(q, '?')
		args = append(args, id)
	}
	return string(q), args
}
