package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/vbonduro/depositdefender/internal/domain"
)

// Clock supplies the current time for timestamp stamping.
type Clock func() time.Time

// Store persists properties, inspections, rooms, checklist items, photos,
// reports and share links in one SQLite database. It is constructed once by
// the caller and shared; it holds no package-level state.
type Store struct {
	db    *sql.DB
	clock Clock

	mu        sync.Mutex
	lastStamp time.Time
}

type Option func(*Store)

// WithClock replaces time.Now, mainly for tests.
func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db, clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

// stamp returns the current UTC time, forced strictly past every stamp this
// store has handed out so creation order and update order are total.
func (s *Store) stamp() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock().UTC()
	if !now.After(s.lastStamp) {
		now = s.lastStamp.Add(time.Nanosecond)
	}
	s.lastStamp = now
	return now
}

// stampCreate sets both timestamps of a new Property or Inspection.
func (s *Store) stampCreate(createdAt, updatedAt *time.Time) {
	now := s.stamp()
	*createdAt = now
	*updatedAt = now
}

// stampUpdate moves updatedAt forward to now, never backwards or sideways.
func (s *Store) stampUpdate(updatedAt *time.Time) time.Time {
	now := s.stamp()
	if !now.After(*updatedAt) {
		now = updatedAt.Add(time.Nanosecond)
	}
	*updatedAt = now
	return now
}

func newID() string {
	return uuid.NewString()
}

// withTx runs fn in a transaction, committing on success.
func (s *Store) withTx(ctx context.Context, fn func(q querier) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr("begin transaction", err)
	}
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			slog.Error("failed to roll back transaction", "error", rerr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return wrapErr("commit transaction", err)
	}
	return nil
}

// wrapErr adds context and tags quota failures with ErrStorageExhausted.
func wrapErr(op string, err error) error {
	var serr *sqlite.Error
	if errors.As(err, &serr) && serr.Code()&0xff == sqlite3.SQLITE_FULL {
		return fmt.Errorf("failed to %s: %w: %w", op, domain.ErrStorageExhausted, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// expectOne converts a zero-row write into ErrNotFound.
func expectOne(result sql.Result, what string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return nil
}

func utc(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return t.UTC()
}

func toNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromNanos(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

func nullNanos(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toNanos(*t), Valid: true}
}

func fromNullNanos(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := fromNanos(n.Int64)
	return &t
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		slog.Error("failed to close rows", "error", err)
	}
}

// collect drains rows through scan, closing them.
func collect[T any](rows *sql.Rows, scan func(scanner) (*T, error), what string) ([]*T, error) {
	defer closeRows(rows)

	out := make([]*T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", what, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", what, err)
	}
	return out, nil
}
