package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/naumanrao/courseadmin/internal/db"
)

// SQLiteKVStore implements KVStore on one of the storage tables.
type SQLiteKVStore struct {
	db    *sql.DB
	uow   db.UnitOfWork
	table string
	now   func() time.Time
}

// KVOption customizes a SQLiteKVStore.
type KVOption func(*SQLiteKVStore)

// WithUnitOfWork replaces the transaction runner used by SetMany and Delete.
func WithUnitOfWork(uow db.UnitOfWork) KVOption {
	return func(s *SQLiteKVStore) { s.uow = uow }
}

// NewSQLiteSessionValues returns the session-scoped storage area.
func NewSQLiteSessionValues(database *sql.DB, opts ...KVOption) *SQLiteKVStore {
	return newSQLiteKVStore(database, db.TableSessionValues, opts...)
}

// NewSQLiteLocalValues returns the persistent storage area.
func NewSQLiteLocalValues(database *sql.DB, opts ...KVOption) *SQLiteKVStore {
	return newSQLiteKVStore(database, db.TableLocalValues, opts...)
}

func newSQLiteKVStore(database *sql.DB, table string, opts ...KVOption) *SQLiteKVStore {
	s := &SQLiteKVStore{
		db:    database,
		uow:   db.NewSQLiteUnitOfWork(database),
		table: table,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SQLiteKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM `+s.table+` WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s.%s: %w", s.table, key, err)
	}
	return value, true, nil
}

func (s *SQLiteKVStore) GetMany(ctx context.Context, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	query := `SELECT key, value FROM ` + s.table + ` WHERE key IN (` + placeholders(len(keys)) + `)`
	rows, err := s.db.QueryContext(ctx, query, toArgs(keys)...)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", s.table, err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

func (s *SQLiteKVStore) Set(ctx context.Context, key, value string) error {
	return s.upsert(ctx, s.db, key, value)
}

func (s *SQLiteKVStore) SetMany(ctx context.Context, values map[string]string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		for k, v := range values {
			if err := s.upsert(ctx, tx, k, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteKVStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		for _, k := range keys {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+s.table+` WHERE key = ?`, k); err != nil {
				return fmt.Errorf("deleting %s.%s: %w", s.table, k, err)
			}
		}
		return nil
	})
}

func (s *SQLiteKVStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM `+s.table); err != nil {
		return fmt.Errorf("clearing %s: %w", s.table, err)
	}
	return nil
}

func (s *SQLiteKVStore) upsert(ctx context.Context, q db.DBTX, key, value string) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO `+s.table+` (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing %s.%s: %w", s.table, key, err)
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func toArgs(keys []string) []any {
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	return args
}
