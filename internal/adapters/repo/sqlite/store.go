// Package sqlite provides a SQLite-backed observation store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/observation-displayer/internal/adapters/repo/sqlite/migrations"
	"github.com/bnema/observation-displayer/internal/domain"
	"github.com/bnema/observation-displayer/internal/ports"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const dsnPragmas = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

// Store persists observation records in SQLite. Rows are never deleted;
// removal flips the active flag.
type Store struct {
	sqlDB *sql.DB
}

var _ ports.ObservationStore = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite observation store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)

	sqlDB, err := sql.Open("sqlite", cleanPath+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", wrapUnavailable(err))
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) Insert(ctx context.Context, record domain.Record) (domain.ObservationID, error) {
	if err := ctx.Err(); err != nil {
		return domain.UnassignedID, err
	}
	if err := record.Validate(); err != nil {
		return domain.UnassignedID, err
	}

	var expiration sql.NullInt64
	if record.Expiration != nil {
		expiration = sql.NullInt64{Int64: toMillis(*record.Expiration), Valid: true}
	}

	result, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO observations (
		   created_at, author, world, x, y, z, yaw, pitch, content, expiration, temporary, active
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
		toMillis(record.CreatedAt),
		record.Author,
		record.View.World,
		record.View.X,
		record.View.Y,
		record.View.Z,
		record.View.Yaw,
		record.View.Pitch,
		record.Content,
		expiration,
		record.Temporary,
	)
	if err != nil {
		return domain.UnassignedID, fmt.Errorf("insert observation: %w", wrapUnavailable(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domain.UnassignedID, fmt.Errorf("read observation id: %w", err)
	}

	return domain.ObservationID(id), nil
}

// MarkInactive is idempotent; an unknown id is reported as not found.
func (s *Store) MarkInactive(ctx context.Context, id domain.ObservationID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	result, err := s.sqlDB.ExecContext(ctx, `UPDATE observations SET active = 0 WHERE id = ?`, int64(id))
	if err != nil {
		return fmt.Errorf("mark observation %d inactive: %w", id, wrapUnavailable(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark observation %d inactive: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("mark observation %d inactive: %w", id, domain.ErrObservationNotFound)
	}

	return nil
}

// MarkExpiredInactive never touches temporary rows; they leave storage only
// through MarkInactive.
func (s *Store) MarkExpiredInactive(ctx context.Context, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	result, err := s.sqlDB.ExecContext(ctx,
		`UPDATE observations SET active = 0
		  WHERE active = 1 AND temporary = 0 AND expiration IS NOT NULL AND expiration < ?`,
		toMillis(now),
	)
	if err != nil {
		return 0, fmt.Errorf("mark expired observations inactive: %w", wrapUnavailable(err))
	}

	return result.RowsAffected()
}

func (s *Store) ListActive(ctx context.Context) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, created_at, author, world, x, y, z, yaw, pitch, content, expiration, temporary
		   FROM observations
		  WHERE active = 1
		  ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list observations: %w", wrapUnavailable(err))
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		var (
			record     domain.Record
			id         int64
			createdAt  int64
			expiration sql.NullInt64
		)
		if err := rows.Scan(
			&id,
			&createdAt,
			&record.Author,
			&record.View.World,
			&record.View.X,
			&record.View.Y,
			&record.View.Z,
			&record.View.Yaw,
			&record.View.Pitch,
			&record.Content,
			&expiration,
			&record.Temporary,
		); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		record.ID = domain.ObservationID(id)
		record.CreatedAt = fromMillis(createdAt)
		if expiration.Valid {
			at := fromMillis(expiration.Int64)
			record.Expiration = &at
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate observations: %w", err)
	}

	return records, nil
}

// wrapUnavailable tags lock contention so callers can tell a busy database
// from a broken query.
func wrapUnavailable(err error) error {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_LOCKED, sqlite3lib.SQLITE_CANTOPEN:
			return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
		}
	}
	return err
}
