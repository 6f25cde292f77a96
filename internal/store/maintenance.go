package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"contentprep/internal/content"
)

// DatabaseHealth describes the backing database for diagnostics.
type DatabaseHealth struct {
	Driver         string                 `json:"driver" yaml:"driver"`
	Location       string                 `json:"location" yaml:"location"`
	DatabaseExists bool                   `json:"database_exists" yaml:"database_exists"`
	SchemaVersion  int                    `json:"schema_version" yaml:"schema_version"`
	Sets           map[content.Status]int `json:"sets" yaml:"sets"`
	Manifests      int                    `json:"manifests" yaml:"manifests"`
	CachedOrders   int                    `json:"cached_orders" yaml:"cached_orders"`
}

// Stats returns a count of sets grouped by status.
func (s *Store) Stats(ctx context.Context) (map[content.Status]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT processing_status, COUNT(1) FROM content_sets GROUP BY processing_status")
	if err != nil {
		return nil, fmt.Errorf("set stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[content.Status]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[content.Status(status)] = count
	}
	return stats, rows.Err()
}

// CheckHealth pings the database and summarizes its contents.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{Driver: s.driver, Location: s.location}
	if s.driver == DriverSQLite {
		info, err := os.Stat(s.location)
		switch {
		case errors.Is(err, os.ErrNotExist):
			return health, nil
		case err != nil:
			return health, fmt.Errorf("stat database: %w", err)
		case info.IsDir():
			return health, fmt.Errorf("database path %q is a directory", s.location)
		}
	}
	if err := s.db.PingContext(ctx); err != nil {
		return health, fmt.Errorf("ping database: %w", err)
	}
	health.DatabaseExists = true

	version, err := s.readSchemaVersion(ctx)
	if err != nil {
		return health, err
	}
	health.SchemaVersion = version
	if health.Sets, err = s.Stats(ctx); err != nil {
		return health, err
	}
	for table, dst := range map[string]*int{
		"processing_manifests": &health.Manifests,
		"classifier_orders":    &health.CachedOrders,
	} {
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM "+table).Scan(dst); err != nil {
			return health, fmt.Errorf("count %s: %w", table, err)
		}
	}
	return health, nil
}

// DeleteCompletedBefore removes complete sets whose completion predates
// cutoff, batchSize rows per transaction, and returns the deleted IDs.
func (s *Store) DeleteCompletedBefore(ctx context.Context, cutoff time.Time, batchSize int) ([]string, error) {
	if batchSize <= 0 {
		batchSize = 50
	}
	deleted := make([]string, 0)
	for {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}
		ids, err := s.completedBefore(ctx, cutoff, batchSize)
		if err != nil {
			return deleted, err
		}
		if len(ids) == 0 {
			return deleted, nil
		}
		if err := s.deleteSets(ctx, ids); err != nil {
			return deleted, err
		}
		deleted = append(deleted, ids...)
		if len(ids) < batchSize {
			return deleted, nil
		}
	}
}

func (s *Store) completedBefore(ctx context.Context, cutoff time.Time, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT id FROM content_sets
        WHERE processing_status = ? AND completed_at IS NOT NULL AND completed_at < ?
        ORDER BY completed_at, id LIMIT ?`),
		string(content.StatusComplete), formatTime(cutoff), limit)
	if err != nil {
		return nil, fmt.Errorf("select expired sets: %w", err)
	}
	defer rows.Close()
	ids := make([]string, 0, limit)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) deleteSets(ctx context.Context, ids []string) error {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	in := "(" + makePlaceholders(len(ids)) + ")"
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"processing_manifests", "content_set_files"} {
			if _, err := tx.ExecContext(ctx, s.rebind("DELETE FROM "+table+" WHERE set_id IN "+in), args...); err != nil {
				return fmt.Errorf("delete from %s: %w", table, err)
			}
		}
		// cached classifier answers are keyed "<set id>:<membership fingerprint>"
		for _, id := range ids {
			if _, err := tx.ExecContext(ctx, s.rebind("DELETE FROM classifier_orders WHERE cache_key LIKE ?"), id+":%"); err != nil {
				return fmt.Errorf("delete cached orders: %w", err)
			}
		}
		if _, err := tx.ExecContext(ctx, s.rebind("DELETE FROM content_sets WHERE id IN "+in), args...); err != nil {
			return fmt.Errorf("delete content sets: %w", err)
		}
		return nil
	})
}
