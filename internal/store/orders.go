package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetOrder returns a cached classifier order.
func (s *Store) GetOrder(ctx context.Context, key string) ([]string, bool, error) {
	var raw sql.NullString
	err := s.db.QueryRowContext(ctx, s.rebind("SELECT order_json FROM classifier_orders WHERE cache_key = ?"), key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached order: %w", err)
	}
	order, err := unmarshalJSON(raw, []string{})
	if err != nil {
		return nil, false, err
	}
	return order, true, nil
}

// PutOrder stores a validated classifier order under key.
func (s *Store) PutOrder(ctx context.Context, key string, order []string) error {
	payload, err := marshalJSON(nonNilStrings(order))
	if err != nil {
		return err
	}
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, s.rebind(`INSERT INTO classifier_orders (cache_key, order_json, created_at)
            VALUES (?, ?, ?)
            ON CONFLICT (cache_key) DO UPDATE SET order_json = excluded.order_json, created_at = excluded.created_at`),
			key, payload, formatTime(s.now()))
		if err != nil {
			return fmt.Errorf("put cached order: %w", err)
		}
		return nil
	})
}
