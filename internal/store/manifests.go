package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"contentprep/internal/content"
)

// SaveManifest records a generated manifest. Manifests are append-only; the
// latest one per set wins on load.
func (s *Store) SaveManifest(ctx context.Context, m content.Manifest) error {
	if m.ID == "" || m.SetID == "" {
		return errors.New("manifest id and set id are required")
	}
	payload, err := marshalJSON(m)
	if err != nil {
		return err
	}
	created := m.CreatedAt
	if created.IsZero() {
		created = s.now()
	}
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, s.rebind(
			"INSERT INTO processing_manifests (id, set_id, payload_json, created_at) VALUES (?, ?, ?, ?)"),
			m.ID, m.SetID, payload, formatTime(created))
		if err != nil {
			return fmt.Errorf("insert manifest: %w", err)
		}
		return nil
	})
}

// LoadManifest returns the most recent manifest for setID.
func (s *Store) LoadManifest(ctx context.Context, setID string) (content.Manifest, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, s.rebind(
		"SELECT payload_json FROM processing_manifests WHERE set_id = ? ORDER BY created_at DESC, id DESC LIMIT 1"),
		setID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return content.Manifest{}, fmt.Errorf("%w: no manifest for %s", ErrNotFound, setID)
	}
	if err != nil {
		return content.Manifest{}, fmt.Errorf("load manifest: %w", err)
	}
	var m content.Manifest
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return content.Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	return m, nil
}
