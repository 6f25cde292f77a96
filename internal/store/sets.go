package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"maps"
	"strings"
	"time"

	"contentprep/internal/content"
)

const setColumns = "id, name, set_key, folder, detection_method, is_complete, missing_positions, processing_status, confidence, fingerprint, metadata_json, created_at, updated_at, completed_at"

const fileColumns = "path, filename, seq_rank, detection_pattern, dependencies_json, complexity, kind, size_bytes, metadata_json"

// Filter narrows ListSets. Zero values match everything.
type Filter struct {
	Statuses []content.Status
	Folder   string
	Limit    int
}

// CreateOrUpdateSet upserts set keyed on its deterministic ID and replaces
// its members. An existing row keeps its creation time and status unless
// the member fingerprint changed, in which case the set returns to pending.
func (s *Store) CreateOrUpdateSet(ctx context.Context, set content.Set) (content.Set, error) {
	if strings.TrimSpace(set.ID) == "" {
		return content.Set{}, errors.New("content set id is required")
	}
	now := s.now().UTC()
	fingerprint := set.Fingerprint()
	missing, err := marshalJSON(nonNilInts(set.MissingPositions))
	if err != nil {
		return content.Set{}, err
	}
	metadata, err := marshalJSON(nonNilMap(set.Metadata))
	if err != nil {
		return content.Set{}, err
	}
	status := set.Status
	if status == "" {
		status = content.StatusPending
	}

	err = s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.lockKey(ctx, tx, set.ID); err != nil {
			return err
		}
		var (
			existingStatus      string
			existingFingerprint string
		)
		row := tx.QueryRowContext(ctx,
			s.rebind("SELECT processing_status, fingerprint FROM content_sets WHERE id = ?"), set.ID)
		switch err := row.Scan(&existingStatus, &existingFingerprint); {
		case errors.Is(err, sql.ErrNoRows):
			if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO content_sets (`+setColumns+`)
                VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
				set.ID, set.Name, set.Key, set.Folder, string(set.Method), boolToInt(set.IsComplete),
				missing, string(status), set.Confidence, fingerprint, metadata,
				formatTime(now), formatTime(now), nullableTime(set.CompletedAt),
			); err != nil {
				return fmt.Errorf("insert content set: %w", err)
			}
		case err != nil:
			return fmt.Errorf("read content set: %w", err)
		default:
			if existingFingerprint != fingerprint {
				if _, err := tx.ExecContext(ctx, s.rebind(
					"UPDATE content_sets SET processing_status = ?, completed_at = NULL WHERE id = ?"),
					string(content.StatusPending), set.ID); err != nil {
					return fmt.Errorf("reset content set status: %w", err)
				}
			}
			if _, err := tx.ExecContext(ctx, s.rebind(`UPDATE content_sets
                SET name = ?, set_key = ?, folder = ?, detection_method = ?, is_complete = ?,
                    missing_positions = ?, confidence = ?, fingerprint = ?, metadata_json = ?, updated_at = ?
                WHERE id = ?`),
				set.Name, set.Key, set.Folder, string(set.Method), boolToInt(set.IsComplete),
				missing, set.Confidence, fingerprint, metadata, formatTime(now), set.ID,
			); err != nil {
				return fmt.Errorf("update content set: %w", err)
			}
		}
		return s.replaceFiles(ctx, tx, set.ID, set.Files)
	})
	if err != nil {
		return content.Set{}, err
	}
	return s.GetSet(ctx, set.ID)
}

// lockKey serializes concurrent upserts of one set on PostgreSQL. SQLite
// already serializes writers.
func (s *Store) lockKey(ctx context.Context, tx *sql.Tx, key string) error {
	if s.driver != DriverPostgres {
		return nil
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", int64(h.Sum64())); err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}
	return nil
}

func (s *Store) replaceFiles(ctx context.Context, tx *sql.Tx, setID string, files []content.File) error {
	if _, err := tx.ExecContext(ctx, s.rebind("DELETE FROM content_set_files WHERE set_id = ?"), setID); err != nil {
		return fmt.Errorf("clear set files: %w", err)
	}
	insert := s.rebind(`INSERT INTO content_set_files (set_id, ordinal, ` + fileColumns + `)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	for i, f := range files {
		deps, err := marshalJSON(nonNilStrings(f.Dependencies))
		if err != nil {
			return err
		}
		meta, err := marshalJSON(nonNilMap(f.Metadata))
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, insert,
			setID, i, f.Path, f.Name, nullableInt(f.Rank), nullableString(f.Pattern), deps,
			string(f.Complexity), string(f.Kind), f.SizeBytes, meta,
		); err != nil {
			return fmt.Errorf("insert set file %s: %w", f.Path, err)
		}
	}
	return nil
}

// GetSet loads a set and its members.
func (s *Store) GetSet(ctx context.Context, id string) (content.Set, error) {
	return s.getSet(ctx, s.db, id)
}

func (s *Store) getSet(ctx context.Context, q queryer, id string) (content.Set, error) {
	row := q.QueryRowContext(ctx, s.rebind("SELECT "+setColumns+" FROM content_sets WHERE id = ?"), id)
	set, err := scanSet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return content.Set{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return content.Set{}, fmt.Errorf("get content set: %w", err)
	}
	if set.Files, err = s.loadFiles(ctx, q, id); err != nil {
		return content.Set{}, err
	}
	return set, nil
}

// ListSets returns sets newest first. Members are loaded after the set rows
// are drained so the single SQLite connection is never held twice.
func (s *Store) ListSets(ctx context.Context, filter Filter) ([]content.Set, error) {
	var (
		clauses []string
		args    []any
	)
	if len(filter.Statuses) > 0 {
		clauses = append(clauses, "processing_status IN ("+makePlaceholders(len(filter.Statuses))+")")
		for _, status := range filter.Statuses {
			args = append(args, string(status))
		}
	}
	if folder := strings.TrimSpace(filter.Folder); folder != "" {
		clauses = append(clauses, "folder = ?")
		args = append(args, folder)
	}
	query := "SELECT " + setColumns + " FROM content_sets"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list content sets: %w", err)
	}
	sets := make([]content.Set, 0)
	for rows.Next() {
		set, err := scanSet(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan content set: %w", err)
		}
		sets = append(sets, set)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range sets {
		if sets[i].Files, err = s.loadFiles(ctx, s.db, sets[i].ID); err != nil {
			return nil, err
		}
	}
	return sets, nil
}

// UpdateStatus moves a set along its lifecycle. Invalid moves return
// *content.InvalidTransitionError and leave the row untouched.
func (s *Store) UpdateStatus(ctx context.Context, id string, to content.Status) (content.Set, error) {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var current string
		err := tx.QueryRowContext(ctx, s.rebind("SELECT processing_status FROM content_sets WHERE id = ?"), id).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		if err != nil {
			return fmt.Errorf("read status: %w", err)
		}
		from := content.Status(current)
		if !content.CanTransition(from, to) {
			return &content.InvalidTransitionError{From: from, To: to}
		}
		now := s.now().UTC()
		var completed *time.Time
		if to == content.StatusComplete {
			completed = &now
		}
		if _, err := tx.ExecContext(ctx, s.rebind(
			"UPDATE content_sets SET processing_status = ?, updated_at = ?, completed_at = ? WHERE id = ?"),
			string(to), formatTime(now), nullableTime(completed), id); err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		return nil
	})
	if err != nil {
		return content.Set{}, err
	}
	return s.GetSet(ctx, id)
}

func (s *Store) loadFiles(ctx context.Context, q queryer, setID string) ([]content.File, error) {
	rows, err := q.QueryContext(ctx,
		s.rebind("SELECT "+fileColumns+" FROM content_set_files WHERE set_id = ? ORDER BY ordinal"), setID)
	if err != nil {
		return nil, fmt.Errorf("load set files: %w", err)
	}
	defer rows.Close()

	files := make([]content.File, 0)
	for rows.Next() {
		var (
			f        content.File
			rank     sql.NullInt64
			pattern  sql.NullString
			deps     sql.NullString
			meta     sql.NullString
			cplx     string
			kind     string
			sizeByte int64
		)
		if err := rows.Scan(&f.Path, &f.Name, &rank, &pattern, &deps, &cplx, &kind, &sizeByte, &meta); err != nil {
			return nil, fmt.Errorf("scan set file: %w", err)
		}
		if rank.Valid {
			value := int(rank.Int64)
			f.Rank = &value
		}
		f.Pattern = pattern.String
		f.Complexity, _ = content.ParseComplexity(cplx)
		f.Kind = content.Kind(kind)
		f.SizeBytes = sizeByte
		if f.Dependencies, err = unmarshalJSON(deps, []string{}); err != nil {
			return nil, err
		}
		if f.Metadata, err = unmarshalJSON(meta, map[string]string{}); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func scanSet(scanner interface{ Scan(dest ...any) error }) (content.Set, error) {
	var (
		set         content.Set
		method      string
		isComplete  int
		missingRaw  sql.NullString
		status      string
		fingerprint string
		metadataRaw sql.NullString
		createdRaw  string
		updatedRaw  string
		completeRaw sql.NullString
	)
	if err := scanner.Scan(
		&set.ID, &set.Name, &set.Key, &set.Folder, &method, &isComplete, &missingRaw,
		&status, &set.Confidence, &fingerprint, &metadataRaw, &createdRaw, &updatedRaw, &completeRaw,
	); err != nil {
		return content.Set{}, err
	}
	set.Method = content.Method(method)
	set.IsComplete = isComplete != 0
	set.Status = content.Status(status)

	var err error
	if set.MissingPositions, err = unmarshalJSON(missingRaw, []int{}); err != nil {
		return content.Set{}, err
	}
	if set.Metadata, err = unmarshalJSON(metadataRaw, map[string]string{}); err != nil {
		return content.Set{}, err
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		set.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		set.UpdatedAt = updated
	}
	if completeRaw.Valid {
		if completed, err := parseTimeString(completeRaw.String); err == nil {
			set.CompletedAt = &completed
		}
	}
	return set, nil
}

func nonNilInts(values []int) []int {
	if values == nil {
		return []int{}
	}
	return values
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func nonNilMap(values map[string]string) map[string]string {
	if values == nil {
		return map[string]string{}
	}
	return maps.Clone(values)
}
