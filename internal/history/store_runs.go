package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Record archives run and returns it with its assigned ID and timestamp. An
// exclusive file lock next to the database serializes concurrent writers.
func (s *Store) Record(ctx context.Context, run Run) (Run, error) {
	ctx = ensureContext(ctx)
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	run.UnitCount = len(run.Units)

	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return Run{}, fmt.Errorf("acquire history lock: %w", err)
	}
	if !locked {
		return Run{}, fmt.Errorf("acquire history lock: %s is held by another writer", s.lock.Path())
	}
	defer func() { _ = s.lock.Unlock() }()

	if err := retryOnBusy(ctx, func() error { return s.insertRun(ctx, run) }); err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	return run, nil
}

func (s *Store) insertRun(ctx context.Context, run Run) error {
	totalJSON, err := json.Marshal(run.Total)
	if err != nil {
		return fmt.Errorf("marshal totals: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (
            id, created_at, condition, ref_path, ref_sha256, ref_size,
            sys_path, sys_sha256, sys_size, uem_path, uem_sha256, uem_size,
            collar, ignore_overlap, unit_count, skipped, der, stats_json
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.CreatedAt.UTC().Format(timeLayout),
		run.Condition,
		run.Ref.Path,
		run.Ref.SHA256,
		run.Ref.Size,
		run.Sys.Path,
		run.Sys.SHA256,
		run.Sys.Size,
		nullableString(run.UEM.Path),
		nullableString(run.UEM.SHA256),
		nullableSize(run.UEM),
		run.Collar,
		boolToInt(run.IgnoreOverlap),
		run.UnitCount,
		run.Skipped,
		run.DER(),
		string(totalJSON),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, unit := range run.Units {
		statsJSON, err := json.Marshal(unit.Stats)
		if err != nil {
			return fmt.Errorf("marshal unit stats: %w", err)
		}
		mappingJSON, err := json.Marshal(unit.Mapping)
		if err != nil {
			return fmt.Errorf("marshal unit mapping: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_units (run_id, file, channel, mask_source, der, stats_json, mapping_json)
            VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, unit.File, unit.Channel, unit.MaskSource, unit.Stats.DER(),
			string(statsJSON), string(mappingJSON),
		); err != nil {
			return fmt.Errorf("insert unit %s/%s: %w", unit.File, unit.Channel, err)
		}
	}

	return tx.Commit()
}

const runColumns = `id, created_at, condition, ref_path, ref_sha256, ref_size,
    sys_path, sys_sha256, sys_size, uem_path, uem_sha256, uem_size,
    collar, ignore_overlap, unit_count, skipped, stats_json`

// List returns the most recent runs, newest first, without their units. A
// limit of zero or less returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := "SELECT " + runColumns + " FROM runs ORDER BY created_at DESC, id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Get returns the run with the given ID, including its units in
// (file, channel) order.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT file, channel, mask_source, stats_json, mapping_json
        FROM run_units WHERE run_id = ? ORDER BY file, channel`, id)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()

	run.Units = []UnitRecord{}
	for rows.Next() {
		var (
			unit        UnitRecord
			statsJSON   string
			mappingJSON string
		)
		if err := rows.Scan(&unit.File, &unit.Channel, &unit.MaskSource, &statsJSON, &mappingJSON); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		if err := json.Unmarshal([]byte(statsJSON), &unit.Stats); err != nil {
			return nil, fmt.Errorf("decode unit stats: %w", err)
		}
		if err := json.Unmarshal([]byte(mappingJSON), &unit.Mapping); err != nil {
			return nil, fmt.Errorf("decode unit mapping: %w", err)
		}
		run.Units = append(run.Units, unit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate units: %w", err)
	}
	return &run, nil
}
