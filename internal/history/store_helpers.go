package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mdeval/internal/fileutil"
)

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run           Run
		createdAt     string
		uemPath       sql.NullString
		uemSHA        sql.NullString
		uemSize       sql.NullInt64
		ignoreOverlap int
		statsJSON     string
	)
	if err := scanner.Scan(
		&run.ID,
		&createdAt,
		&run.Condition,
		&run.Ref.Path,
		&run.Ref.SHA256,
		&run.Ref.Size,
		&run.Sys.Path,
		&run.Sys.SHA256,
		&run.Sys.Size,
		&uemPath,
		&uemSHA,
		&uemSize,
		&run.Collar,
		&ignoreOverlap,
		&run.UnitCount,
		&run.Skipped,
		&statsJSON,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	ts, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	run.CreatedAt = ts
	run.UEM.Path = uemPath.String
	run.UEM.SHA256 = uemSHA.String
	run.UEM.Size = uemSize.Int64
	run.IgnoreOverlap = ignoreOverlap != 0
	if err := json.Unmarshal([]byte(statsJSON), &run.Total); err != nil {
		return Run{}, fmt.Errorf("decode run stats: %w", err)
	}
	return run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// nullableSize stores NULL for a missing input rather than a zero size.
func nullableSize(fp fileutil.Fingerprint) any {
	if fp.Path == "" {
		return nil
	}
	return fp.Size
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
