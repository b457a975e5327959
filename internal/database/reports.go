package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/povarna/sonar-sweep/internal/models"
	"github.com/rs/zerolog/log"
)

var ErrReportNotFound = errors.New("report not found")

const schema = `
CREATE TABLE IF NOT EXISTS sweep_reports (
	id           UUID PRIMARY KEY,
	windowed     BOOLEAN NOT NULL,
	window_width INTEGER NOT NULL DEFAULT 0,
	measurements INTEGER NOT NULL,
	increased    INTEGER NOT NULL,
	decreased    INTEGER NOT NULL,
	unchanged    INTEGER NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL
)`

func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create sweep_reports table: %w", err)
	}
	return nil
}

// SaveReport stores the report summary. Individual records are not kept.
func (db *DB) SaveReport(ctx context.Context, report models.Report) error {
	query := `
	INSERT INTO sweep_reports
	  (id, windowed, window_width, measurements, increased, decreased, unchanged, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := db.Pool.Exec(ctx, query,
		report.ID,
		report.Windowed,
		report.WindowWidth,
		report.Count,
		report.Increased,
		report.Decreased,
		report.Unchanged,
		report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save report %s: %w", report.ID, err)
	}

	log.Debug().Str("report_id", report.ID).Msg("Report saved")
	return nil
}

func (db *DB) GetReport(ctx context.Context, id string) (*models.Report, error) {
	query := `
	SELECT id, windowed, window_width, measurements, increased, decreased, unchanged, created_at
	FROM sweep_reports
	WHERE id = $1`

	var report models.Report
	err := db.Pool.QueryRow(ctx, query, id).Scan(
		&report.ID,
		&report.Windowed,
		&report.WindowWidth,
		&report.Count,
		&report.Increased,
		&report.Decreased,
		&report.Unchanged,
		&report.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch report %s: %w", id, err)
	}

	return &report, nil
}
