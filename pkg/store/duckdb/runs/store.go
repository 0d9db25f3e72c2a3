package runs

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/de-tools/campaign-atlas/pkg/adapters"
	"github.com/de-tools/campaign-atlas/pkg/models/domain"
	"github.com/de-tools/campaign-atlas/pkg/models/store"
)

// Store keeps the history of pipeline runs in the local DuckDB database.
type Store interface {
	Create(ctx context.Context, run *domain.PipelineRun) error
	Finish(ctx context.Context, run *domain.PipelineRun) error
	List(ctx context.Context, limit int) ([]domain.PipelineRun, error)
}

type defaultStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &defaultStore{
		db: db,
	}, nil
}

func encodeWarnings(warnings []string) (sql.NullString, error) {
	if len(warnings) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(warnings)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal warnings: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// nullable unwraps sql.Null* values into plain driver values; go-duckdb binds
// parameters without running them through driver.Valuer.
func nullable(v driver.Valuer) any {
	value, _ := v.Value()
	return value
}

func (s *defaultStore) Create(ctx context.Context, run *domain.PipelineRun) error {
	r := adapters.MapDomainRunToStore(run)
	warnings, err := encodeWarnings(r.Warnings)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO pipeline_runs (
			id, status, started_at, finished_at, campaign_records, customer_records, warnings, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Status, r.StartedAt, nullable(r.FinishedAt), r.CampaignRecords, r.CustomerRecords,
		nullable(warnings), nullable(r.Error),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", r.ID, err)
	}
	return nil
}

// Finish records the terminal state of a run created earlier.
func (s *defaultStore) Finish(ctx context.Context, run *domain.PipelineRun) error {
	r := adapters.MapDomainRunToStore(run)
	warnings, err := encodeWarnings(r.Warnings)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE pipeline_runs
		SET status = ?, finished_at = ?, campaign_records = ?, customer_records = ?, warnings = ?, error = ?
		WHERE id = ?`,
		r.Status, nullable(r.FinishedAt), r.CampaignRecords, r.CustomerRecords,
		nullable(warnings), nullable(r.Error), r.ID,
	)
	if err != nil {
		return fmt.Errorf("update run %s: %w", r.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run %s not found", r.ID)
	}
	return nil
}

// List returns the most recent runs first. A non-positive limit returns all runs.
func (s *defaultStore) List(ctx context.Context, limit int) ([]domain.PipelineRun, error) {
	query := `
		SELECT id, status, started_at, finished_at, campaign_records, customer_records, warnings, error
		FROM pipeline_runs
		ORDER BY started_at DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.PipelineRun
	for rows.Next() {
		var (
			r        store.PipelineRun
			warnings sql.NullString
		)
		if err := rows.Scan(
			&r.ID,
			&r.Status,
			&r.StartedAt,
			&r.FinishedAt,
			&r.CampaignRecords,
			&r.CustomerRecords,
			&warnings,
			&r.Error,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}

		if warnings.Valid {
			if err := json.Unmarshal([]byte(warnings.String), &r.Warnings); err != nil {
				return nil, fmt.Errorf("unmarshal warnings of run %s: %w", r.ID, err)
			}
		}
		runs = append(runs, *adapters.MapStoreRunToDomain(&r))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
