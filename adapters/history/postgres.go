package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"simlab/domain/core"
	"simlab/domain/sim"
	"simlab/ports"
)

// PostgresRepository stores run records in the simlab_runs table. The schema
// is created by the migration runner at startup.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a PostgreSQL-backed history store.
func NewPostgresRepository(db *sqlx.DB) ports.HistoryRepository {
	return &PostgresRepository{db: db}
}

// SaveRun appends one run record. Records are immutable; replays of the same
// identifier are ignored.
func (r *PostgresRepository) SaveRun(ctx context.Context, record *sim.RunRecord) error {
	if record == nil {
		return fmt.Errorf("history: nil run record")
	}
	paramsJSON, _ := json.Marshal(record.Params)
	metricsJSON, _ := json.Marshal(record.Metrics)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO simlab_runs (id, kind, label, seed, params, metrics, fingerprint, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING`,
		record.ID.String(), string(record.Kind), record.Label, record.Seed,
		paramsJSON, metricsJSON, record.Fingerprint.String(), record.CreatedAt.Time())
	return err
}

// GetRun retrieves a record by identifier.
func (r *PostgresRepository) GetRun(ctx context.Context, id core.RunID) (*sim.RunRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, kind, label, seed, params, metrics, fingerprint, created_at
		FROM simlab_runs
		WHERE id = $1`, id.String())

	record, err := scanRunRecord(row)
	if err == sql.ErrNoRows {
		return nil, core.NewNotFoundError("run", id.String())
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListRuns returns matching records newest first.
func (r *PostgresRepository) ListRuns(ctx context.Context, filters ports.RunFilters) ([]sim.RunRecord, error) {
	query := `
		SELECT id, kind, label, seed, params, metrics, fingerprint, created_at
		FROM simlab_runs`
	var args []interface{}
	if filters.Kind != "" {
		query += " WHERE kind = $1"
		args = append(args, string(filters.Kind))
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, filters.Limit)
	}
	if filters.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, filters.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []sim.RunRecord
	for rows.Next() {
		record, err := scanRunRecord(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *record)
	}
	return results, rows.Err()
}

// CountRuns reports how many stored records match the kind filter.
func (r *PostgresRepository) CountRuns(ctx context.Context, kind sim.RunKind) (int, error) {
	query := "SELECT COUNT(*) FROM simlab_runs"
	var args []interface{}
	if kind != "" {
		query += " WHERE kind = $1"
		args = append(args, string(kind))
	}
	var count int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRunRecord(row rowScanner) (*sim.RunRecord, error) {
	var (
		id, kind, label, fingerprint string
		seed                         int64
		paramsJSON, metricsJSON      []byte
		createdAt                    time.Time
	)
	if err := row.Scan(&id, &kind, &label, &seed, &paramsJSON, &metricsJSON, &fingerprint, &createdAt); err != nil {
		return nil, err
	}

	record := &sim.RunRecord{
		ID:          core.RunID(id),
		Kind:        sim.RunKind(kind),
		Label:       label,
		Seed:        seed,
		Fingerprint: core.Hash(fingerprint),
		CreatedAt:   core.NewTimestamp(createdAt),
	}
	if len(paramsJSON) > 0 {
		json.Unmarshal(paramsJSON, &record.Params)
	}
	if len(metricsJSON) > 0 {
		json.Unmarshal(metricsJSON, &record.Metrics)
	}
	return record, nil
}
