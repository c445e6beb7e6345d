package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"imageConverter/worker/batch"
)

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

var ErrBatchNotFound = errors.New("batch not found")

type Repository interface {
	UpdateBatchStatus(ctx context.Context, batchID string, status string, errMsg string) error
	SaveResult(ctx context.Context, batchID string, result *batch.Result) error
}

// execer is the part of pgxpool.Pool the repository needs.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type PostgresRepo struct {
	db execer
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) UpdateBatchStatus(ctx context.Context, batchID string, status string, errMsg string) error {
	query := `UPDATE batches SET status = $1, error_message = $2, updated_at = NOW()`
	if status == StatusCompleted || status == StatusFailed {
		query += `, completed_at = NOW()`
	}
	query += ` WHERE id = $3`

	tag, err := r.db.Exec(ctx, query, status, errMsg, batchID)
	if err != nil {
		return fmt.Errorf("update batch status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBatchNotFound
	}
	return nil
}

// SaveResult stores the run statistics and marks the batch completed.
func (r *PostgresRepo) SaveResult(ctx context.Context, batchID string, result *batch.Result) error {
	var failures []byte
	if len(result.Failures) > 0 {
		var err error
		if failures, err = json.Marshal(result.Failures); err != nil {
			return fmt.Errorf("encode failures: %w", err)
		}
	}

	query := `
		UPDATE batches
		SET status = $1,
			error_message = '',
			files_converted = $2,
			files_failed = $3,
			elapsed_seconds = $4,
			avg_input_bytes = $5,
			avg_output_bytes = $6,
			failures = $7,
			updated_at = NOW(),
			completed_at = NOW()
		WHERE id = $8
	`

	tag, err := r.db.Exec(ctx, query,
		StatusCompleted,
		result.FilesConverted,
		result.FilesFailed,
		result.ElapsedSeconds,
		result.AvgInputBytes,
		result.AvgOutputBytes,
		failures,
		batchID,
	)
	if err != nil {
		return fmt.Errorf("save batch result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBatchNotFound
	}
	return nil
}
