package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"imageConverter/api/database"
	"imageConverter/api/models"
)

const batchColumns = `id, trace_id, input_dir, output_dir, input_file_type, output_file_type,
	quality, collision, status, error_message, files_converted, files_failed,
	elapsed_seconds, avg_input_bytes, avg_output_bytes, failures,
	created_at, updated_at, completed_at`

// querier is the part of pgxpool.Pool used here.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepo struct {
	db querier
}

func NewPostgresRepo(db *database.DB) Repository {
	return &PostgresRepo{db: db.Pool}
}

func (r *PostgresRepo) CreateBatch(ctx context.Context, b *models.Batch) error {
	query := `
		INSERT INTO batches (trace_id, input_dir, output_dir, input_file_type, output_file_type, quality, collision, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	return r.db.QueryRow(ctx, query,
		b.TraceID,
		b.InputDir,
		b.OutputDir,
		b.InputFileType,
		b.OutputFileType,
		b.Quality,
		b.Collision,
		b.Status,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *PostgresRepo) GetBatch(ctx context.Context, id string) (*models.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1`

	var b models.Batch
	err := r.db.QueryRow(ctx, query, id).Scan(
		&b.ID,
		&b.TraceID,
		&b.InputDir,
		&b.OutputDir,
		&b.InputFileType,
		&b.OutputFileType,
		&b.Quality,
		&b.Collision,
		&b.Status,
		&b.ErrorMessage,
		&b.FilesConverted,
		&b.FilesFailed,
		&b.ElapsedSeconds,
		&b.AvgInputBytes,
		&b.AvgOutputBytes,
		&b.Failures,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBatchNotFound
		}
		return nil, err
	}

	return &b, nil
}

func (r *PostgresRepo) UpdateBatchStatus(ctx context.Context, id string, status models.BatchStatus, errorMessage string) error {
	query := `
		UPDATE batches
		SET status = $1, error_message = $2, updated_at = NOW()
	`

	if status.Terminal() {
		query += `, completed_at = NOW()`
	}

	query += ` WHERE id = $3`

	result, err := r.db.Exec(ctx, query, status, errorMessage, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrBatchNotFound
	}

	return nil
}
