package repository

import (
	"context"
	"errors"

	"imageConverter/api/models"
)

var ErrBatchNotFound = errors.New("batch not found")

type Repository interface {
	CreateBatch(ctx context.Context, b *models.Batch) error
	GetBatch(ctx context.Context, id string) (*models.Batch, error)
	UpdateBatchStatus(ctx context.Context, id string, status models.BatchStatus, errorMessage string) error
}
