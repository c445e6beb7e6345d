package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"imageConverter/api/dto"
	"imageConverter/api/kafka"
	"imageConverter/api/models"
	"imageConverter/api/repository"
	"imageConverter/worker/batch"
)

const timeLayout = "2006-01-02T15:04:05Z"

type StatusCache interface {
	Get(ctx context.Context, batchID string) (models.BatchStatus, error)
	Set(ctx context.Context, batchID string, status models.BatchStatus) error
}

type BatchService struct {
	repo     repository.Repository
	cache    StatusCache
	producer kafka.Producer
	topic    string
	logger   *zap.Logger
}

func NewBatchService(repo repository.Repository, cache StatusCache, producer kafka.Producer, topic string, logger *zap.Logger) *BatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchService{
		repo:     repo,
		cache:    cache,
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// CreateBatch persists a validated request as pending and enqueues it. If the
// message cannot be produced the row is marked failed so it does not stay
// pending forever.
func (s *BatchService) CreateBatch(ctx context.Context, traceID string, req *dto.CreateBatchRequest) (*dto.BatchResponse, error) {
	collision, err := batch.ParseCollisionPolicy(req.Collision)
	if err != nil {
		return nil, err
	}

	b := &models.Batch{
		TraceID:        traceID,
		InputDir:       req.InputDir,
		OutputDir:      req.OutputDir,
		InputFileType:  req.InputFileType,
		OutputFileType: req.OutputFileType,
		Quality:        *req.Quality,
		Collision:      string(collision),
		Status:         models.StatusPending,
	}

	if err := s.repo.CreateBatch(ctx, b); err != nil {
		return nil, fmt.Errorf("create batch: %w", err)
	}

	s.cacheStatus(ctx, b.ID, models.StatusPending)

	msg := &kafka.BatchMessage{
		BatchID: b.ID,
		TraceID: traceID,
		Request: batch.Request{
			InputDir:       b.InputDir,
			OutputDir:      b.OutputDir,
			InputFileType:  b.InputFileType,
			OutputFileType: b.OutputFileType,
			Quality:        b.Quality,
			Collision:      collision,
		},
	}
	if err := s.producer.SendBatchMessage(ctx, s.topic, msg); err != nil {
		errMsg := fmt.Sprintf("enqueue batch: %v", err)
		if uerr := s.repo.UpdateBatchStatus(ctx, b.ID, models.StatusFailed, errMsg); uerr != nil {
			s.logger.Error("Failed to mark batch failed", zap.String("batch_id", b.ID), zap.Error(uerr))
		}
		s.cacheStatus(ctx, b.ID, models.StatusFailed)
		return nil, fmt.Errorf("enqueue batch: %w", err)
	}

	return toResponse(b), nil
}

// GetBatch answers from the status cache while the batch is in flight. Once the
// cached status is terminal, or nothing is cached, the row is read so the
// result is included.
func (s *BatchService) GetBatch(ctx context.Context, batchID string) (*dto.BatchResponse, error) {
	status, err := s.cache.Get(ctx, batchID)
	if err == nil && !status.Terminal() {
		return &dto.BatchResponse{
			ID:     batchID,
			Status: string(status),
		}, nil
	}

	b, err := s.repo.GetBatch(ctx, batchID)
	if err != nil {
		if errors.Is(err, repository.ErrBatchNotFound) {
			return nil, dto.ErrBatchNotFound
		}
		return nil, err
	}

	if !b.Status.Terminal() {
		s.cacheStatus(ctx, b.ID, b.Status)
	}

	return toResponse(b), nil
}

func (s *BatchService) cacheStatus(ctx context.Context, batchID string, status models.BatchStatus) {
	if err := s.cache.Set(ctx, batchID, status); err != nil {
		s.logger.Warn("Failed to cache batch status",
			zap.String("batch_id", batchID),
			zap.Error(err),
		)
	}
}

func toResponse(b *models.Batch) *dto.BatchResponse {
	quality := b.Quality
	resp := &dto.BatchResponse{
		ID:             b.ID,
		TraceID:        b.TraceID,
		Status:         string(b.Status),
		InputDir:       b.InputDir,
		OutputDir:      b.OutputDir,
		InputFileType:  b.InputFileType,
		OutputFileType: b.OutputFileType,
		Quality:        &quality,
		ErrorMessage:   b.ErrorMessage,
		CreatedAt:      formatTime(b.CreatedAt),
	}

	if b.CompletedAt != nil {
		formatted := formatTime(*b.CompletedAt)
		resp.CompletedAt = &formatted
	}

	if b.Status == models.StatusCompleted {
		resp.Result = &dto.BatchResult{
			FilesConverted: b.FilesConverted,
			FilesFailed:    b.FilesFailed,
			ElapsedSeconds: b.ElapsedSeconds,
			AvgInputBytes:  b.AvgInputBytes,
			AvgOutputBytes: b.AvgOutputBytes,
			Failures:       b.Failures,
		}
	}

	return resp
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
