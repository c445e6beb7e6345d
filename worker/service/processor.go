package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"imageConverter/worker/batch"
	"imageConverter/worker/kafka"
	"imageConverter/worker/repository"
)

type Runner interface {
	Run(ctx context.Context, req batch.Request) (*batch.Result, error)
}

type StatusCache interface {
	Set(ctx context.Context, batchID string, status string) error
}

// Defaults fill request fields a message left empty.
type Defaults struct {
	InputFileType string
	Collision     batch.CollisionPolicy
}

type Processor struct {
	repo     repository.Repository
	cache    StatusCache
	runner   Runner
	defaults Defaults
	logger   *zap.Logger
}

func NewProcessor(repo repository.Repository, cache StatusCache, runner Runner, defaults Defaults, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		repo:     repo,
		cache:    cache,
		runner:   runner,
		defaults: defaults,
		logger:   logger,
	}
}

// Process moves one batch through processing to completed or failed. Status
// writes after the run use a context detached from cancellation so a batch
// interrupted by shutdown is still recorded as failed.
func (p *Processor) Process(ctx context.Context, msg *kafka.BatchMessage) error {
	log := p.logger.With(
		zap.String("batch_id", msg.BatchID),
		zap.String("trace_id", msg.TraceID),
	)

	if err := p.setStatus(ctx, msg.BatchID, repository.StatusProcessing, ""); err != nil {
		return err
	}

	req := msg.Request
	if req.InputFileType == "" {
		req.InputFileType = p.defaults.InputFileType
	}
	if req.Collision == "" {
		req.Collision = p.defaults.Collision
	}

	log.Info("Processing batch",
		zap.String("input_dir", req.InputDir),
		zap.String("output_dir", req.OutputDir),
	)

	result, runErr := p.runner.Run(ctx, req)

	finishCtx := context.WithoutCancel(ctx)
	if runErr != nil {
		log.Error("Batch failed", zap.Error(runErr))
		if err := p.setStatus(finishCtx, msg.BatchID, repository.StatusFailed, runErr.Error()); err != nil {
			return err
		}
		return fmt.Errorf("run batch %s: %w", msg.BatchID, runErr)
	}

	if err := p.repo.SaveResult(finishCtx, msg.BatchID, result); err != nil {
		return err
	}
	if err := p.cache.Set(finishCtx, msg.BatchID, repository.StatusCompleted); err != nil {
		log.Warn("Failed to cache batch status", zap.Error(err))
	}

	log.Info("Batch completed",
		zap.Int("files_converted", result.FilesConverted),
		zap.Int("files_failed", result.FilesFailed),
	)
	return nil
}

func (p *Processor) setStatus(ctx context.Context, batchID, status, errMsg string) error {
	if err := p.repo.UpdateBatchStatus(ctx, batchID, status, errMsg); err != nil {
		return err
	}
	if err := p.cache.Set(ctx, batchID, status); err != nil {
		p.logger.Warn("Failed to cache batch status",
			zap.String("batch_id", batchID),
			zap.String("status", status),
			zap.Error(err),
		)
	}
	return nil
}
