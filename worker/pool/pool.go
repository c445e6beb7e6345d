package pool

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"imageConverter/worker/kafka"
)

// WorkerPool bounds how many batches run at once across partition claims.
// Each batch is still converted sequentially by its own driver.
type WorkerPool struct {
	sem    chan struct{}
	wg     sync.WaitGroup
	logger *zap.Logger
}

func NewWorkerPool(maxWorkers int, logger *zap.Logger) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkerPool{
		sem:    make(chan struct{}, maxWorkers),
		logger: logger,
	}
}

// Run blocks until a slot is free, then runs handler on the calling goroutine
// and returns its error. If ctx is done before a slot frees up the handler is
// not run and ctx.Err() is returned, so the caller leaves the message
// unmarked.
func (p *WorkerPool) Run(ctx context.Context, msg *kafka.BatchMessage, handler kafka.MessageHandler) error {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		p.logger.Warn("Batch not started, shutting down", zap.String("batch_id", msg.BatchID))
		return ctx.Err()
	}
	defer func() { <-p.sem }()

	p.wg.Add(1)
	defer p.wg.Done()

	return handler(ctx, msg)
}

// Wait returns once no handler started by Run is still running.
func (p *WorkerPool) Wait() {
	p.wg.Wait()
}
