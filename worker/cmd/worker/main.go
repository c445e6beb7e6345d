package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"imageConverter/worker/batch"
	"imageConverter/worker/cache"
	"imageConverter/worker/config"
	"imageConverter/worker/converter"
	"imageConverter/worker/kafka"
	"imageConverter/worker/pool"
	"imageConverter/worker/repository"
	"imageConverter/worker/service"
)

func main() {
	cfg := config.Load()

	logger, _ := zap.NewProduction()
	if cfg.IsDevelopment() {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	logger.Info("Worker Service starting...",
		zap.Int("workers", cfg.WorkerCount),
		zap.String("topic", cfg.KafkaTopic),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := converter.InitTIFFBackend(); err != nil {
		logger.Fatal("Failed to initialize TIFF backend", zap.Error(err))
	}
	logger.Info("TIFF backend ready", zap.String("backend", converter.TIFFBackendName()))

	db, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr,
		PoolSize:    10,
		PoolTimeout: 5 * time.Second,
	})
	defer redisClient.Close()

	policy, err := batch.ParseCollisionPolicy(cfg.CollisionPolicy)
	if err != nil {
		logger.Fatal("Invalid COLLISION_POLICY", zap.Error(err))
	}

	driver := batch.NewDriver(logger, converter.NewConverter(logger))
	processor := service.NewProcessor(
		repository.NewPostgresRepo(db),
		cache.NewStatusCache(redisClient),
		driver,
		service.Defaults{InputFileType: cfg.DefaultInputType, Collision: policy},
		logger,
	)

	consumer, err := kafka.NewConsumer(cfg.Brokers(), cfg.KafkaGroupID, logger)
	if err != nil {
		logger.Fatal("Failed to create Kafka consumer", zap.Error(err))
	}
	defer consumer.Close()

	workers := pool.NewWorkerPool(cfg.WorkerCount, logger)

	err = consumer.Consume(ctx, cfg.KafkaTopic, func(ctx context.Context, msg *kafka.BatchMessage) error {
		return workers.Run(ctx, msg, processor.Process)
	})
	if err != nil {
		logger.Error("Consumer stopped", zap.Error(err))
	}

	logger.Info("Waiting for running batches to finish")
	workers.Wait()
	logger.Info("Worker Service stopped")
}
