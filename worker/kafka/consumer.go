package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"imageConverter/worker/batch"
)

type MessageHandler func(ctx context.Context, msg *BatchMessage) error

// BatchMessage asks a worker to run one batch. The request fields are inlined
// in the JSON body next to the ids.
type BatchMessage struct {
	BatchID string `json:"batch_id"`
	TraceID string `json:"trace_id"`
	batch.Request
}

var ErrMissingBatchID = errors.New("batch message without batch_id")

// DecodeBatchMessage parses a message value produced by the api service.
func DecodeBatchMessage(data []byte) (*BatchMessage, error) {
	var msg BatchMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decode batch message: %w", err)
	}
	if msg.BatchID == "" {
		return nil, ErrMissingBatchID
	}
	return &msg, nil
}

type Consumer struct {
	consumer sarama.ConsumerGroup
	logger   *zap.Logger
}

func NewConsumer(brokers []string, groupID string, logger *zap.Logger) (*Consumer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRoundRobin
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	c, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, err
	}

	return &Consumer{consumer: c, logger: logger}, nil
}

type consumerHandler struct {
	fn     MessageHandler
	ctx    context.Context
	logger *zap.Logger
}

func (h *consumerHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim runs each batch to completion before marking its message, so an
// offset is only committed for work that finished. A message whose batch was
// cut short by shutdown stays unmarked and is redelivered.
func (h *consumerHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if !h.handle(msg) {
				return nil
			}
			session.MarkMessage(msg, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

// handle reports whether msg is done with and may be marked.
func (h *consumerHandler) handle(msg *sarama.ConsumerMessage) bool {
	batchMsg, err := DecodeBatchMessage(msg.Value)
	if err != nil {
		h.logger.Warn("Skipping malformed message",
			zap.String("topic", msg.Topic),
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return true
	}

	err = h.fn(h.ctx, batchMsg)
	if h.ctx.Err() != nil {
		h.logger.Warn("Batch interrupted, leaving message for redelivery",
			zap.String("batch_id", batchMsg.BatchID),
			zap.Int64("offset", msg.Offset),
		)
		return false
	}
	if err != nil {
		h.logger.Error("Failed to handle batch message",
			zap.String("batch_id", batchMsg.BatchID),
			zap.Error(err),
		)
	}
	return true
}

// Consume joins the group and dispatches messages until ctx is done. Sarama
// returns from a session on every rebalance, so the session is re-entered in a
// loop.
func (c *Consumer) Consume(ctx context.Context, topic string, handler MessageHandler) error {
	h := &consumerHandler{fn: handler, ctx: ctx, logger: c.logger}
	for {
		if err := c.consumer.Consume(ctx, []string{topic}, h); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (c *Consumer) Close() error {
	return c.consumer.Close()
}
