package kafka

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"

	workerkafka "imageConverter/worker/kafka"
)

// BatchMessage is the wire type the worker consumes.
type BatchMessage = workerkafka.BatchMessage

type Producer interface {
	SendBatchMessage(ctx context.Context, topic string, message *BatchMessage) error
	Close() error
}

type producer struct {
	producer sarama.SyncProducer
}

func NewProducer(brokers []string) (Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true

	p, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	return &producer{producer: p}, nil
}

func newProducerFrom(p sarama.SyncProducer) Producer {
	return &producer{producer: p}
}

func (p *producer) SendBatchMessage(ctx context.Context, topic string, message *BatchMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(message.BatchID),
		Value: sarama.ByteEncoder(data),
	}

	_, _, err = p.producer.SendMessage(msg)
	return err
}

func (p *producer) Close() error {
	return p.producer.Close()
}
