package kafka

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/IBM/sarama"
	"go.uber.org/zap/zaptest"

	"imageConverter/worker/batch"
)

func TestDecodeBatchMessage(t *testing.T) {
	data := []byte(`{
		"batch_id": "b-1",
		"trace_id": "t-1",
		"input_dir": "/in",
		"output_dir": "/out",
		"input_file_type": "png",
		"output_file_type": "webp",
		"quality": 80,
		"collision": "overwrite"
	}`)

	msg, err := DecodeBatchMessage(data)
	if err != nil {
		t.Fatalf("DecodeBatchMessage failed: %v", err)
	}

	want := batch.Request{
		InputDir:       "/in",
		OutputDir:      "/out",
		InputFileType:  "png",
		OutputFileType: "webp",
		Quality:        80,
		Collision:      batch.CollisionOverwrite,
	}
	if msg.BatchID != "b-1" || msg.TraceID != "t-1" || msg.Request != want {
		t.Errorf("Unexpected message: %+v", msg)
	}
}

func TestDecodeBatchMessage_Invalid(t *testing.T) {
	if _, err := DecodeBatchMessage([]byte("{not json")); err == nil {
		t.Error("Expected error for malformed JSON")
	}
	if _, err := DecodeBatchMessage([]byte(`{"input_dir":"/in"}`)); !errors.Is(err, ErrMissingBatchID) {
		t.Errorf("Expected ErrMissingBatchID, got %v", err)
	}
}

type fakeSession struct {
	sarama.ConsumerGroupSession
	ctx    context.Context
	marked []int64
}

func (s *fakeSession) Context() context.Context { return s.ctx }

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, metadata string) {
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	sarama.ConsumerGroupClaim
	messages chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

func newClaim(values ...string) *fakeClaim {
	c := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, len(values))}
	for i, v := range values {
		c.messages <- &sarama.ConsumerMessage{Topic: "image_batches", Offset: int64(i), Value: []byte(v)}
	}
	close(c.messages)
	return c
}

func TestConsumeClaim_MarksAfterHandlerFinishes(t *testing.T) {
	session := &fakeSession{ctx: context.Background()}
	claim := newClaim(`{"batch_id":"b-1"}`, `not json`, `{"batch_id":"b-2"}`)

	var handled []string
	h := &consumerHandler{
		ctx:    context.Background(),
		logger: zaptest.NewLogger(t),
		fn: func(ctx context.Context, msg *BatchMessage) error {
			handled = append(handled, msg.BatchID)
			if msg.BatchID == "b-2" {
				return errors.New("batch failed")
			}
			return nil
		},
	}

	if err := h.ConsumeClaim(session, claim); err != nil {
		t.Fatalf("ConsumeClaim failed: %v", err)
	}

	if !reflect.DeepEqual(handled, []string{"b-1", "b-2"}) {
		t.Errorf("Unexpected handled batches: %v", handled)
	}
	if !reflect.DeepEqual(session.marked, []int64{0, 1, 2}) {
		t.Errorf("Expected every finished message marked, got %v", session.marked)
	}
}

func TestConsumeClaim_LeavesInterruptedBatchUnmarked(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	session := &fakeSession{ctx: context.Background()}
	claim := newClaim(`{"batch_id":"b-1"}`, `{"batch_id":"b-2"}`)

	var handled int
	h := &consumerHandler{
		ctx:    ctx,
		logger: zaptest.NewLogger(t),
		fn: func(ctx context.Context, msg *BatchMessage) error {
			handled++
			cancel()
			return ctx.Err()
		},
	}

	if err := h.ConsumeClaim(session, claim); err != nil {
		t.Fatalf("ConsumeClaim failed: %v", err)
	}

	if handled != 1 {
		t.Errorf("Expected consumption to stop after the interrupted batch, handled %d", handled)
	}
	if len(session.marked) != 0 {
		t.Errorf("Expected no marked offsets, got %v", session.marked)
	}
}

func TestConsumeClaim_MarksOnlyAfterRun(t *testing.T) {
	session := &fakeSession{ctx: context.Background()}
	claim := newClaim(`{"batch_id":"b-1"}`)

	h := &consumerHandler{
		ctx:    context.Background(),
		logger: zaptest.NewLogger(t),
		fn: func(ctx context.Context, msg *BatchMessage) error {
			if len(session.marked) != 0 {
				t.Error("Offset committed before the batch finished")
			}
			return nil
		},
	}

	if err := h.ConsumeClaim(session, claim); err != nil {
		t.Fatalf("ConsumeClaim failed: %v", err)
	}
	if len(session.marked) != 1 {
		t.Errorf("Expected the finished message marked, got %v", session.marked)
	}
}
