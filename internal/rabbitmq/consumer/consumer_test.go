package consumer_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/mock/gomock"

	"github.com/mini-maxit/judge/internal/rabbitmq/consumer"
	"github.com/mini-maxit/judge/pkg/constants"
	pkgerrors "github.com/mini-maxit/judge/pkg/errors"
	"github.com/mini-maxit/judge/tests/mocks"
)

// ackRecorder records how deliveries were settled.
type ackRecorder struct {
	mu    sync.Mutex
	acks  []uint64
	nacks map[uint64]bool
}

func newAckRecorder() *ackRecorder { return &ackRecorder{nacks: map[uint64]bool{}} }

func (a *ackRecorder) Ack(tag uint64, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acks = append(a.acks, tag)
	return nil
}

func (a *ackRecorder) Nack(tag uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacks[tag] = requeue
	return nil
}

func (a *ackRecorder) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func (a *ackRecorder) acked(tag uint64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, t := range a.acks {
		if t == tag {
			return true
		}
	}
	return false
}

func (a *ackRecorder) nacked(tag uint64) (requeue, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	requeue, ok = a.nacks[tag]
	return requeue, ok
}

// runConsumer feeds deliveries to a consumer and returns once all of them are consumed
// and the channel is closed.
func runConsumer(t *testing.T, ctrl *gomock.Controller, worker *mocks.MockWorker, deliveries ...amqp.Delivery) error {
	t.Helper()
	mockCh := mocks.NewMockChannel(ctrl)
	msgs := make(chan amqp.Delivery, len(deliveries))
	for _, d := range deliveries {
		msgs <- d
	}
	close(msgs)

	gomock.InOrder(
		mockCh.EXPECT().QueueDeclare("jobs", true, false, false, false, gomock.Nil()).Return(amqp.Queue{Name: "jobs"}, nil),
		mockCh.EXPECT().Qos(constants.RabbitMQPrefetchCount, 0, false).Return(nil),
		mockCh.EXPECT().Consume("jobs", "", false, false, false, false, gomock.Nil()).
			Return((<-chan amqp.Delivery)(msgs), nil),
	)

	return consumer.NewConsumer(mockCh, "jobs", worker).Listen(context.Background())
}

func delivery(ack amqp.Acknowledger, tag uint64, body string, redelivered bool) amqp.Delivery {
	return amqp.Delivery{
		Acknowledger: ack,
		DeliveryTag:  tag,
		Body:         []byte(body),
		Redelivered:  redelivered,
	}
}

func TestListen_AcksProcessedJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ack := newAckRecorder()
	worker := mocks.NewMockWorker(ctrl)
	worker.EXPECT().ProcessSubmission(gomock.Any(), int64(42)).Return(nil)

	err := runConsumer(t, ctrl, worker, delivery(ack, 1, `{"submission_id":42}`, false))
	if !errors.Is(err, consumer.ErrDeliveriesClosed) {
		t.Fatalf("expected ErrDeliveriesClosed, got %v", err)
	}
	if !ack.acked(1) {
		t.Fatalf("expected delivery to be acked")
	}
}

func TestListen_RejectsMalformedJobs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ack := newAckRecorder()
	worker := mocks.NewMockWorker(ctrl)

	_ = runConsumer(t, ctrl, worker,
		delivery(ack, 1, `not json`, false),
		delivery(ack, 2, `{"submission_id":0}`, false),
		delivery(ack, 3, `{}`, false),
	)

	for _, tag := range []uint64{1, 2, 3} {
		requeue, ok := ack.nacked(tag)
		if !ok || requeue {
			t.Fatalf("expected delivery %d to be dropped without requeue", tag)
		}
	}
}

func TestListen_RequeuesFailedJobOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ack := newAckRecorder()
	worker := mocks.NewMockWorker(ctrl)
	boom := errors.New("database is down")
	worker.EXPECT().ProcessSubmission(gomock.Any(), int64(5)).Return(boom).Times(2)

	_ = runConsumer(t, ctrl, worker,
		delivery(ack, 1, `{"submission_id":5}`, false),
		delivery(ack, 2, `{"submission_id":5}`, true),
	)

	if requeue, ok := ack.nacked(1); !ok || !requeue {
		t.Fatalf("expected first delivery to be requeued")
	}
	if requeue, ok := ack.nacked(2); !ok || requeue {
		t.Fatalf("expected redelivery to be dropped")
	}
}

func TestListen_DropsUnknownSubmission(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ack := newAckRecorder()
	worker := mocks.NewMockWorker(ctrl)
	worker.EXPECT().ProcessSubmission(gomock.Any(), int64(7)).Return(pkgerrors.ErrSubmissionNotFound)

	_ = runConsumer(t, ctrl, worker, delivery(ack, 1, `{"submission_id":7}`, false))

	if requeue, ok := ack.nacked(1); !ok || requeue {
		t.Fatalf("expected unknown submission to be dropped")
	}
}

func TestListen_StopsOnContextCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCh := mocks.NewMockChannel(ctrl)
	msgs := make(chan amqp.Delivery)
	mockCh.EXPECT().QueueDeclare(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(amqp.Queue{}, nil)
	mockCh.EXPECT().Qos(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	mockCh.EXPECT().Consume(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return((<-chan amqp.Delivery)(msgs), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- consumer.NewConsumer(mockCh, "jobs", mocks.NewMockWorker(ctrl)).Listen(ctx)
	}()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected nil error on shutdown, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("consumer did not stop after cancel")
	}
}

func TestListen_DeclareError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCh := mocks.NewMockChannel(ctrl)
	boom := errors.New("access refused")
	mockCh.EXPECT().QueueDeclare(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(amqp.Queue{}, boom)

	err := consumer.NewConsumer(mockCh, "jobs", mocks.NewMockWorker(ctrl)).Listen(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected declare error, got %v", err)
	}
}
