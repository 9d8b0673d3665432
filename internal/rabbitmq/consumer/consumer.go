package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/mini-maxit/judge/internal/logger"
	"github.com/mini-maxit/judge/internal/pipeline"
	"github.com/mini-maxit/judge/internal/rabbitmq/channel"
	"github.com/mini-maxit/judge/pkg/constants"
	customErr "github.com/mini-maxit/judge/pkg/errors"
	"github.com/mini-maxit/judge/pkg/messages"
)

var ErrDeliveriesClosed = errors.New("delivery channel closed")

type Consumer interface {
	// Listen consumes judging jobs until ctx is done or the broker closes the channel.
	Listen(ctx context.Context) error
}

type consumer struct {
	channel       channel.Channel
	jobsQueueName string
	worker        pipeline.Worker
	logger        *zap.SugaredLogger
}

func NewConsumer(ch channel.Channel, jobsQueueName string, worker pipeline.Worker) Consumer {
	return &consumer{
		channel:       ch,
		jobsQueueName: jobsQueueName,
		worker:        worker,
		logger:        logger.NewNamedLogger("consumer"),
	}
}

func (c *consumer) Listen(ctx context.Context) error {
	c.logger.Infof("Declaring queue %s", c.jobsQueueName)
	if _, err := c.channel.QueueDeclare(c.jobsQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", c.jobsQueueName, err)
	}

	if err := c.channel.Qos(constants.RabbitMQPrefetchCount, 0, false); err != nil {
		return fmt.Errorf("set prefetch: %w", err)
	}

	msgs, err := c.channel.Consume(c.jobsQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume from queue %s: %w", c.jobsQueueName, err)
	}

	c.logger.Infof("Listening for jobs on queue %s", c.jobsQueueName)
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Stopped listening for jobs")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return ErrDeliveriesClosed
			}
			c.handleDelivery(ctx, d)
		}
	}
}

// handleDelivery acknowledges a job only after the worker returned. A job whose
// verdict could not be stored is requeued once and then dropped.
func (c *consumer) handleDelivery(ctx context.Context, d amqp.Delivery) {
	var job messages.JobMessage
	if err := json.Unmarshal(d.Body, &job); err != nil || job.SubmissionID <= 0 {
		c.logger.Errorf("Rejecting malformed job %q: %v", d.Body, errors.Join(customErr.ErrInvalidJob, err))
		c.nack(d, false)
		return
	}

	// A job that already started is finished even during shutdown.
	jobCtx := context.WithoutCancel(ctx)
	err := c.worker.ProcessSubmission(jobCtx, job.SubmissionID)
	switch {
	case err == nil:
		if ackErr := d.Ack(false); ackErr != nil {
			c.logger.Errorf("Failed to ack job: %s [SubmissionID: %d]", ackErr, job.SubmissionID)
		}
	case errors.Is(err, customErr.ErrSubmissionNotFound):
		c.logger.Errorf("Dropping job for unknown submission [SubmissionID: %d]", job.SubmissionID)
		c.nack(d, false)
	default:
		requeue := !d.Redelivered
		c.logger.Errorf("Job failed: %s, requeue=%t [SubmissionID: %d]", err, requeue, job.SubmissionID)
		c.nack(d, requeue)
	}
}

func (c *consumer) nack(d amqp.Delivery, requeue bool) {
	if err := d.Nack(false, requeue); err != nil {
		c.logger.Errorf("Failed to nack delivery %d: %s", d.DeliveryTag, err)
	}
}
