package responder

import (
	"context"
	"encoding/json"
	"strconv"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/mini-maxit/judge/internal/logger"
	"github.com/mini-maxit/judge/internal/rabbitmq/channel"
	"github.com/mini-maxit/judge/pkg/constants"
	"github.com/mini-maxit/judge/pkg/messages"
)

// Publisher notifies interested listeners that a submission was judged.
type Publisher interface {
	PublishCompletion(ctx context.Context, event messages.CompletionEvent) error
}

type publisher struct {
	logger          *zap.SugaredLogger
	channel         channel.Channel
	eventsQueueName string
}

func NewPublisher(ch channel.Channel, eventsQueueName string) Publisher {
	return &publisher{
		logger:          logger.NewNamedLogger("publisher"),
		channel:         ch,
		eventsQueueName: eventsQueueName,
	}
}

// DeclareQueue makes sure the events queue exists before the first publish.
func DeclareQueue(ch channel.Channel, name string) error {
	_, err := ch.QueueDeclare(name, true, false, false, false, nil)
	return err
}

func (p *publisher) PublishCompletion(ctx context.Context, event messages.CompletionEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if event.Type == "" {
		event.Type = constants.QueueMessageTypeCompletion
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	id := strconv.FormatInt(event.SubmissionID, 10)
	err = p.channel.Publish("", p.eventsQueueName, false, false, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: id,
		DeliveryMode:  amqp.Persistent,
		Body:          body,
	})
	if err != nil {
		return err
	}

	p.logger.Infof("Published completion event with verdict %s [SubmissionID: %s]", event.Verdict, id)
	return nil
}
