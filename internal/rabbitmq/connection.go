package rabbitmq

import (
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mini-maxit/judge/internal/config"
	"github.com/mini-maxit/judge/internal/logger"
	"github.com/mini-maxit/judge/pkg/constants"
)

// NewRabbitMqConnection dials the broker, retrying while it starts up.
func NewRabbitMqConnection(cfg *config.Config) *amqp.Connection {
	logger := logger.NewNamedLogger("rabbitmq")

	var conn *amqp.Connection
	var err error
	for attempt := 1; attempt <= constants.RabbitMQReconnectTries; attempt++ {
		conn, err = amqp.Dial(cfg.RabbitMQURL)
		if err == nil {
			logger.Info("Connected to RabbitMQ")
			return conn
		}
		logger.Warnf("Failed to connect to RabbitMQ (attempt %d/%d): %s",
			attempt, constants.RabbitMQReconnectTries, err)
		time.Sleep(time.Duration(attempt) * time.Second)
	}

	logger.Fatalf("Failed to connect to RabbitMQ: %s", err)
	return nil
}

func NewRabbitMQChannel(conn *amqp.Connection) *amqp.Channel {
	logger := logger.NewNamedLogger("rabbitmq")

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatalf("Failed to open a channel: %s", err)
	}
	return ch
}
