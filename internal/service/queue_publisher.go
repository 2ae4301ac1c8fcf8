// Package service publishes domain events to RabbitMQ.  Publishing is best
// effort: errors are logged and returned so callers can ignore them without
// interrupting the request.
package service

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/cinema-showtimes/internal/config"
	"github.com/iliyamo/cinema-showtimes/internal/logging"
)

// Publisher sends one JSON event to a durable queue.
type Publisher interface {
	Publish(ctx context.Context, queue string, event any) error
}

// NewPublisher returns an AMQP publisher, or a no-op one when events are
// disabled.
func NewPublisher(cfg config.QueueConfig) Publisher {
	if !cfg.Enabled {
		return NopPublisher{}
	}
	return &AMQPPublisher{URL: cfg.URL, DialTimeout: 2 * time.Second}
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }

// AMQPPublisher opens a short-lived connection per event.  Event volume is
// a handful per user action, so no connection is held between calls.
type AMQPPublisher struct {
	URL         string
	DialTimeout time.Duration
}

// Publish declares the queue (durable, idempotent) and sends event as a
// persistent message on the default exchange.
func (p *AMQPPublisher) Publish(ctx context.Context, queue string, event any) error {
	log := logging.With().Str("queue", queue).Logger()

	body, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("marshal event failed")
		return err
	}

	conn, err := amqp.DialConfig(p.URL, amqp.Config{Dial: amqp.DefaultDial(p.DialTimeout)})
	if err != nil {
		log.Warn().Err(err).Msg("rabbitmq dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Warn().Err(err).Msg("rabbitmq channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		log.Warn().Err(err).Msg("rabbitmq queue declare failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		log.Warn().Err(err).Msg("rabbitmq publish failed")
		return err
	}
	return nil
}
