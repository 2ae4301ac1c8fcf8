package queue

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/cinema-showtimes/internal/logging"
)

// Consumer drains both event queues and appends one line per event to a
// log file.
type Consumer struct {
	URL     string
	LogPath string // defaults to logs/events.log
}

// Run connects to the broker and consumes until ctx is cancelled.  Dial
// failures and closed channels trigger a reconnect with exponential backoff
// capped at 30s.
func (c *Consumer) Run(ctx context.Context) error {
	log := logging.With().Str("component", "eventlog").Logger()
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			log.Warn().Err(err).Dur("retry_in", backoff).Msg("dial broker failed")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			backoff = min(backoff*2, 30*time.Second)
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn().Err(err).Msg("consume loop ended, reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logging.Warn().Err(err).Msg("set QoS failed")
	}

	prefs, err := declareAndConsume(ch, PreferencesChangedQueue)
	if err != nil {
		return err
	}
	users, err := declareAndConsume(ch, UsersRegisteredQueue)
	if err != nil {
		return err
	}

	for {
		var d amqp.Delivery
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok = <-prefs:
		case d, ok = <-users:
		}
		if !ok {
			return errors.New("deliveries channel closed")
		}
		if err := c.handle(d.RoutingKey, d.Body); err != nil {
			logging.Error().Err(err).Str("queue", d.RoutingKey).Msg("handle event failed")
			// reject without requeue to avoid a poison-message loop
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
}

func declareAndConsume(ch *amqp.Channel, name string) (<-chan amqp.Delivery, error) {
	if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare %s: %w", name, err)
	}
	msgs, err := ch.Consume(name, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", name, err)
	}
	return msgs, nil
}

func (c *Consumer) handle(queueName string, body []byte) error {
	line, err := FormatLine(queueName, body)
	if err != nil {
		return err
	}
	path := c.LogPath
	if path == "" {
		path = filepath.Join("logs", "events.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLine renders one event as a single newline-terminated log line.
func FormatLine(queueName string, body []byte) (string, error) {
	switch queueName {
	case PreferencesChangedQueue:
		var ev PreferenceChangedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal: %w", err)
		}
		action := "removed"
		if ev.On {
			action = "added"
		}
		return fmt.Sprintf("[%s] Preference %s | user_id=%d | kind=%s | target_id=%d\n",
			ev.ChangedAt, action, ev.UserID, ev.Kind, ev.TargetID), nil
	case UsersRegisteredQueue:
		var ev UserRegisteredEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal: %w", err)
		}
		city := "-"
		if ev.CityID != nil {
			city = strconv.FormatUint(*ev.CityID, 10)
		}
		return fmt.Sprintf("[%s] User registered | user_id=%d | email=%q | city_id=%s\n",
			ev.RegisteredAt, ev.UserID, ev.Email, city), nil
	}
	return "", fmt.Errorf("unknown queue %q", queueName)
}
