package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/thumbgrab/thumbnail-service-go/internal/config"
	"github.com/thumbgrab/thumbnail-service-go/pkg/logger"
	"go.uber.org/zap"
)

// DownloadEvent is the fire-and-forget notification published after a
// successful resolve, download, or archive build.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type DownloadEvent struct {
	ID         uuid.UUID `json:"id"`
	UserID     string    `json:"user_id,omitempty"`
	VideoID    string    `json:"video_id,omitempty"`
	Quality    string    `json:"quality,omitempty"`
	Kind       string    `json:"kind"`
	VideoCount int       `json:"video_count"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Event kinds.
const (
	EventKindResolve  = "resolve"
	EventKindDownload = "download"
	EventKindArchive  = "archive"
	EventKindSave     = "save"
)

// EventPublisher publishes download events to RabbitMQ. A nil publisher is
// valid and drops every event, so the rest of the service never has to care
// whether the broker is configured.
type EventPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	config  *config.RabbitMQConfig
	mu      sync.RWMutex
}

// NewEventPublisher connects to RabbitMQ and declares the event exchange and
// queue.
func NewEventPublisher(cfg *config.RabbitMQConfig) (*EventPublisher, error) {
	p := &EventPublisher{config: cfg}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *EventPublisher) connect() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	connURL := fmt.Sprintf("amqp://%s:%s@%s:%d/",
		p.config.User, p.config.Password, p.config.Host, p.config.Port)

	conn, err := amqp.Dial(connURL)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	if err := ch.ExchangeDeclare(
		p.config.Exchange, // name
		"topic",           // type
		true,              // durable
		false,             // auto-deleted
		false,             // internal
		false,             // no-wait
		nil,               // arguments
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = ch.QueueDeclare(
		p.config.Queue, // name
		true,           // durable
		false,          // delete when unused
		false,          // exclusive
		false,          // no-wait
		amqp.Table{
			"x-message-ttl": 86400000, // 24 hours
		},
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(
		p.config.Queue,      // queue name
		p.config.RoutingKey, // routing key
		p.config.Exchange,   // exchange
		false,
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	p.conn = conn
	p.channel = ch

	logger.Log.Info("Connected to RabbitMQ",
		zap.String("exchange", p.config.Exchange),
		zap.String("queue", p.config.Queue),
	)

	return nil
}

// Publish sends one event and waits for broker confirmation. Callers treat
// any error as a best-effort miss: log it, never surface it to the end user.
func (p *EventPublisher) Publish(ctx context.Context, event *DownloadEvent) error {
	if p == nil {
		return nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.channel == nil {
		return fmt.Errorf("channel is not initialized")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	confirms := p.channel.NotifyPublish(make(chan amqp.Confirmation, 1))

	err = p.channel.PublishWithContext(
		ctx,
		p.config.Exchange,   // exchange
		p.config.RoutingKey, // routing key
		true,                // mandatory
		false,               // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			MessageId:    event.ID.String(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	select {
	case confirm := <-confirms:
		if !confirm.Ack {
			return fmt.Errorf("message was not acknowledged by broker")
		}
	case <-time.After(5 * time.Second):
		return fmt.Errorf("timeout waiting for publish confirmation")
	case <-ctx.Done():
		return ctx.Err()
	}

	logger.Log.Debug("Published download event",
		zap.String("eventId", event.ID.String()),
		zap.String("kind", event.Kind),
	)

	return nil
}

// PublishAsync fires Publish on its own goroutine and logs failures. This is
// the normal call path: event recording must never block or fail the
// user-facing operation that triggered it.
func (p *EventPublisher) PublishAsync(event *DownloadEvent) {
	if p == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := p.Publish(ctx, event); err != nil {
			logger.Log.Warn("Failed to publish download event",
				zap.Error(err),
				zap.String("kind", event.Kind),
			)
		}
	}()
}

func (p *EventPublisher) Close() error {
	if p == nil {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing publisher: %v", errs)
	}

	logger.Log.Info("RabbitMQ publisher closed")
	return nil
}

// IsHealthy reports whether the broker connection is usable. A nil publisher
// is healthy by definition (publishing is disabled).
func (p *EventPublisher) IsHealthy() bool {
	if p == nil {
		return true
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.conn != nil && !p.conn.IsClosed() && p.channel != nil
}
