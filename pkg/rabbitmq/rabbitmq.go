// Package rabbitmq publishes JSON messages to durable RabbitMQ queues.
package rabbitmq

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	amqp "github.com/streadway/amqp"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *log.Logger

	// amqp channels must not be shared by concurrent publishers.
	mu sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
	// Queues are declared durable on connect.
	Queues []string
	Logger *log.Logger
}

// NewClient connects to RabbitMQ, opens a channel and declares the configured queues.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	for _, q := range cfg.Queues {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to declare queue %s: %w", q, err)
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Info("rabbitmq client connected", "queues", cfg.Queues)

	return &Client{conn: conn, channel: ch, logger: logger}, nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// PublishJSON marshals payload and publishes it as a persistent message on queue through
// the default exchange.
func (c *Client) PublishJSON(queue string, payload any) error {
	if c.channel == nil {
		return errors.New("rabbitmq channel is not available")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message for %s: %w", queue, err)
	}

	c.mu.Lock()
	err = c.channel.Publish("", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to publish message to %s: %w", queue, err)
	}

	c.logger.Debug("published message", "queue", queue, "bytes", len(body))
	return nil
}
