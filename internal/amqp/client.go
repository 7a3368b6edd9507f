package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Client wraps a single AMQP connection and channel wired to a durable
// direct exchange. The routing key equals the queue name.
type Client struct {
	conn     *amqp091.Connection
	ch       *amqp091.Channel
	exchange string
	queue    string
}

func NewClient(url, exchange, queue string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	c := &Client{conn: conn, ch: ch, exchange: exchange, queue: queue}
	if err := c.declareTopology(); err != nil {
		c.Close()
		return nil, fmt.Errorf("declare topology: %w", err)
	}
	return c, nil
}

func (c *Client) declareTopology() error {
	durable, autoDelete, internal, exclusive, noWait := true, false, false, false, false

	if err := c.ch.ExchangeDeclare(c.exchange, "direct", durable, autoDelete, internal, noWait, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := c.ch.QueueDeclare(c.queue, durable, autoDelete, exclusive, noWait, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := c.ch.QueueBind(c.queue, c.queue, c.exchange, noWait, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// PublishLedgerChanged publishes a change announcement for a user's
// collections.
func (c *Client) PublishLedgerChanged(ctx context.Context, uid, collection string) error {
	msg := NewLedgerChangedMessage(uid, collection)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pub := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	}
	if err := c.ch.PublishWithContext(ctx, c.exchange, c.queue, false, false, pub); err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	slog.InfoContext(ctx, "Published ledger change message",
		"uid", uid,
		"collection", collection,
		"exchange", c.exchange,
		"queue", c.queue)

	return nil
}

// ConsumeLedgerChanges consumes change messages until the context ends.
// Handler errors nack with requeue; undecodable messages are dropped.
func (c *Client) ConsumeLedgerChanges(ctx context.Context, handler func(*LedgerChangedMessage) error) error {
	autoAck := false // deliveries are acked only after the handler succeeds
	msgs, err := c.ch.Consume(c.queue, "", autoAck, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming ledger change messages", "queue", c.queue)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			msg, err := LedgerChangedMessageFromJSON(delivery.Body)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to unmarshal message", "error", err)
				delivery.Nack(false, false)
				continue
			}

			if err := handler(msg); err != nil {
				slog.ErrorContext(ctx, "Failed to handle message",
					"error", err,
					"uid", msg.UID,
					"collection", msg.Collection)
				delivery.Nack(false, true)
				continue
			}

			delivery.Ack(false)
		}
	}
}

func (c *Client) Close() error {
	if c.ch != nil {
		c.ch.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
