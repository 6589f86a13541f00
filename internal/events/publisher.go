// Package events publishes ledger change notifications to an AMQP exchange.
package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"cashbook/internal/log"
)

// ErrCircuitOpen is returned while the broker is considered unavailable.
var ErrCircuitOpen = errors.New("circuit breaker is open")

const publishTimeout = 5 * time.Second

// Publisher sends LedgerChangedMessage values to a durable direct exchange.
// The connection is opened on first use and reopened after connection
// errors.
type Publisher struct {
	url          string
	exchangeName string
	routingKey   string
	logger       *log.Logger

	breaker

	connMu  sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func NewPublisher(url, exchangeName, routingKey string, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = log.Discard()
	}
	return &Publisher{
		url:          url,
		exchangeName: exchangeName,
		routingKey:   routingKey,
		logger:       logger.WithComponent(log.ComponentAMQP),
	}
}

// Connect dials the broker and declares the exchange, retrying with
// exponential backoff up to attempts times. Calling it is optional.
func (p *Publisher) Connect(ctx context.Context, attempts int) error {
	p.connMu.Lock()
	defer p.connMu.Unlock()

	var err error
	for attempt := 0; attempt < max(attempts, 1); attempt++ {
		if attempt > 0 {
			delay := exponentialBackoff(attempt - 1)
			p.logger.WarnContext(ctx, "Retrying AMQP connection",
				"attempt", attempt+1,
				"delay", delay,
				log.FieldError, err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		if _, err = p.ensureChannel(ctx); err == nil {
			return nil
		}
	}
	return err
}

func (p *Publisher) ensureChannel(ctx context.Context) (*amqp091.Channel, error) {
	if p.channel != nil && !p.channel.IsClosed() {
		return p.channel, nil
	}
	p.closeLocked()

	conn, err := amqp091.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		p.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	p.conn, p.channel = conn, channel
	p.logger.InfoContext(ctx, "Connected to AMQP broker",
		log.FieldExchange, p.exchangeName,
		log.FieldRoutingKey, p.routingKey)
	return channel, nil
}

// PublishLedgerChanged publishes msg as a persistent JSON message.
func (p *Publisher) PublishLedgerChanged(ctx context.Context, msg *LedgerChangedMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.isCircuitOpen() {
		return fmt.Errorf("publish %s: %w", msg.Operation, ErrCircuitOpen)
	}

	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.connMu.Lock()
	defer p.connMu.Unlock()

	channel, err := p.ensureChannel(ctx)
	if err != nil {
		p.recordFailure()
		return err
	}

	err = channel.PublishWithContext(
		ctx,
		p.exchangeName, // exchange
		p.routingKey,   // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    msg.MessageID,
			Timestamp:    msg.Timestamp,
			Type:         msg.Operation,
			Body:         body,
		},
	)
	if err != nil {
		p.recordFailure()
		if isConnectionError(err) {
			p.closeLocked()
		}
		return fmt.Errorf("publish message: %w", err)
	}
	p.recordSuccess()

	p.logger.DebugContext(ctx, "Published ledger change",
		log.FieldMessageID, msg.MessageID,
		log.FieldOperation, msg.Operation,
		log.FieldTransactionID, msg.TransactionID,
		log.FieldRevision, msg.Revision)
	return nil
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	p.connMu.Lock()
	defer p.connMu.Unlock()
	return p.closeLocked()
}

func (p *Publisher) closeLocked() error {
	var err error
	if p.channel != nil {
		p.channel.Close()
		p.channel = nil
	}
	if p.conn != nil {
		err = p.conn.Close()
		p.conn = nil
	}
	return err
}
