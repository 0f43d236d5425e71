package events

import (
	"context"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/wallet-server/internal/service"
)

const (
	publishTimeout = 5 * time.Second
	pendingBuffer  = 256
)

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher forwards committed transactions to an AMQP exchange. Ledger
// subscribers run on the ledger's write path, so HandleLedgerEvent only
// queues the message and Run does the network work.
type Publisher struct {
	conn       *amqp091.Connection
	channel    amqpChannel
	exchange   string
	routingKey string
	pending    chan TransactionCommittedMessage
	logger     logrus.FieldLogger
}

func NewPublisher(url, exchange, routingKey string, logger logrus.FieldLogger) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	publisher := newPublisher(channel, exchange, routingKey, logger)
	publisher.conn = conn
	return publisher, nil
}

func newPublisher(channel amqpChannel, exchange, routingKey string, logger logrus.FieldLogger) *Publisher {
	return &Publisher{
		channel:    channel,
		exchange:   exchange,
		routingKey: routingKey,
		pending:    make(chan TransactionCommittedMessage, pendingBuffer),
		logger:     logger.WithField("exchange", exchange),
	}
}

// HandleLedgerEvent is a ledger Subscriber. It never blocks: when the buffer
// is full the message is dropped and logged.
func (p *Publisher) HandleLedgerEvent(event service.LedgerEvent) {
	if event.Kind != service.LedgerEventCommitted {
		return
	}

	msg := NewTransactionCommittedMessage(event)
	select {
	case p.pending <- msg:
	default:
		p.logger.WithField("transactionID", msg.ID).Warn("Publisher.HandleLedgerEvent.buffer full, dropped")
	}
}

// Run publishes queued messages until ctx is done.
func (p *Publisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-p.pending:
			if err := p.publish(ctx, msg); err != nil {
				p.logger.WithError(err).WithField("transactionID", msg.ID).Error("Publisher.Run.publish error")
			}
		}
	}
}

func (p *Publisher) publish(ctx context.Context, msg TransactionCommittedMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,   // exchange
		p.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    msg.ID,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	p.logger.WithField("transactionID", msg.ID).Debug("Publisher.publish.published")
	return nil
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
