// Package kafka publishes order status changes to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"laundry/internal/core/domain/model/order"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
)

// NewSyncProducer connects a synchronous producer to brokers.
func NewSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Timeout = 5 * time.Second
	config.Producer.RequiredAcks = sarama.WaitForAll
	return sarama.NewSyncProducer(brokers, config)
}

// OrderStatusChangedMessage is the JSON value of every record on the topic.
type OrderStatusChangedMessage struct {
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	ChangedBy   string    `json:"changed_by"`
	At          time.Time `json:"at"`
}

// OrderStatusPublisher sends one record per status change, keyed by order id so
// the changes of an order stay in one partition.
type OrderStatusPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   zerolog.Logger
}

func NewOrderStatusPublisher(producer sarama.SyncProducer, topic string, logger zerolog.Logger) *OrderStatusPublisher {
	return &OrderStatusPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger.With().Str("component", "order_status_publisher").Logger(),
	}
}

func (p *OrderStatusPublisher) PublishOrderStatusChanged(_ context.Context, events []order.StatusChanged) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]*sarama.ProducerMessage, 0, len(events))
	for _, e := range events {
		value, err := json.Marshal(OrderStatusChangedMessage{
			OrderID:     e.OrderID.String(),
			OrderNumber: e.OrderNumber.String(),
			From:        e.From.String(),
			To:          e.To.String(),
			ChangedBy:   e.ChangedBy.String(),
			At:          e.At,
		})
		if err != nil {
			return fmt.Errorf("marshal status change of order %s: %w", e.OrderID, err)
		}
		msgs = append(msgs, &sarama.ProducerMessage{
			Topic: p.topic,
			Key:   sarama.StringEncoder(e.OrderID.String()),
			Value: sarama.ByteEncoder(value),
		})
	}

	if err := p.producer.SendMessages(msgs); err != nil {
		p.logger.Error().Err(err).Str("topic", p.topic).Int("messages", len(msgs)).Msg("failed to send status changes")
		return err
	}
	p.logger.Debug().Str("topic", p.topic).Int("messages", len(msgs)).Msg("status changes sent")
	return nil
}

func (p *OrderStatusPublisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher logs status changes instead of sending them. It is used when
// no broker is configured.
type NoopPublisher struct {
	logger zerolog.Logger
}

func NewNoopPublisher(logger zerolog.Logger) *NoopPublisher {
	return &NoopPublisher{logger: logger.With().Str("component", "order_status_publisher").Logger()}
}

func (p *NoopPublisher) PublishOrderStatusChanged(_ context.Context, events []order.StatusChanged) error {
	for _, e := range events {
		p.logger.Debug().
			Str("order_id", e.OrderID.String()).
			Str("from", e.From.String()).
			Str("to", e.To.String()).
			Msg("order status changed")
	}
	return nil
}

func (p *NoopPublisher) Close() error {
	return nil
}
