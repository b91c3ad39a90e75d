package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/exmatch/exchange/internal/api/logger"
	"github.com/exmatch/exchange/internal/stream"
	"github.com/exmatch/exchange/internal/types"
)

const publishTimeout = 5 * time.Second

// Producer publishes order and trade events to a Kafka topic, keyed by
// symbol so per-symbol ordering is preserved across partitions. Writes are
// async; the matching path never waits on the broker.
type Producer struct {
	writer *kafka.Writer
}

// NewProducer creates a Kafka-backed event publisher.
func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Async:        true,
			BatchTimeout: 10 * time.Millisecond,
			Completion: func(messages []kafka.Message, err error) {
				if err != nil {
					logger.Error("failed to publish events to kafka", map[string]interface{}{
						"error": err.Error(),
						"count": len(messages),
					})
				}
			},
		},
	}
}

func (p *Producer) PublishOrder(order *types.Order) {
	p.send(order.Symbol, stream.Event{Type: stream.EventOrderUpdate, Data: order})
}

func (p *Producer) PublishTrade(trade *types.Trade) {
	p.send(trade.Symbol, stream.Event{Type: stream.EventTradeUpdate, Data: trade})
}

func (p *Producer) send(symbol string, event stream.Event) {
	value, err := json.Marshal(event)
	if err != nil {
		logger.Error("failed to marshal event", map[string]interface{}{
			"error": err.Error(),
			"type":  event.Type,
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(symbol),
		Value: value,
	}); err != nil {
		logger.Error("failed to enqueue event for kafka", map[string]interface{}{
			"error": err.Error(),
			"type":  event.Type,
		})
	}
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
