package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/makpal80/avtoray/internal/service"

	"github.com/segmentio/kafka-go"
)

type OrderProducer struct {
	writer *kafka.Writer
}

func NewOrderProducer(brokers []string, topic string) *OrderProducer {
	return &OrderProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

// PublishOrderEvent keys by order id so one order's events stay in one partition.
func (p *OrderProducer) PublishOrderEvent(ctx context.Context, e service.OrderEvent) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	value, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.OrderID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(e.Type)},
		},
	})
}

func (p *OrderProducer) Close() error {
	return p.writer.Close()
}
