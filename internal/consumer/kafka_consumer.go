package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/makpal80/avtoray/internal/money"
	"github.com/makpal80/avtoray/internal/sender"
	"github.com/makpal80/avtoray/internal/service"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Mailer interface {
	SendEmail(n sender.EmailNotification) error
}

type KafkaOrderConsumer struct {
	reader     *kafka.Reader
	mailer     Mailer
	adminEmail string
	log        *zap.Logger
}

func NewKafkaOrderConsumer(brokers []string, groupID, topic string, mailer Mailer, adminEmail string, log *zap.Logger) *KafkaOrderConsumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:           brokers,
		GroupID:           groupID,
		Topic:             topic,
		MinBytes:          10e3,
		MaxBytes:          10e6,
		CommitInterval:    time.Second,
		HeartbeatInterval: 3 * time.Second,
		SessionTimeout:    30 * time.Second,
	})
	return &KafkaOrderConsumer{reader: r, mailer: mailer, adminEmail: adminEmail, log: log}
}

func (c *KafkaOrderConsumer) Run(ctx context.Context) error {
	c.log.Info("kafka consumer started")
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			c.log.Error("read message", zap.Error(err))
			continue
		}
		c.Handle(m.Value)
	}
}

// Handle processes one raw event. Bad payloads are logged and skipped.
func (c *KafkaOrderConsumer) Handle(value []byte) {
	var e service.OrderEvent
	if err := json.Unmarshal(value, &e); err != nil {
		c.log.Error("unmarshal order event", zap.ByteString("value", value), zap.Error(err))
		return
	}
	n, ok := Notification(e, c.adminEmail)
	if !ok {
		c.log.Warn("unsupported order event", zap.String("type", e.Type), zap.String("order_id", e.OrderID.String()))
		return
	}
	if err := c.mailer.SendEmail(n); err != nil {
		c.log.Error("send email failed", zap.String("to", n.To), zap.String("template", n.Template), zap.Error(err))
		return
	}
	c.log.Info("email sent", zap.String("to", n.To), zap.String("template", n.Template), zap.String("order_id", e.OrderID.String()))
}

// Notification maps an order event onto the admin mailbox.
func Notification(e service.OrderEvent, to string) (sender.EmailNotification, bool) {
	var tmpl, subject string
	switch e.Type {
	case service.EventOrderCreated:
		tmpl, subject = "order_created", fmt.Sprintf("Новый заказ №%d", e.UserOrderNumber)
	case service.EventOrderApproved:
		tmpl, subject = "order_approved", fmt.Sprintf("Заказ №%d подтверждён", e.UserOrderNumber)
	case service.EventOrderRejected:
		tmpl, subject = "order_rejected", fmt.Sprintf("Заказ №%d отклонён", e.UserOrderNumber)
	default:
		return sender.EmailNotification{}, false
	}
	if to == "" {
		return sender.EmailNotification{}, false
	}

	lines := make([]map[string]any, 0, len(e.Lines))
	for _, l := range e.Lines {
		lines = append(lines, map[string]any{
			"Name":     l.ProductName,
			"Variant":  l.VariantName,
			"Quantity": l.Quantity,
			"Price":    money.FormatAmount(l.UnitPrice),
			"Total":    money.FormatAmount(l.LineTotal),
		})
	}

	return sender.EmailNotification{
		To:       to,
		Subject:  subject,
		Template: tmpl,
		Data: map[string]any{
			"Number":          e.UserOrderNumber,
			"OrderID":         e.OrderID.String(),
			"Customer":        e.UserName,
			"Phone":           e.UserPhone,
			"PaymentMethod":   e.PaymentMethod,
			"Total":           money.FormatAmount(e.TotalAmount),
			"DiscountPercent": e.DiscountPercent,
			"Final":           money.FormatAmount(e.FinalAmount),
			"Lines":           lines,
		},
	}, true
}

func (c *KafkaOrderConsumer) Close() error { return c.reader.Close() }
