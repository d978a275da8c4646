package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"station-dashboard/internal/logging"
	"station-dashboard/internal/models"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes station alerts to a Kafka topic, keyed by station ID so
// every transition of one station lands on the same partition.
type Producer struct {
	writer messageWriter
	topic  string
	logger *logging.Logger
}

func NewProducer(broker, topic string, logger *logging.Logger) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 250 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	logger.Infof("Kafka producer initialized with topic: %s", topic)
	return &Producer{writer: w, topic: topic, logger: logger}
}

func (p *Producer) Name() string { return "kafka" }

// Send writes alert as JSON.
func (p *Producer) Send(ctx context.Context, alert models.Alert) error {
	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal alert for %s: %w", alert.StationID, err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(alert.StationID),
		Value: body,
		Time:  alert.RaisedAt,
	})
	if err != nil {
		return fmt.Errorf("write to topic %s: %w", p.topic, err)
	}
	return nil
}

func (p *Producer) Close() {
	if err := p.writer.Close(); err != nil {
		p.logger.Errorf("Kafka producer close failed: %v", err)
	}
}
