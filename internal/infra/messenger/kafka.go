package messenger

import (
	"context"
	"time"

	"diamond-topup/internal/pkg/errs"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer used here.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSender publishes order-log lines; the channel target is the topic.
type KafkaSender struct {
	writer MessageWriter
}

func NewKafkaWriter(brokers []string, writeTimeout time.Duration) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		WriteTimeout:           writeTimeout,
		AllowAutoTopicCreation: true,
	}
}

func NewKafkaSender(writer MessageWriter) *KafkaSender {
	return &KafkaSender{writer: writer}
}

func (s *KafkaSender) Send(ctx context.Context, topic, text string) error {
	err := s.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Value: []byte(text),
		Time:  time.Now(),
	})
	if err != nil {
		return errs.Wrapf(err, "failed to publish to kafka topic %s", topic)
	}
	return nil
}

func (s *KafkaSender) Close() error {
	return s.writer.Close()
}
