package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/pkg/logger"
	"github.com/IBM/sarama"
)

const (
	// DefaultBaseTopic базовое имя топика; события публикуются в
	// <base>.refreshed и <base>.failed
	DefaultBaseTopic = "subscription.snapshot"

	suffixRefreshed = ".refreshed"
	suffixFailed    = ".failed"
)

// SnapshotEvent событие жизненного цикла снапшота для Kafka
type SnapshotEvent struct {
	SnapshotID string    `json:"snapshot_id"`
	Source     string    `json:"source"`
	Records    int       `json:"records"`
	Dropped    int       `json:"dropped"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// SnapshotProducer интерфейс для публикации событий снапшота
type SnapshotProducer interface {
	PublishRefreshed(ctx context.Context, event SnapshotEvent) error
	PublishFailed(ctx context.Context, event SnapshotEvent) error
	Close() error
}

type snapshotProducer struct {
	producer  sarama.SyncProducer
	baseTopic string
	log       *logger.Logger
}

// NewSyncProducer создает sarama-продюсер с подтверждением от всех реплик
func NewSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Return.Successes = true
	cfg.Producer.MaxMessageBytes = 1000000

	return sarama.NewSyncProducer(brokers, cfg)
}

// NewSnapshotProducer создает продюсер событий снапшота; пустой baseTopic
// заменяется значением по умолчанию
func NewSnapshotProducer(producer sarama.SyncProducer, baseTopic string, log *logger.Logger) SnapshotProducer {
	if baseTopic == "" {
		baseTopic = DefaultBaseTopic
	}
	return &snapshotProducer{
		producer:  producer,
		baseTopic: baseTopic,
		log:       log,
	}
}

// PublishRefreshed публикует событие об успешной публикации снапшота
func (p *snapshotProducer) PublishRefreshed(ctx context.Context, event SnapshotEvent) error {
	return p.publishEvent(ctx, p.baseTopic+suffixRefreshed, event)
}

// PublishFailed публикует событие о неудачной перезагрузке
func (p *snapshotProducer) PublishFailed(ctx context.Context, event SnapshotEvent) error {
	return p.publishEvent(ctx, p.baseTopic+suffixFailed, event)
}

func (p *snapshotProducer) publishEvent(ctx context.Context, topic string, event SnapshotEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	messageValue, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(event.SnapshotID),
		Value: sarama.ByteEncoder(messageValue),
		Headers: []sarama.RecordHeader{
			{
				Key:   []byte("event_type"),
				Value: []byte(topic),
			},
		},
		Timestamp: time.Now(),
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to publish snapshot event: %w", err)
	}

	p.log.Info("Published snapshot event to topic %s: partition=%d offset=%d",
		topic, partition, offset)

	return nil
}

// Close закрывает продюсер
func (p *snapshotProducer) Close() error {
	return p.producer.Close()
}
