package kafka

import (
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// ConsumerConfig — параметры приёма заказов из Kafka.
type ConsumerConfig struct {
	Brokers     []string
	Topic       string // топик входящих заказов
	GroupID     string
	StartOffset string // "first" | "last"; всё остальное трактуется как "last"

	// ResultTopic — топик подтверждений. Пусто — подтверждения не публикуются.
	ResultTopic string

	ProcessTimeout time.Duration // таймаут обработки одного сообщения
	RetryInitial   time.Duration // первая пауза после ошибки чтения
	RetryMax       time.Duration // потолок экспоненциальной паузы
}

// ReaderConfig — конфигурация kafka.Reader с ручным коммитом оффсетов.
func (c *ConsumerConfig) ReaderConfig() kafka.ReaderConfig {
	rc := kafka.ReaderConfig{
		Brokers:        c.Brokers,
		GroupID:        c.GroupID,
		Topic:          c.Topic,
		CommitInterval: 0,
	}

	switch strings.ToLower(strings.TrimSpace(c.StartOffset)) {
	case "first":
		rc.StartOffset = kafka.FirstOffset
	default:
		rc.StartOffset = kafka.LastOffset
	}

	return rc
}

// resultWriter — писатель подтверждений или nil, если топик не задан.
func (c *ConsumerConfig) resultWriter() *kafka.Writer {
	if strings.TrimSpace(c.ResultTopic) == "" {
		return nil
	}
	return &kafka.Writer{
		Addr:         kafka.TCP(c.Brokers...),
		Topic:        c.ResultTopic,
		RequiredAcks: kafka.RequireAll,
		Balancer:     &kafka.Hash{},
	}
}
