package kafka

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/notify_gateway/internal/domain"
	"github.com/Gunvolt24/notify_gateway/internal/ports"
	"github.com/Gunvolt24/notify_gateway/pkg/metrics"
)

// Проверка, что Consumer удовлетворяет интерфейсу верхнего уровня (порт приложения).
var _ ports.MessageConsumer = (*Consumer)(nil)

const (
	defaultProcessTimeout = 10 * time.Second
	defaultRetryInitial   = 1 * time.Second
	defaultRetryMax       = 30 * time.Second
)

// reader — минимальный контракт над kafka.Reader, чтобы подменять его моками в тестах.
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
	Close() error
}

// resultWriter — минимальный контракт над kafka.Writer для топика подтверждений.
type resultWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// orderSubmitter — прикладной слой: разбор, валидация и отправка заказа в upstream.
type orderSubmitter interface {
	SubmitFromMessage(ctx context.Context, raw []byte) (*domain.OrderConfirmation, error)
}

// Consumer — приём заказов из Kafka с ручным коммитом (at-least-once).
type Consumer struct {
	reader         reader
	results        resultWriter // nil — подтверждения не публикуются
	resultTopic    string
	service        orderSubmitter
	log            ports.Logger
	processTimeout time.Duration
	retryInitial   time.Duration
	retryMax       time.Duration
	jitterRand     *rand.Rand
	closeOnce      sync.Once
}

// NewConsumer — конструктор. Незаданные таймауты заменяются значениями по умолчанию.
func NewConsumer(cfg *ConsumerConfig, service orderSubmitter, log ports.Logger) *Consumer {
	c := &Consumer{
		reader:         kafka.NewReader(cfg.ReaderConfig()),
		service:        service,
		log:            log,
		processTimeout: orDefault(cfg.ProcessTimeout, defaultProcessTimeout),
		retryInitial:   orDefault(cfg.RetryInitial, defaultRetryInitial),
		retryMax:       orDefault(cfg.RetryMax, defaultRetryMax),
		jitterRand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	// Типизированный nil в интерфейсе не должен попасть в поле.
	if w := cfg.resultWriter(); w != nil {
		c.results = w
		c.resultTopic = cfg.ResultTopic
	}
	return c
}

// Run — основной цикл:
//  1. читаем сообщение без авто-коммита;
//  2. заказ принят upstream → публикуем подтверждение и коммитим;
//  3. заказ невалиден или отклонён upstream как неверный → лог и коммит (повтор бессмыслен);
//  4. временная ошибка → без коммита, сообщение будет прочитано снова.
func (c *Consumer) Run(ctx context.Context) error {
	rc := c.reader.Config()
	c.log.Infof(ctx, "order intake started topic=%s group_id=%s brokers=%v results=%q",
		rc.Topic, rc.GroupID, rc.Brokers, c.resultTopic)

	retry := c.retryInitial

	for {
		msg, fetchErr := c.reader.FetchMessage(ctx)
		if fetchErr != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			sleep := c.withJitterEqual(retry)
			c.log.Warnf(ctx, "fetch failed: %v (will retry in %s)", fetchErr, sleep)
			if !c.sleepWithBackoff(ctx, sleep) {
				return ctx.Err()
			}
			retry = c.nextBackoff(retry)
			continue
		}

		retry = c.retryInitial
		metrics.KafkaMessagesConsumed.WithLabelValues(rc.Topic).Inc()

		if c.handleMessage(ctx, rc.Topic, &msg) {
			c.commitSafely(ctx, &msg)
			continue
		}
		// Пауза перед повтором, чтобы не долбить upstream во время сбоя.
		_ = c.sleepWithBackoff(ctx, c.withJitterEqual(min(c.retryInitial, 500*time.Millisecond)))
	}
}

// Close — закрывает reader и writer подтверждений. Повторные вызовы ничего не делают.
func (c *Consumer) Close() (retErr error) {
	c.closeOnce.Do(func() {
		retErr = c.reader.Close()
		if c.results != nil {
			if err := c.results.Close(); err != nil && retErr == nil {
				retErr = err
			}
		}
	})
	return retErr
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
