package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/notify_gateway/internal/domain"
	"github.com/Gunvolt24/notify_gateway/pkg/metrics"
	"github.com/Gunvolt24/notify_gateway/pkg/validate"
)

// handleMessage обрабатывает одно сообщение и решает, коммитить ли оффсет.
func (c *Consumer) handleMessage(ctx context.Context, topic string, msg *kafka.Message) bool {
	ctxTimeout, cancel := context.WithTimeout(ctx, c.processTimeout)
	conf, err := c.service.SubmitFromMessage(ctxTimeout, msg.Value)
	cancel()

	switch {
	case err == nil:
		metrics.KafkaMessagesProcessed.WithLabelValues(topic).Inc()
		c.publishConfirmation(ctx, msg, conf)
		return true
	case isPermanent(err):
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(ctx, "rejected order message offset=%d: %v (skipped)", msg.Offset, err)
		return true
	default:
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(ctx, "process failed offset=%d: %v (will retry without commit)", msg.Offset, err)
		return false
	}
}

// isPermanent — ошибка, которую повтор того же сообщения не исправит.
func isPermanent(err error) bool {
	return errors.Is(err, validate.ErrInvalidOrder) || errors.Is(err, domain.ErrBadRequest)
}

// publishConfirmation — отправка подтверждения в топик результатов.
// Заказ уже создан upstream, поэтому ошибка публикации не отменяет коммит.
func (c *Consumer) publishConfirmation(ctx context.Context, msg *kafka.Message, conf *domain.OrderConfirmation) {
	if c.results == nil || conf == nil {
		return
	}

	payload, err := json.Marshal(conf)
	if err != nil {
		c.log.Errorf(ctx, "encode confirmation id=%s: %v", conf.ID, err)
		return
	}

	key := msg.Key
	if len(key) == 0 {
		key = []byte(conf.ID)
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, c.processTimeout)
	defer cancel()
	if err := c.results.WriteMessages(ctxTimeout, kafka.Message{Key: key, Value: payload}); err != nil {
		c.log.Warnf(ctx, "publish confirmation id=%s failed: %v", conf.ID, err)
		return
	}
	metrics.KafkaConfirmationsPublished.WithLabelValues(c.resultTopic).Inc()
}

// commitSafely пытается закоммитить оффсет и логирует ошибку.
func (c *Consumer) commitSafely(ctx context.Context, msg *kafka.Message) {
	if commitErr := c.reader.CommitMessages(ctx, *msg); commitErr != nil {
		c.log.Warnf(ctx, "commit failed offset=%d: %v", msg.Offset, commitErr)
	}
}

// sleepWithBackoff ждёт d или останавливается по контексту.
func (c *Consumer) sleepWithBackoff(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// nextBackoff — удвоение паузы с потолком retryMax.
func (c *Consumer) nextBackoff(current time.Duration) time.Duration {
	return min(current*2, c.retryMax)
}

// withJitterEqual — половина задержки фиксирована, вторая половина случайна.
func (c *Consumer) withJitterEqual(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	half := d / 2
	jitter := time.Duration(c.jitterRand.Int63n(int64(d-half) + 1))
	return half + jitter
}
