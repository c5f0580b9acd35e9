//go:build integration

package testutil

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// IntakeTopics — изолированный набор имён для одного теста приёма заказов.
type IntakeTopics struct {
	Requests string // входящие запросы на рассылку
	Results  string // подтверждения принятых заказов
	Group    string // consumer group шлюза
}

// NewIntakeTopics — имена вида "<base>-<uuid>", "<base>-<uuid>-results", "<base>-<uuid>-gateway".
func NewIntakeTopics(base string) IntakeTopics {
	requests := base + "-" + uuid.NewString()
	return IntakeTopics{
		Requests: requests,
		Results:  requests + "-results",
		Group:    requests + "-gateway",
	}
}

// All — оба топика набора.
func (t IntakeTopics) All() []string { return []string{t.Requests, t.Results} }

// EnsureTopics — создаёт топики одним запросом к кластеру и ждёт, пока у каждого появятся партиции.
// Уже существующий топик ошибкой не считается.
func EnsureTopics(ctx context.Context, brokers []string, topics ...string) error {
	if len(brokers) == 0 {
		return errors.New("testutil: no brokers")
	}
	client := &kafka.Client{Addr: kafka.TCP(brokerAddrs(brokers)...), Timeout: 10 * time.Second}

	req := &kafka.CreateTopicsRequest{}
	for _, topic := range topics {
		req.Topics = append(req.Topics, kafka.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1})
	}
	resp, err := client.CreateTopics(ctx, req)
	if err != nil {
		return fmt.Errorf("create topics: %w", err)
	}
	for topic, tErr := range resp.Errors {
		if tErr != nil && !errors.Is(tErr, kafka.TopicAlreadyExists) {
			return fmt.Errorf("create topic %q: %w", topic, tErr)
		}
	}

	return waitPartitions(ctx, client, topics)
}

// waitPartitions — опрос метаданных, пока все топики не станут доступны для чтения и записи.
func waitPartitions(ctx context.Context, client *kafka.Client, topics []string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()

	var lastErr error
	for {
		meta, err := client.Metadata(ctx, &kafka.MetadataRequest{Topics: topics})
		if err == nil {
			lastErr = nil
			ready := 0
			for _, tm := range meta.Topics {
				switch {
				case tm.Error != nil:
					lastErr = fmt.Errorf("topic %q: %w", tm.Name, tm.Error)
				case len(tm.Partitions) > 0:
					ready++
				}
			}
			if ready == len(topics) {
				return nil
			}
		} else {
			lastErr = err
		}

		select {
		case <-ctx.Done():
			if lastErr != nil {
				return fmt.Errorf("topics %v not ready: %w", topics, lastErr)
			}
			return fmt.Errorf("topics %v not ready: %w", topics, ctx.Err())
		case <-tick.C:
		}
	}
}

// brokerAddrs — адреса без схемы: testcontainers отдаёт "PLAINTEXT://host:port".
func brokerAddrs(brokers []string) []string {
	out := make([]string, 0, len(brokers))
	for _, b := range brokers {
		b = strings.TrimSpace(b)
		if u, err := url.Parse(b); err == nil && u.Host != "" {
			b = u.Host
		}
		out = append(out, b)
	}
	return out
}
