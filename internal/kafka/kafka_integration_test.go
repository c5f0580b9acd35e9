//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/notify_gateway/internal/domain"
	ikafka "github.com/Gunvolt24/notify_gateway/internal/kafka"
	"github.com/Gunvolt24/notify_gateway/internal/testutil"
	"github.com/Gunvolt24/notify_gateway/internal/upstream/notifications"
	"github.com/Gunvolt24/notify_gateway/internal/usecase"
	"github.com/Gunvolt24/notify_gateway/pkg/logger"
	"github.com/Gunvolt24/notify_gateway/pkg/validate"
)

var reUnsafe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func safe(t *testing.T) string { return reUnsafe.ReplaceAllString(t.Name(), "-") }

// staticTokens — источник токена без провайдера удостоверений.
type staticTokens struct{}

func (staticTokens) Token(context.Context) (domain.AccessToken, error) {
	return domain.AccessToken{Value: "it-token", ExpiresAt: time.Now().Add(time.Hour)}, nil
}
func (staticTokens) Invalidate(context.Context, domain.AccessToken) {}

// fakePlatform — upstream, который принимает заказы и складывает их в канал.
// failFirst — сколько первых запросов ответить 503.
func fakePlatform(t *testing.T, failFirst int32) (*httptest.Server, <-chan domain.UpstreamOrderRequest) {
	t.Helper()
	got := make(chan domain.UpstreamOrderRequest, 16)
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != notifications.APIPath+"/orders" {
			http.NotFound(w, r)
			return
		}
		if calls.Add(1) <= failFirst {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		var req domain.UpstreamOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		got <- req
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(domain.UpstreamOrderConfirmation{OrderID: "it-" + req.SendersReference})
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

type stack struct {
	ctx      context.Context
	kf       *testutil.KafkaEnv
	svc      *usecase.OrderService
	received <-chan domain.UpstreamOrderRequest
	log      *logger.ZapLogger
}

func newStack(t *testing.T, failFirst int32) *stack {
	t.Helper()

	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancelStart)

	kf, stopKF, err := testutil.StartKafkaTC(ctxStart, "order-requests-itc")
	require.NoError(t, err)
	t.Cleanup(func() { _ = stopKF(context.Background()) })

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	t.Cleanup(cancel)

	logg, closer, err := logger.NewZapLogger(false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer() })

	srv, received := fakePlatform(t, failFirst)
	client := notifications.NewClient(srv.URL, staticTokens{}, logg)
	svc := usecase.NewOrderService(client, logg, validate.NewOrderValidator(), nil, usecase.Settings{
		EmailFromAddress: "noreply@example.no",
		SmsSenderNumber:  "Sender",
	})

	return &stack{ctx: ctx, kf: kf, svc: svc, received: received, log: logg}
}

func (s *stack) consumer(topic, group, resultTopic string) *ikafka.Consumer {
	return ikafka.NewConsumer(&ikafka.ConsumerConfig{
		Brokers:        s.kf.Brokers,
		Topic:          topic,
		GroupID:        group,
		StartOffset:    "first",
		ResultTopic:    resultTopic,
		ProcessTimeout: 5 * time.Second,
		RetryInitial:   200 * time.Millisecond,
		RetryMax:       2 * time.Second,
	}, s.svc, s.log)
}

func orderJSON(t *testing.T, ref string) []byte {
	t.Helper()
	raw, err := json.Marshal(domain.OrderRequest{
		NationalIdentityNumbers: []string{"12345678901"},
		NotificationChannel:     domain.ChannelSms,
		SmsTemplate:             &domain.SmsContent{Body: "Hei"},
		SendersReference:        ref,
	})
	require.NoError(t, err)
	return raw
}

func writeMsg(t *testing.T, ctx context.Context, brokers []string, topic string, payload []byte) {
	t.Helper()
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireAll,
		Balancer:     &kafka.LeastBytes{},
	}
	defer w.Close()
	require.NoError(t, w.WriteMessages(ctx, kafka.Message{Value: payload}))
}

func waitOrder(t *testing.T, ctx context.Context, received <-chan domain.UpstreamOrderRequest) domain.UpstreamOrderRequest {
	t.Helper()
	select {
	case req := <-received:
		return req
	case <-time.After(20 * time.Second):
		t.Fatal("order did not reach the platform in time")
	case <-ctx.Done():
		t.Fatal(ctx.Err())
	}
	return domain.UpstreamOrderRequest{}
}

// 1) Мусор и невалидный заказ пропускаются, следующий валидный доходит до платформы,
// а его подтверждение появляется в топике результатов.
func TestKafka_SkipsInvalid_SubmitsValid_PublishesConfirmation_TC(t *testing.T) {
	s := newStack(t, 0)

	names := testutil.NewIntakeTopics(s.kf.BaseTopic + "-" + safe(t))
	require.NoError(t, testutil.EnsureTopics(s.ctx, s.kf.Brokers, names.All()...))
	topic, group, resultTopic := names.Requests, names.Group, names.Results

	consumer := s.consumer(topic, group, resultTopic)
	t.Cleanup(func() { _ = consumer.Close() })

	runCtx, cancelRun := context.WithCancel(s.ctx)
	defer cancelRun()
	go func() { _ = consumer.Run(runCtx) }()

	writeMsg(t, s.ctx, s.kf.Brokers, topic, []byte("not-a-json"))
	writeMsg(t, s.ctx, s.kf.Brokers, topic, []byte(`{"nationalIdentityNumbers":[],"notificationChannel":"Sms","sendersReference":"bad"}`))
	writeMsg(t, s.ctx, s.kf.Brokers, topic, orderJSON(t, "good"))

	req := waitOrder(t, s.ctx, s.received)
	require.Equal(t, "good", req.SendersReference)
	require.Equal(t, "Sender", req.SmsTemplate.SenderNumber)

	results := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     s.kf.Brokers,
		Topic:       resultTopic,
		StartOffset: kafka.FirstOffset,
	})
	defer results.Close()

	msg, err := results.ReadMessage(s.ctx)
	require.NoError(t, err)
	var conf domain.OrderConfirmation
	require.NoError(t, json.Unmarshal(msg.Value, &conf))
	require.Equal(t, "it-good", conf.ID)
	require.Equal(t, "orders/it-good", conf.StatusLink)
}

// 2) At-least-once: сбой upstream не коммитит оффсет, сообщение обрабатывается повторно.
func TestKafka_UpstreamFailure_Redelivered_TC(t *testing.T) {
	s := newStack(t, 2)

	names := testutil.NewIntakeTopics(s.kf.BaseTopic + "-" + safe(t))
	require.NoError(t, testutil.EnsureTopics(s.ctx, s.kf.Brokers, names.Requests))
	topic, group := names.Requests, names.Group

	consumer := s.consumer(topic, group, "")
	t.Cleanup(func() { _ = consumer.Close() })

	runCtx, cancelRun := context.WithCancel(s.ctx)
	defer cancelRun()
	go func() { _ = consumer.Run(runCtx) }()

	writeMsg(t, s.ctx, s.kf.Brokers, topic, orderJSON(t, "retry-me"))

	req := waitOrder(t, s.ctx, s.received)
	require.Equal(t, "retry-me", req.SendersReference)
}

// 3) StartOffset="last": сообщения, опубликованные до старта консьюмера, игнорируются.
func TestKafka_StartOffset_Last_IgnoresOld_TC(t *testing.T) {
	s := newStack(t, 0)

	names := testutil.NewIntakeTopics(s.kf.BaseTopic + "-" + safe(t))
	require.NoError(t, testutil.EnsureTopics(s.ctx, s.kf.Brokers, names.Requests))
	topic, group := names.Requests, names.Group

	writeMsg(t, s.ctx, s.kf.Brokers, topic, orderJSON(t, "old"))

	consumer := ikafka.NewConsumer(&ikafka.ConsumerConfig{
		Brokers:     s.kf.Brokers,
		Topic:       topic,
		GroupID:     group,
		StartOffset: "last",
	}, s.svc, s.log)
	t.Cleanup(func() { _ = consumer.Close() })

	runCtx, cancelRun := context.WithCancel(s.ctx)
	defer cancelRun()
	go func() { _ = consumer.Run(runCtx) }()

	// Публикуем новое, пока оно не дойдёт: часть сообщений может оказаться до базовой позиции.
	ticker := time.NewTicker(300 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(20 * time.Second)
	for {
		writeMsg(t, s.ctx, s.kf.Brokers, topic, orderJSON(t, "new"))
		select {
		case req := <-s.received:
			require.Equal(t, "new", req.SendersReference)
			return
		case <-deadline:
			t.Fatal("new order did not reach the platform in time")
		case <-ticker.C:
		}
	}
}
