package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/Gunvolt24/notify_gateway/internal/domain"
	"github.com/Gunvolt24/notify_gateway/internal/ports"
	"github.com/Gunvolt24/notify_gateway/pkg/metrics"
)

// Проверка, что Client удовлетворяет порту upstream.
var _ ports.NotificationClient = (*Client)(nil)

// APIPath — префикс API уведомлений относительно базового адреса платформы.
const APIPath = "/notifications/api/v1"

const (
	tracerName      = "github.com/Gunvolt24/notify_gateway/internal/upstream/notifications"
	maxResponseBody = 10 << 20
)

// Имена операций для метрик и спанов.
const (
	opCreateOrder           = "create_order"
	opListOrders            = "list_orders"
	opGetOrderInfo          = "get_order_info"
	opGetOrderStatus        = "get_order_status"
	opGetNotificationStatus = "get_notification_status"
	opCancelOrder           = "cancel_order"
)

// Client — HTTP-клиент платформы уведомлений.
// Каждый запрос несёт bearer-токен; на 401 токен отзывается и запрос повторяется один раз.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  ports.TokenSource
	log     ports.Logger
	tracer  trace.Tracer
}

// Option — настройка клиента.
type Option func(*Client)

// WithHTTPClient — свой HTTP-клиент.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout — таймаут одного HTTP-запроса.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// NewClient — конструктор. platformBaseURL — базовый адрес платформы без APIPath.
func NewClient(platformBaseURL string, tokens ports.TokenSource, log ports.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(platformBaseURL, "/") + APIPath,
		http:    &http.Client{Timeout: 15 * time.Second},
		tokens:  tokens,
		log:     log,
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateOrder — POST /orders.
func (c *Client) CreateOrder(ctx context.Context, req domain.UpstreamOrderRequest) (domain.UpstreamOrderConfirmation, error) {
	var out domain.UpstreamOrderConfirmation
	err := c.call(ctx, opCreateOrder, http.MethodPost, "/orders", nil, req, &out)
	return out, err
}

// ListOrders — GET /orders?sendersReference=...
// Отсутствующий список или не массив возвращается как Orders == nil; неразборчивые элементы пропускаются.
func (c *Client) ListOrders(ctx context.Context, sendersReference string) (domain.OrderList, error) {
	var resp sendersReferenceResponse
	query := url.Values{"sendersReference": []string{sendersReference}}
	if err := c.call(ctx, opListOrders, http.MethodGet, "/orders", query, nil, &resp); err != nil {
		return domain.OrderList{}, err
	}

	list := domain.OrderList{Count: resp.Count}
	raw := bytes.TrimSpace(resp.Orders)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return list, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		c.log.Warnf(ctx, "unparseable order list ref=%s err=%v", sendersReference, err)
		return list, nil
	}

	// Битый элемент пропускается, остальные заказы остаются в списке.
	list.Orders = make([]domain.Order, 0, len(items))
	for i, item := range items {
		var order domain.Order
		if err := json.Unmarshal(item, &order); err != nil {
			c.log.Warnf(ctx, "skip unparseable order ref=%s pos=%d err=%v", sendersReference, i, err)
			continue
		}
		list.Orders = append(list.Orders, order)
	}
	return list, nil
}

// GetOrderInfo — GET /orders/{id}.
func (c *Client) GetOrderInfo(ctx context.Context, orderID string) (domain.Order, error) {
	var out domain.Order
	err := c.call(ctx, opGetOrderInfo, http.MethodGet, "/orders/"+url.PathEscape(orderID), nil, nil, &out)
	return out, err
}

// GetOrderStatus — GET /orders/{id}/status.
func (c *Client) GetOrderStatus(ctx context.Context, orderID string) (domain.OrderProcessingStatus, error) {
	var out domain.OrderProcessingStatus
	err := c.call(ctx, opGetOrderStatus, http.MethodGet, "/orders/"+url.PathEscape(orderID)+"/status", nil, nil, &out)
	return out, err
}

// GetNotificationStatus — GET /orders/{id}/notifications/{sms|email}.
func (c *Client) GetNotificationStatus(ctx context.Context, orderID, channelType string) (domain.ChannelNotifications, error) {
	var resp notificationStatusResponse
	path := "/orders/" + url.PathEscape(orderID) + "/notifications/" + url.PathEscape(channelType)
	if err := c.call(ctx, opGetNotificationStatus, http.MethodGet, path, nil, nil, &resp); err != nil {
		return domain.ChannelNotifications{}, err
	}
	return resp.toDomain(), nil
}

// CancelOrder — PUT /orders/{id}/cancel. 409 означает, что отменять уже поздно.
func (c *Client) CancelOrder(ctx context.Context, orderID string) (domain.OrderProcessingStatus, error) {
	var out domain.OrderProcessingStatus
	err := c.call(ctx, opCancelOrder, http.MethodPut, "/orders/"+url.PathEscape(orderID)+"/cancel", nil, nil, &out)
	var uerr *domain.UpstreamError
	if errors.As(err, &uerr) && uerr.Status == http.StatusConflict {
		uerr.Kind = domain.ErrConflict
	}
	return out, err
}

// call — запрос с токеном, одним повтором на 401, классификацией ошибок и разбором ответа.
func (c *Client) call(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	ctx, span := c.tracer.Start(ctx, "notifications."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("notifications.op", op),
		),
	)
	defer span.End()

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	status, respBody, err := c.authorized(ctx, op, method, target, payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetAttributes(attribute.Int("http.response.status_code", status))

	if !isSuccess(status) {
		uerr := &domain.UpstreamError{
			Op:     op,
			Status: status,
			Body:   strings.TrimSpace(string(respBody)),
			Kind:   classifyStatus(status),
		}
		span.RecordError(uerr)
		span.SetStatus(codes.Error, uerr.Kind.Error())
		return uerr
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		span.RecordError(err)
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// authorized — отправка с текущим токеном; на 401 токен отзывается, берётся новый и запрос повторяется.
func (c *Client) authorized(ctx context.Context, op, method, target string, payload []byte) (int, []byte, error) {
	tok, err := c.tokens.Token(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: access token: %w", op, err)
	}

	status, respBody, err := c.send(ctx, op, method, target, payload, tok.Value)
	if err != nil || status != http.StatusUnauthorized {
		return status, respBody, err
	}

	c.log.Warnf(ctx, "upstream rejected access token op=%s, refreshing", op)
	c.tokens.Invalidate(ctx, tok)

	tok, err = c.tokens.Token(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: access token: %w", op, err)
	}
	return c.send(ctx, op, method, target, payload, tok.Value)
}

// send — один HTTP-обмен. Возвращает код и тело ответа.
func (c *Client) send(ctx context.Context, op, method, target string, payload []byte, bearer string) (int, []byte, error) {
	var body io.Reader = http.NoBody
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.UpstreamDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(op, "error").Inc()
		return 0, nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	metrics.UpstreamRequests.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return 0, nil, fmt.Errorf("%s: read response: %w", op, err)
	}
	return resp.StatusCode, respBody, nil
}
