package usecase

import (
	"context"
	"slices"
	"time"

	"github.com/Gunvolt24/notify_gateway/internal/domain"
	"github.com/Gunvolt24/notify_gateway/internal/ports"
	"github.com/Gunvolt24/notify_gateway/pkg/validate"
)

// Проверка, что OrderService удовлетворяет порту транспорта.
var _ ports.OrderService = (*OrderService)(nil)

// DefaultPageSize — размер страницы списка заказов.
const DefaultPageSize = 5

// Settings — параметры прикладного слоя.
type Settings struct {
	ScheduleLookahead time.Duration    // горизонт «запланированного» заказа
	PageSize          int              // размер страницы
	EmailFromAddress  string           // адрес отправителя писем
	SmsSenderNumber   string           // имя отправителя SMS
	Now               func() time.Time // часы; nil → time.Now
}

// OrderService — прикладная логика работы с заказами (без знаний о транспорте).
// Состояние заказов не хранится: каждое чтение заново собирается из upstream.
type OrderService struct {
	client     ports.NotificationClient // upstream-платформа уведомлений
	log        ports.Logger             // логгер
	validator  ports.OrderValidator     // валидатор входящих запросов
	recipients *RecipientMapper         // преобразование номеров в получателей

	now       func() time.Time
	lookahead time.Duration
	pageSize  int
	emailFrom string
	smsSender string
}

// NewOrderService — DI-конструктор.
func NewOrderService(
	client ports.NotificationClient,
	log ports.Logger,
	validator ports.OrderValidator,
	recipients *RecipientMapper,
	settings Settings,
) *OrderService {
	if settings.Now == nil {
		settings.Now = time.Now
	}
	if settings.ScheduleLookahead <= 0 {
		settings.ScheduleLookahead = domain.DefaultScheduleLookahead
	}
	if settings.PageSize <= 0 {
		settings.PageSize = DefaultPageSize
	}
	if recipients == nil {
		recipients = NewRecipientMapper(nil)
	}
	return &OrderService{
		client:     client,
		log:        log,
		validator:  validator,
		recipients: recipients,
		now:        settings.Now,
		lookahead:  settings.ScheduleLookahead,
		pageSize:   settings.PageSize,
		emailFrom:  settings.EmailFromAddress,
		smsSender:  settings.SmsSenderNumber,
	}
}

// CancelOrder — отмена заказа. Если upstream уже не может отменить, вернётся domain.ErrConflict.
func (s *OrderService) CancelOrder(ctx context.Context, orderID string) (*domain.OrderProcessingStatus, error) {
	st, err := s.client.CancelOrder(ctx, orderID)
	if err != nil {
		s.log.Warnf(ctx, "cancel order failed id=%s err=%v", orderID, err)
		return nil, err
	}
	s.log.Infof(ctx, "order cancelled id=%s status=%s", orderID, st.ProcessingStatus.Status)
	return &st, nil
}

// OrderIDs — идентификаторы всех заказов отправителя, новые первыми.
func (s *OrderService) OrderIDs(ctx context.Context, sendersReference string) ([]string, error) {
	list, err := s.client.ListOrders(ctx, sendersReference)
	if err != nil {
		s.log.Warnf(ctx, "list orders failed ref=%s err=%v", sendersReference, err)
		return nil, err
	}

	orders := slices.Clone(list.Orders)
	slices.SortStableFunc(orders, newestFirst)

	ids := make([]string, 0, len(orders))
	for i := range orders {
		ids = append(ids, orders[i].ID)
	}
	return ids, nil
}

// SubmitFromMessage — отправить заказ, пришедший из Kafka (raw JSON).
// Шаги:
//  1. строгий парсинг JSON (DisallowUnknownFields);
//  2. валидация и отправка через SubmitOrder.
//
// Битый JSON возвращается как validate.ErrInvalidOrder: повторять такое сообщение бессмысленно.
func (s *OrderService) SubmitFromMessage(ctx context.Context, raw []byte) (*domain.OrderConfirmation, error) {
	req, err := validate.DecodeOrderRequest(raw)
	if err != nil {
		s.log.Warnf(ctx, "invalid order message err=%v", err)
		return nil, err
	}

	conf, err := s.SubmitOrder(ctx, req)
	if err != nil {
		return nil, err
	}
	s.log.Infof(ctx, "order from message submitted id=%s ref=%s", conf.ID, req.SendersReference)
	return conf, nil
}

// newestFirst — сравнение по убыванию времени отправки.
func newestFirst(a, b domain.Order) int {
	return b.RequestedSendTime.Compare(a.RequestedSendTime)
}

// oldestFirst — сравнение по возрастанию времени отправки.
func oldestFirst(a, b domain.Order) int {
	return a.RequestedSendTime.Compare(b.RequestedSendTime)
}
