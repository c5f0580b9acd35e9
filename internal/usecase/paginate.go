package usecase

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/Gunvolt24/notify_gateway/internal/domain"
	"github.com/Gunvolt24/notify_gateway/pkg/metrics"
)

// PaginateOrders — страница заказов отправителя.
//
// filter: "active" — отправка не позже now+lookahead, новые первыми;
// "planned" — отправка позже now+lookahead, ближайшие первыми;
// пусто или неизвестное значение — все заказы, новые первыми.
// index — позиция начала страницы в отфильтрованном списке.
func (s *OrderService) PaginateOrders(
	ctx context.Context,
	sendersReference, filter string,
	index int,
) (*domain.Page, error) {
	list, err := s.client.ListOrders(ctx, sendersReference)
	if err != nil {
		s.log.Warnf(ctx, "list orders failed ref=%s err=%v", sendersReference, err)
		return nil, err
	}

	if list.Orders == nil {
		return &domain.Page{Orders: []domain.PageOrder{}, IsLastPage: true}, nil
	}

	sorted := s.sortOrders(list.Orders, filter)
	size := len(sorted)
	if index < 0 {
		index = 0
	}

	start := min(index, size)
	end := min(index+s.pageSize, size)
	slice := sorted[start:end]

	entries := make([]domain.PageOrder, len(slice))
	g, gctx := errgroup.WithContext(ctx)
	for i := range slice {
		g.Go(func() (err error) {
			entries[i], err = s.pageEntry(gctx, &slice[i])
			return err
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Warnf(ctx, "page build failed ref=%s index=%d err=%v", sendersReference, index, err)
		return nil, err
	}

	return &domain.Page{
		Orders:         entries,
		IsLastPage:     size-1 < index+s.pageSize,
		NumberOfOrders: size,
		NextPageNumber: end,
	}, nil
}

// sortOrders — фильтрация и стабильная сортировка по времени отправки.
func (s *OrderService) sortOrders(orders []domain.Order, filter string) []domain.Order {
	now := s.now()
	scheduled := func(o *domain.Order) bool {
		return domain.IsScheduled(o.RequestedSendTime, now, s.lookahead)
	}

	var out []domain.Order
	switch filter {
	case domain.FilterActive:
		out = filterOrders(orders, func(o *domain.Order) bool { return !scheduled(o) })
		slices.SortStableFunc(out, newestFirst)
	case domain.FilterPlanned:
		out = filterOrders(orders, scheduled)
		slices.SortStableFunc(out, oldestFirst)
	default:
		out = slices.Clone(orders)
		slices.SortStableFunc(out, newestFirst)
	}
	return out
}

// pageEntry — облегчённое согласование одного заказа из списка:
// статус обработки и уведомления по каналам запрашиваются параллельно.
func (s *OrderService) pageEntry(ctx context.Context, order *domain.Order) (domain.PageOrder, error) {
	var (
		status   domain.OrderProcessingStatus
		channels []domain.ChannelNotifications
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		status, err = s.client.GetOrderStatus(gctx, order.ID)
		return err
	})
	g.Go(func() (err error) {
		channels, err = s.fetchChannelNotifications(gctx, order.ID, order.NotificationChannel)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.PageOrder{}, err
	}

	notifications, summary := normalizeNotifications(channels)
	summary.Count = len(order.Recipients)

	orderStatus := deriveOrderStatus(&statusInput{
		processingStatus:  status.ProcessingStatus.Status,
		requestedSendTime: status.RequestedSendTime,
		notifications:     notifications,
		now:               s.now(),
		lookahead:         s.lookahead,
	})
	metrics.OrderStatusDerived.WithLabelValues(string(orderStatus)).Inc()

	return domain.PageOrder{
		ID:                   order.ID,
		OrderStatus:          orderStatus,
		RequestedSendTime:    order.RequestedSendTime.UTC(),
		NotificationsSummary: summary,
	}, nil
}

func filterOrders(orders []domain.Order, keep func(*domain.Order) bool) []domain.Order {
	out := make([]domain.Order, 0, len(orders))
	for i := range orders {
		if keep(&orders[i]) {
			out = append(out, orders[i])
		}
	}
	return out
}
