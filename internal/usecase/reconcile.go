package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Gunvolt24/notify_gateway/internal/domain"
	"github.com/Gunvolt24/notify_gateway/pkg/metrics"
)

// GetOrderStatus — собрать единое представление заказа из трёх ресурсов upstream.
// Любая ошибка любого запроса отменяет остальные и возвращается как есть: частичных ответов нет.
func (s *OrderService) GetOrderStatus(ctx context.Context, orderID string) (*domain.OrderView, error) {
	var (
		info   domain.Order
		status domain.OrderProcessingStatus
	)

	// Метаданные и статус обработки запрашиваются параллельно.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		info, err = s.client.GetOrderInfo(gctx, orderID)
		return err
	})
	g.Go(func() (err error) {
		status, err = s.client.GetOrderStatus(gctx, orderID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Warnf(ctx, "order snapshot fetch failed id=%s err=%v", orderID, err)
		return nil, err
	}

	channels, err := s.fetchChannelNotifications(ctx, orderID, info.NotificationChannel)
	if err != nil {
		s.log.Warnf(ctx, "notification status fetch failed id=%s err=%v", orderID, err)
		return nil, err
	}

	notifications, summary := normalizeNotifications(channels)
	summary.Count = len(info.Recipients)

	orderStatus := deriveOrderStatus(&statusInput{
		processingStatus:  status.ProcessingStatus.Status,
		requestedSendTime: status.RequestedSendTime,
		notifications:     notifications,
		now:               s.now(),
		lookahead:         s.lookahead,
	})
	metrics.OrderStatusDerived.WithLabelValues(string(orderStatus)).Inc()

	return &domain.OrderView{
		ID:          info.ID,
		OrderStatus: orderStatus,
		Notifications: domain.Notifications{
			NotificationsList: notifications,
			Summary:           summary,
		},
		SendersReference:    info.SendersReference,
		RequestedSendTime:   info.RequestedSendTime.UTC(),
		Created:             info.Created.UTC(),
		NotificationChannel: info.NotificationChannel,
		EmailTemplate:       info.EmailTemplate,
		SmsTemplate:         info.SmsTemplate,
	}, nil
}

// fetchChannelNotifications — параллельный запрос статусов уведомлений по всем каналам заказа.
// Порядок результата совпадает с порядком каналов.
func (s *OrderService) fetchChannelNotifications(
	ctx context.Context,
	orderID string,
	channel domain.NotificationChannel,
) ([]domain.ChannelNotifications, error) {
	types := channel.ChannelTypes()
	out := make([]domain.ChannelNotifications, len(types))

	g, gctx := errgroup.WithContext(ctx)
	for i, channelType := range types {
		g.Go(func() (err error) {
			out[i], err = s.client.GetNotificationStatus(gctx, orderID, channelType)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
