package ports

import (
	"context"

	"github.com/Gunvolt24/notify_gateway/internal/domain"
)

// NotificationClient — клиент upstream-платформы уведомлений.
// Неуспешные ответы возвращаются как *domain.UpstreamError с классом ошибки внутри.
type NotificationClient interface {
	CreateOrder(ctx context.Context, req domain.UpstreamOrderRequest) (domain.UpstreamOrderConfirmation, error)
	ListOrders(ctx context.Context, sendersReference string) (domain.OrderList, error)
	GetOrderInfo(ctx context.Context, orderID string) (domain.Order, error)
	GetOrderStatus(ctx context.Context, orderID string) (domain.OrderProcessingStatus, error)
	GetNotificationStatus(ctx context.Context, orderID, channelType string) (domain.ChannelNotifications, error)
	// CancelOrder — 409 от upstream возвращается как domain.ErrConflict.
	CancelOrder(ctx context.Context, orderID string) (domain.OrderProcessingStatus, error)
}
