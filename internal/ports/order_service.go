package ports

import (
	"context"

	"github.com/Gunvolt24/notify_gateway/internal/domain"
)

// OrderService — операции над заказами, доступные транспорту.
type OrderService interface {
	SubmitOrder(ctx context.Context, req *domain.OrderRequest) (*domain.OrderConfirmation, error)
	GetOrderStatus(ctx context.Context, orderID string) (*domain.OrderView, error)
	CancelOrder(ctx context.Context, orderID string) (*domain.OrderProcessingStatus, error)
	PaginateOrders(ctx context.Context, sendersReference, filter string, index int) (*domain.Page, error)
	OrderIDs(ctx context.Context, sendersReference string) ([]string, error)
}
