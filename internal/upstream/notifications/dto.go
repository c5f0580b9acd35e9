package notifications

import (
	"encoding/json"

	"github.com/Gunvolt24/notify_gateway/internal/domain"
)

// sendersReferenceResponse — список заказов отправителя.
// orders разбирается отдельно: битый список не должен ронять весь ответ.
type sendersReferenceResponse struct {
	Count  int             `json:"count"`
	Orders json.RawMessage `json:"orders"`
}

// notificationStatusResponse — уведомления заказа по одному каналу.
type notificationStatusResponse struct {
	OrderID          string                        `json:"orderId"`
	SendersReference string                        `json:"sendersReference"`
	Generated        int                           `json:"generated"`
	Succeeded        int                           `json:"succeeded"`
	Notifications    []domain.UpstreamNotification `json:"notifications"`
}

func (r *notificationStatusResponse) toDomain() domain.ChannelNotifications {
	return domain.ChannelNotifications{
		OrderID:          r.OrderID,
		SendersReference: r.SendersReference,
		Generated:        r.Generated,
		Succeeded:        r.Succeeded,
		Notifications:    r.Notifications,
	}
}
