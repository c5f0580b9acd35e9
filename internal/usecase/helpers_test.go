package usecase_test

import (
	"context"
	"time"

	"github.com/Gunvolt24/notify_gateway/internal/domain"
	"github.com/Gunvolt24/notify_gateway/internal/ports/mocks"
	"github.com/Gunvolt24/notify_gateway/internal/usecase"
)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newService(client *mocks.MockNotificationClient, validator *mocks.MockOrderValidator) *usecase.OrderService {
	return usecase.NewOrderService(client, noopLogger{}, validator,
		usecase.NewRecipientMapper(map[string]string{"00000000000": "test@example.no"}),
		usecase.Settings{
			ScheduleLookahead: 5 * time.Minute,
			PageSize:          5,
			EmailFromAddress:  "noreply@example.no",
			SmsSenderNumber:   "Sender",
			Now:               func() time.Time { return now },
		})
}

func sent(id, status string) domain.UpstreamNotification {
	return domain.UpstreamNotification{
		ID:         id,
		Recipient:  domain.Recipient{NationalIdentityNumber: "12345678901"},
		SendStatus: domain.ProcessingStatus{Status: status, LastUpdate: now.Add(-time.Minute)},
	}
}

func channel(orderID string, list ...domain.UpstreamNotification) domain.ChannelNotifications {
	return domain.ChannelNotifications{OrderID: orderID, Generated: len(list), Notifications: list}
}

func processing(id string, sendTime time.Time, status string) domain.OrderProcessingStatus {
	return domain.OrderProcessingStatus{
		ID:                id,
		RequestedSendTime: sendTime,
		ProcessingStatus:  domain.ProcessingStatus{Status: status},
	}
}

func recipients(n int) []domain.Recipient {
	out := make([]domain.Recipient, n)
	for i := range out {
		out[i] = domain.Recipient{NationalIdentityNumber: "1234567890" + string(rune('0'+i%10))}
	}
	return out
}
