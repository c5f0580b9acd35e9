package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/notify_gateway/internal/domain"
	"github.com/Gunvolt24/notify_gateway/internal/ports/mocks"
)

const orderID = "order-1"

func TestGetOrderStatus_CompletedView(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockNotificationClient(ctrl)
	validator := mocks.NewMockOrderValidator(ctrl)

	// upstream отдаёт время со смещением; в представлении оно должно быть в UTC.
	past := now.Add(-time.Hour).In(time.FixedZone("CET", 3600))
	info := domain.Order{
		ID:                  orderID,
		SendersReference:    "ref-1",
		RequestedSendTime:   past,
		Created:             past.Add(-time.Minute),
		NotificationChannel: domain.ChannelSmsPreferred,
		Recipients:          recipients(3),
		SmsTemplate:         &domain.SmsTemplate{SenderNumber: "Sender", Body: "Hei"},
	}

	client.EXPECT().GetOrderInfo(gomock.Any(), orderID).Return(info, nil)
	client.EXPECT().GetOrderStatus(gomock.Any(), orderID).Return(processing(orderID, past, "Completed"), nil)
	client.EXPECT().GetNotificationStatus(gomock.Any(), orderID, domain.ChannelTypeSms).
		Return(channel(orderID, sent("n1", "Delivered"), sent("n2", "Failed")), nil)
	client.EXPECT().GetNotificationStatus(gomock.Any(), orderID, domain.ChannelTypeEmail).
		Return(channel(orderID, sent("n3", "Failed_RecipientNotIdentified")), nil)

	svc := newService(client, validator)

	got, err := svc.GetOrderStatus(context.Background(), orderID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.OrderStatus != domain.OrderCompleted {
		t.Fatalf("status: want Completed, got %s", got.OrderStatus)
	}
	sum := got.Notifications.Summary
	if sum.Count != 3 || sum.Delivered != 1 || sum.Failed != 1 || sum.NotIdentified != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	list := got.Notifications.NotificationsList
	if len(list) != 3 || list[0].Status != domain.NotificationDelivered || list[2].Status != domain.NotificationNotIdentified {
		t.Fatalf("unexpected notifications: %+v", list)
	}
	if got.ID != orderID || got.SendersReference != "ref-1" || got.SmsTemplate == nil || got.EmailTemplate != nil {
		t.Fatalf("order metadata not copied: %+v", got)
	}
	if got.RequestedSendTime.Location() != time.UTC || !got.RequestedSendTime.Equal(past) {
		t.Fatalf("requestedSendTime: want %v in UTC, got %v", past.UTC(), got.RequestedSendTime)
	}
	if got.Created.Location() != time.UTC || !got.Created.Equal(info.Created) {
		t.Fatalf("created: want %v in UTC, got %v", info.Created.UTC(), got.Created)
	}
}

// Повторное согласование тех же снимков upstream даёт то же представление.
func TestGetOrderStatus_Deterministic(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockNotificationClient(ctrl)

	past := now.Add(-30 * time.Minute)
	info := domain.Order{
		ID:                  orderID,
		SendersReference:    "ref-1",
		RequestedSendTime:   past,
		Created:             past.Add(-time.Minute),
		NotificationChannel: domain.ChannelEmailPreferred,
		Recipients:          recipients(2),
	}

	client.EXPECT().GetOrderInfo(gomock.Any(), orderID).Return(info, nil).Times(2)
	client.EXPECT().GetOrderStatus(gomock.Any(), orderID).Return(processing(orderID, past, "Processing"), nil).Times(2)
	client.EXPECT().GetNotificationStatus(gomock.Any(), orderID, domain.ChannelTypeSms).
		Return(channel(orderID, sent("n1", "Sending"), sent("n2", "Delivered")), nil).Times(2)
	client.EXPECT().GetNotificationStatus(gomock.Any(), orderID, domain.ChannelTypeEmail).
		Return(channel(orderID, sent("n3", "Failed")), nil).Times(2)

	svc := newService(client, nil)

	first, err := svc.GetOrderStatus(context.Background(), orderID)
	require.NoError(t, err)
	second, err := svc.GetOrderStatus(context.Background(), orderID)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, domain.OrderProcessing, first.OrderStatus)
}

func TestGetOrderStatus_ChannelFanOut(t *testing.T) {
	cases := []struct {
		channel domain.NotificationChannel
		types   []string
	}{
		{domain.ChannelEmail, []string{domain.ChannelTypeEmail}},
		{domain.ChannelSms, []string{domain.ChannelTypeSms}},
		{domain.ChannelEmailPreferred, []string{domain.ChannelTypeSms, domain.ChannelTypeEmail}},
		{domain.ChannelSmsPreferred, []string{domain.ChannelTypeSms, domain.ChannelTypeEmail}},
	}

	for _, tc := range cases {
		t.Run(string(tc.channel), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mocks.NewMockNotificationClient(ctrl)

			past := now.Add(-time.Hour)
			client.EXPECT().GetOrderInfo(gomock.Any(), orderID).
				Return(domain.Order{ID: orderID, NotificationChannel: tc.channel, RequestedSendTime: past}, nil)
			client.EXPECT().GetOrderStatus(gomock.Any(), orderID).Return(processing(orderID, past, "Processing"), nil)
			for _, ct := range tc.types {
				client.EXPECT().GetNotificationStatus(gomock.Any(), orderID, ct).Return(channel(orderID), nil).Times(1)
			}

			got, err := newService(client, nil).GetOrderStatus(context.Background(), orderID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			// Уведомлений ещё нет: заказ в обработке.
			if got.OrderStatus != domain.OrderProcessing {
				t.Fatalf("status: want Processing, got %s", got.OrderStatus)
			}
		})
	}
}

func TestGetOrderStatus_ScheduledAndCancelled(t *testing.T) {
	future := now.Add(time.Hour)

	cases := []struct {
		name      string
		processed string
		want      domain.OrderStatus
	}{
		{name: "future send time", processed: "Registered", want: domain.OrderScheduled},
		{name: "cancelled future order", processed: domain.ProcessingStatusCancelled, want: domain.OrderCancelled},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mocks.NewMockNotificationClient(ctrl)

			client.EXPECT().GetOrderInfo(gomock.Any(), orderID).
				Return(domain.Order{ID: orderID, NotificationChannel: domain.ChannelEmail, RequestedSendTime: future}, nil)
			client.EXPECT().GetOrderStatus(gomock.Any(), orderID).Return(processing(orderID, future, tc.processed), nil)
			client.EXPECT().GetNotificationStatus(gomock.Any(), orderID, domain.ChannelTypeEmail).Return(channel(orderID), nil)

			got, err := newService(client, nil).GetOrderStatus(context.Background(), orderID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.OrderStatus != tc.want {
				t.Fatalf("status: want %s, got %s", tc.want, got.OrderStatus)
			}
		})
	}
}

func TestGetOrderStatus_SnapshotErrorStopsReconciliation(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockNotificationClient(ctrl)

	notFound := &domain.UpstreamError{Op: "get_order_status", Status: 404, Kind: domain.ErrNotFound}
	client.EXPECT().GetOrderInfo(gomock.Any(), orderID).
		DoAndReturn(func(ctx context.Context, _ string) (domain.Order, error) {
			// Сосед упал: контекст группы отменяется.
			<-ctx.Done()
			return domain.Order{}, ctx.Err()
		})
	client.EXPECT().GetOrderStatus(gomock.Any(), orderID).Return(domain.OrderProcessingStatus{}, notFound)
	// GetNotificationStatus не ожидается.

	_, err := newService(client, nil).GetOrderStatus(context.Background(), orderID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestGetOrderStatus_ChannelErrorFailsWhole(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockNotificationClient(ctrl)

	past := now.Add(-time.Hour)
	upstream := &domain.UpstreamError{Op: "get_notification_status", Status: 503, Kind: domain.ErrUpstream}

	client.EXPECT().GetOrderInfo(gomock.Any(), orderID).
		Return(domain.Order{ID: orderID, NotificationChannel: domain.ChannelSmsPreferred, RequestedSendTime: past}, nil)
	client.EXPECT().GetOrderStatus(gomock.Any(), orderID).Return(processing(orderID, past, "Processing"), nil)
	client.EXPECT().GetNotificationStatus(gomock.Any(), orderID, domain.ChannelTypeSms).Return(channel(orderID, sent("n1", "Delivered")), nil).AnyTimes()
	client.EXPECT().GetNotificationStatus(gomock.Any(), orderID, domain.ChannelTypeEmail).Return(domain.ChannelNotifications{}, upstream)

	got, err := newService(client, nil).GetOrderStatus(context.Background(), orderID)
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("want ErrUpstream, got %v", err)
	}
	if got != nil {
		t.Fatalf("partial view must not be returned: %+v", got)
	}
}

func TestCancelOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockNotificationClient(ctrl)

	conflict := &domain.UpstreamError{Op: "cancel_order", Status: 409, Kind: domain.ErrConflict}
	client.EXPECT().CancelOrder(gomock.Any(), "late").Return(domain.OrderProcessingStatus{}, conflict)
	client.EXPECT().CancelOrder(gomock.Any(), "early").Return(processing("early", now.Add(time.Hour), domain.ProcessingStatusCancelled), nil)

	svc := newService(client, nil)

	if _, err := svc.CancelOrder(context.Background(), "late"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
	got, err := svc.CancelOrder(context.Background(), "early")
	if err != nil || got.ProcessingStatus.Status != domain.ProcessingStatusCancelled {
		t.Fatalf("unexpected cancel result: %+v err=%v", got, err)
	}
}
