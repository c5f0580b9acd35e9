package usecase

import (
	"time"

	"github.com/Gunvolt24/notify_gateway/internal/domain"
)

// statusInput — всё, от чего зависит производный статус заказа.
type statusInput struct {
	processingStatus  string
	requestedSendTime time.Time
	notifications     []domain.Notification
	now               time.Time
	lookahead         time.Duration
}

// statusRule — одно правило вывода статуса: первое сработавшее побеждает.
type statusRule struct {
	name   string
	match  func(in *statusInput) bool
	status domain.OrderStatus
}

// statusRules — упорядоченный список правил. Последнее правило срабатывает всегда.
var statusRules = []statusRule{
	{
		name:   "cancelled",
		match:  func(in *statusInput) bool { return in.processingStatus == domain.ProcessingStatusCancelled },
		status: domain.OrderCancelled,
	},
	{
		name:   "scheduled",
		match:  func(in *statusInput) bool { return domain.IsScheduled(in.requestedSendTime, in.now, in.lookahead) },
		status: domain.OrderScheduled,
	},
	{
		name:   "no notifications yet",
		match:  func(in *statusInput) bool { return len(in.notifications) == 0 },
		status: domain.OrderProcessing,
	},
	{
		name:   "all failed",
		match:  func(in *statusInput) bool { return allNotifications(in.notifications, isFailure) },
		status: domain.OrderFailed,
	},
	{
		name:   "all terminal",
		match:  func(in *statusInput) bool { return allNotifications(in.notifications, isTerminal) },
		status: domain.OrderCompleted,
	},
	{
		name:   "in flight",
		match:  func(*statusInput) bool { return true },
		status: domain.OrderProcessing,
	},
}

// deriveOrderStatus — чистая функция от снимков upstream и текущего времени.
func deriveOrderStatus(in *statusInput) domain.OrderStatus {
	for _, rule := range statusRules {
		if rule.match(in) {
			return rule.status
		}
	}
	return domain.OrderProcessing
}

func isFailure(n *domain.Notification) bool {
	return n.Status == domain.NotificationFailed || n.Status == domain.NotificationNotIdentified
}

func isTerminal(n *domain.Notification) bool {
	return n.Status != domain.NotificationProcessing
}

func allNotifications(list []domain.Notification, pred func(*domain.Notification) bool) bool {
	for i := range list {
		if !pred(&list[i]) {
			return false
		}
	}
	return true
}

// mapSendStatus — нормализация сырого состояния доставки.
func mapSendStatus(raw string) domain.NotificationStatus {
	switch raw {
	case "New", "Sending", "Accepted", "Succeeded":
		return domain.NotificationProcessing
	case "Delivered":
		return domain.NotificationDelivered
	case "Failed_RecipientNotIdentified":
		return domain.NotificationNotIdentified
	default:
		return domain.NotificationFailed
	}
}

// normalizeNotifications — сплющивает ответы по каналам в один список (в порядке каналов)
// и считает сводку. Count сводки задаётся вызывающей стороной.
func normalizeNotifications(channels []domain.ChannelNotifications) ([]domain.Notification, domain.NotificationsSummary) {
	list := make([]domain.Notification, 0)
	var summary domain.NotificationsSummary

	for _, ch := range channels {
		for _, raw := range ch.Notifications {
			n := domain.Notification{
				Status:      mapSendStatus(raw.SendStatus.Status),
				Description: raw.SendStatus.Description,
				Recipient:   raw.Recipient,
				LastUpdate:  raw.SendStatus.LastUpdate,
			}
			switch n.Status {
			case domain.NotificationDelivered:
				summary.Delivered++
			case domain.NotificationFailed:
				summary.Failed++
			case domain.NotificationNotIdentified:
				summary.NotIdentified++
			}
			list = append(list, n)
		}
	}
	return list, summary
}
