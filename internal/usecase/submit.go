package usecase

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Gunvolt24/notify_gateway/internal/domain"
	"github.com/Gunvolt24/notify_gateway/pkg/metrics"
	"github.com/Gunvolt24/notify_gateway/pkg/validate"
)

// emailContentType — формат тела письма, который ожидает upstream.
const emailContentType = "html"

// SubmitOrder — проверить запрос, отправить заказ в upstream и собрать подтверждение.
// Повторяющиеся номера удаляются до валидации; исходный запрос не изменяется.
func (s *OrderService) SubmitOrder(ctx context.Context, req *domain.OrderRequest) (*domain.OrderConfirmation, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: пустой запрос", validate.ErrInvalidOrder)
	}

	unique := *req
	unique.NationalIdentityNumbers = uniqueStrings(req.NationalIdentityNumbers)

	if err := s.validator.Validate(ctx, &unique); err != nil {
		s.log.Warnf(ctx, "validation failed ref=%s err=%v", unique.SendersReference, err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	sendTime := s.now().UTC()
	if unique.RequestedSendTime != nil {
		sendTime = unique.RequestedSendTime.UTC()
	}

	recipients := s.recipients.Recipients(unique.NationalIdentityNumbers)
	upstreamReq := domain.UpstreamOrderRequest{
		RequestedSendTime:   sendTime,
		SendersReference:    unique.SendersReference,
		Recipients:          recipients,
		NotificationChannel: unique.NotificationChannel,
	}
	if t := unique.EmailTemplate; t != nil {
		upstreamReq.EmailTemplate = &domain.EmailTemplate{
			FromAddress: s.emailFrom,
			Subject:     t.Subject,
			Body:        t.Body,
			ContentType: emailContentType,
		}
	}
	if t := unique.SmsTemplate; t != nil {
		upstreamReq.SmsTemplate = &domain.SmsTemplate{
			SenderNumber: s.smsSender,
			Body:         t.Body,
		}
	}

	s.log.Infof(ctx, "submitting order ref=%s channel=%s recipients=%d",
		unique.SendersReference, unique.NotificationChannel, len(recipients))

	created, err := s.client.CreateOrder(ctx, upstreamReq)
	if err != nil {
		s.log.Warnf(ctx, "create order failed ref=%s err=%v", unique.SendersReference, err)
		return nil, err
	}
	metrics.OrdersRequested.Inc()

	conf := s.confirmation(&created, recipients, sendTime)
	s.log.Infof(ctx, "order submitted id=%s status=%s", conf.ID, conf.OrderStatus)
	return conf, nil
}

// confirmation — подтверждение для вызывающей стороны.
// Валидные получатели вычисляются, только если upstream прислал оба списка.
func (s *OrderService) confirmation(
	created *domain.UpstreamOrderConfirmation,
	recipients []domain.Recipient,
	sendTime time.Time,
) *domain.OrderConfirmation {
	status := domain.OrderProcessing
	if domain.IsScheduled(sendTime, s.now(), s.lookahead) {
		status = domain.OrderScheduled
	}

	conf := &domain.OrderConfirmation{
		ID:                created.OrderID,
		OrderStatus:       status,
		RequestedSendTime: sendTime,
		StatusLink:        "orders/" + created.OrderID,
	}

	if lookup := created.RecipientLookup; lookup != nil {
		valid := []string{}
		if lookup.IsReserved != nil && lookup.MissingContact != nil {
			for _, r := range recipients {
				nin := r.NationalIdentityNumber
				if slices.Contains(lookup.IsReserved, nin) || slices.Contains(lookup.MissingContact, nin) {
					continue
				}
				valid = append(valid, r.Identifier())
			}
		}
		conf.RecipientLookup = &domain.RecipientLookup{
			RecipientLookupStatus:    lookup.Status,
			ValidRecipients:          valid,
			ReservedRecipients:       lookup.IsReserved,
			MissingContactRecipients: lookup.MissingContact,
		}
	}
	return conf
}
