package validate

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Gunvolt24/notify_gateway/internal/domain"
	"github.com/Gunvolt24/notify_gateway/internal/ports"
)

// Проверка, что OrderValidator удовлетворяет интерфейсу OrderValidator.
var _ ports.OrderValidator = (*OrderValidator)(nil)

// ErrInvalidOrder — базовая (sentinel error) ошибка валидации.
var ErrInvalidOrder = errors.New("order validation failed")

// Значения по умолчанию.
const (
	DefaultSmsMaxLength  = 157 // длиннее — две SMS по двойной цене
	DefaultSendTimeSlack = time.Minute
)

var nationalIDPattern = regexp.MustCompile(`^\d{11}$`)

// OrderValidator — структура для валидации запроса на рассылку.
type OrderValidator struct {
	smsMaxLength  int
	sendTimeSlack time.Duration
	now           func() time.Time
}

// Option — настройка валидатора.
type Option func(*OrderValidator)

// WithSmsMaxLength — максимальная длина текста SMS в символах.
func WithSmsMaxLength(n int) Option {
	return func(v *OrderValidator) {
		if n > 0 {
			v.smsMaxLength = n
		}
	}
}

// WithSendTimeSlack — насколько время отправки может быть в прошлом.
func WithSendTimeSlack(d time.Duration) Option {
	return func(v *OrderValidator) {
		if d >= 0 {
			v.sendTimeSlack = d
		}
	}
}

// WithClock — подмена часов (для тестов).
func WithClock(now func() time.Time) Option {
	return func(v *OrderValidator) {
		if now != nil {
			v.now = now
		}
	}
}

// NewOrderValidator — конструктор OrderValidator.
// Validate возвращает ErrInvalidOrder (с обёрнутой причиной) при любой проблеме.
func NewOrderValidator(opts ...Option) *OrderValidator {
	v := &OrderValidator{
		smsMaxLength:  DefaultSmsMaxLength,
		sendTimeSlack: DefaultSendTimeSlack,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate — проверяет корректность запроса. Проверки идут в фиксированном порядке,
// возвращается первая найденная проблема.
func (v *OrderValidator) Validate(_ context.Context, req *domain.OrderRequest) error {
	if req == nil {
		return fmt.Errorf("%w: запрос не может быть nil", ErrInvalidOrder)
	}
	if err := v.validateRecipients(req.NationalIdentityNumbers); err != nil {
		return err
	}
	if err := v.validateSendTime(req.RequestedSendTime); err != nil {
		return err
	}
	if err := v.validateChannel(req); err != nil {
		return err
	}
	if err := v.validateTemplates(req); err != nil {
		return err
	}
	if strings.TrimSpace(req.SendersReference) == "" {
		return fmt.Errorf("%w: sendersReference обязателен", ErrInvalidOrder)
	}
	return nil
}

// Валидация номеров получателей
func (v *OrderValidator) validateRecipients(nins []string) error {
	if len(nins) == 0 {
		return fmt.Errorf("%w: список nationalIdentityNumbers пуст", ErrInvalidOrder)
	}
	for i, nin := range nins {
		if !nationalIDPattern.MatchString(nin) {
			return fmt.Errorf("%w: nationalIdentityNumbers[%d] должен состоять из 11 цифр", ErrInvalidOrder, i)
		}
	}
	return nil
}

// Время отправки: пустое — отправить сразу, иначе не раньше now - slack.
func (v *OrderValidator) validateSendTime(t *time.Time) error {
	if t == nil {
		return nil
	}
	if !t.After(v.now().Add(-v.sendTimeSlack)) {
		return fmt.Errorf("%w: requestedSendTime должен быть в будущем (оставьте пустым для немедленной отправки)", ErrInvalidOrder)
	}
	return nil
}

// Соответствие канала и шаблонов
func (v *OrderValidator) validateChannel(req *domain.OrderRequest) error {
	switch req.NotificationChannel {
	case domain.ChannelSms:
		if req.SmsTemplate == nil {
			return fmt.Errorf("%w: для канала Sms нужен smsTemplate", ErrInvalidOrder)
		}
	case domain.ChannelEmail:
		if req.EmailTemplate == nil {
			return fmt.Errorf("%w: для канала Email нужен emailTemplate", ErrInvalidOrder)
		}
	case domain.ChannelSmsPreferred, domain.ChannelEmailPreferred:
		if req.SmsTemplate == nil || req.EmailTemplate == nil {
			return fmt.Errorf("%w: для канала %s нужны smsTemplate и emailTemplate", ErrInvalidOrder, req.NotificationChannel)
		}
	default:
		return fmt.Errorf("%w: неизвестный notificationChannel %q", ErrInvalidOrder, req.NotificationChannel)
	}
	return nil
}

// Содержимое шаблонов
func (v *OrderValidator) validateTemplates(req *domain.OrderRequest) error {
	if t := req.SmsTemplate; t != nil {
		if strings.TrimSpace(t.Body) == "" {
			return fmt.Errorf("%w: smsTemplate.body обязателен", ErrInvalidOrder)
		}
		if n := utf8.RuneCountInString(t.Body); n > v.smsMaxLength {
			return fmt.Errorf("%w: smsTemplate.body длиннее %d символов (%d)", ErrInvalidOrder, v.smsMaxLength, n)
		}
	}
	if t := req.EmailTemplate; t != nil {
		if strings.TrimSpace(t.Subject) == "" {
			return fmt.Errorf("%w: emailTemplate.subject обязателен", ErrInvalidOrder)
		}
		if strings.TrimSpace(t.Body) == "" {
			return fmt.Errorf("%w: emailTemplate.body обязателен", ErrInvalidOrder)
		}
	}
	return nil
}
