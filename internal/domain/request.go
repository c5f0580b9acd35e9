package domain

import "time"

// SmsContent — текст SMS из входящего запроса.
type SmsContent struct {
	Body string `json:"body"`
}

// EmailContent — тема и текст письма из входящего запроса.
type EmailContent struct {
	Body    string `json:"body"`
	Subject string `json:"subject"`
}

// OrderRequest — входящий запрос на рассылку уведомлений.
type OrderRequest struct {
	NationalIdentityNumbers []string            `json:"nationalIdentityNumbers"`
	NotificationChannel     NotificationChannel `json:"notificationChannel"`
	SmsTemplate             *SmsContent         `json:"smsTemplate,omitempty"`
	EmailTemplate           *EmailContent       `json:"emailTemplate,omitempty"`
	RequestedSendTime       *time.Time          `json:"requestedSendTime,omitempty"`
	SendersReference        string              `json:"sendersReference"`
}

// UpstreamOrderRequest — заказ в формате upstream.
type UpstreamOrderRequest struct {
	RequestedSendTime   time.Time           `json:"requestedSendTime"`
	SendersReference    string              `json:"sendersReference"`
	Recipients          []Recipient         `json:"recipients"`
	NotificationChannel NotificationChannel `json:"notificationChannel"`
	EmailTemplate       *EmailTemplate      `json:"emailTemplate,omitempty"`
	SmsTemplate         *SmsTemplate        `json:"smsTemplate,omitempty"`
}

// RecipientLookupStatus — итог первичного поиска контактов получателей.
type RecipientLookupStatus string

const (
	LookupSuccess        RecipientLookupStatus = "Success"
	LookupPartialSuccess RecipientLookupStatus = "PartialSuccess"
	LookupFailed         RecipientLookupStatus = "Failed"
)

// UpstreamRecipientLookup — результат поиска контактов от upstream.
// nil-списки означают, что upstream их не прислал.
type UpstreamRecipientLookup struct {
	Status         RecipientLookupStatus `json:"status"`
	IsReserved     []string              `json:"isReserved,omitempty"`
	MissingContact []string              `json:"missingContact,omitempty"`
}

// UpstreamOrderConfirmation — немедленное подтверждение создания заказа.
type UpstreamOrderConfirmation struct {
	OrderID         string                   `json:"orderId"`
	RecipientLookup *UpstreamRecipientLookup `json:"recipientLookup,omitempty"`
}

// RecipientLookup — разбиение получателей для ответа клиенту.
type RecipientLookup struct {
	RecipientLookupStatus    RecipientLookupStatus `json:"recipientLookupStatus"`
	ValidRecipients          []string              `json:"validRecipients"`
	ReservedRecipients       []string              `json:"reservedRecipients,omitempty"`
	MissingContactRecipients []string              `json:"missingContactRecipients,omitempty"`
}

// OrderConfirmation — подтверждение заказа для вызывающей стороны.
type OrderConfirmation struct {
	ID                string           `json:"id"`
	OrderStatus       OrderStatus      `json:"orderStatus"`
	RecipientLookup   *RecipientLookup `json:"recipientLookup,omitempty"`
	RequestedSendTime time.Time        `json:"requestedSendTime"`
	StatusLink        string           `json:"statusLink"`
}
