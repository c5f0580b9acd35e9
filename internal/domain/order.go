package domain

import "time"

// NotificationChannel — выбор канала доставки для заказа.
type NotificationChannel string

const (
	ChannelEmail          NotificationChannel = "Email"
	ChannelSms            NotificationChannel = "Sms"
	ChannelEmailPreferred NotificationChannel = "EmailPreferred"
	ChannelSmsPreferred   NotificationChannel = "SmsPreferred"
)

// Физические каналы, по которым upstream отдаёт статусы уведомлений.
const (
	ChannelTypeSms   = "sms"
	ChannelTypeEmail = "email"
)

// Valid — известен ли канал.
func (c NotificationChannel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelSms, ChannelEmailPreferred, ChannelSmsPreferred:
		return true
	}
	return false
}

// ChannelTypes — набор физических каналов, которые подразумевает выбор канала.
// Email → [email], Sms → [sms], предпочтительные варианты → [sms, email].
func (c NotificationChannel) ChannelTypes() []string {
	switch c {
	case ChannelEmail:
		return []string{ChannelTypeEmail}
	case ChannelSms:
		return []string{ChannelTypeSms}
	default:
		return []string{ChannelTypeSms, ChannelTypeEmail}
	}
}

// Recipient — получатель в формате upstream.
type Recipient struct {
	EmailAddress           string `json:"emailAddress,omitempty"`
	MobileNumber           string `json:"mobileNumber,omitempty"`
	OrganizationNumber     string `json:"organizationNumber,omitempty"`
	NationalIdentityNumber string `json:"nationalIdentityNumber,omitempty"`
	IsReserved             bool   `json:"isReserved,omitempty"`
}

// Identifier — первый непустой идентификатор получателя.
func (r Recipient) Identifier() string {
	switch {
	case r.NationalIdentityNumber != "":
		return r.NationalIdentityNumber
	case r.EmailAddress != "":
		return r.EmailAddress
	case r.MobileNumber != "":
		return r.MobileNumber
	default:
		return r.OrganizationNumber
	}
}

// EmailTemplate — шаблон письма в формате upstream.
type EmailTemplate struct {
	FromAddress string `json:"fromAddress,omitempty"`
	Subject     string `json:"subject,omitempty"`
	Body        string `json:"body,omitempty"`
	ContentType string `json:"contentType"`
}

// SmsTemplate — шаблон SMS в формате upstream.
type SmsTemplate struct {
	SenderNumber string `json:"senderNumber,omitempty"`
	Body         string `json:"body,omitempty"`
}

// Order — метаданные заказа, как их хранит upstream.
// Локально заказ не изменяется: каждое чтение заново строится из upstream.
type Order struct {
	ID                  string              `json:"id"`
	SendersReference    string              `json:"sendersReference,omitempty"`
	RequestedSendTime   time.Time           `json:"requestedSendTime"`
	Creator             string              `json:"creator,omitempty"`
	Created             time.Time           `json:"created"`
	NotificationChannel NotificationChannel `json:"notificationChannel"`
	Recipients          []Recipient         `json:"recipients,omitempty"`
	EmailTemplate       *EmailTemplate      `json:"emailTemplate,omitempty"`
	SmsTemplate         *SmsTemplate        `json:"smsTemplate,omitempty"`
}

// OrderList — все заказы отправителя.
// Orders == nil, если upstream не вернул список (или его не удалось разобрать).
type OrderList struct {
	Count  int
	Orders []Order
}

// ProcessingStatus — сырое состояние обработки из upstream.
type ProcessingStatus struct {
	Status      string    `json:"status,omitempty"`
	Description string    `json:"description,omitempty"`
	LastUpdate  time.Time `json:"lastUpdate"`
}

// OrderProcessingStatus — статус обработки заказа на стороне upstream.
type OrderProcessingStatus struct {
	ID                  string              `json:"id"`
	SendersReference    string              `json:"sendersReference,omitempty"`
	RequestedSendTime   time.Time           `json:"requestedSendTime"`
	Creator             string              `json:"creator,omitempty"`
	Created             time.Time           `json:"created"`
	NotificationChannel NotificationChannel `json:"notificationChannel"`
	ProcessingStatus    ProcessingStatus    `json:"processingStatus"`
}

// UpstreamNotification — одно уведомление (заказ × получатель × канал) в сыром виде.
type UpstreamNotification struct {
	ID         string           `json:"id"`
	Succeeded  bool             `json:"succeeded"`
	Recipient  Recipient        `json:"recipient"`
	SendStatus ProcessingStatus `json:"sendStatus"`
}

// ChannelNotifications — статусы уведомлений заказа по одному физическому каналу.
type ChannelNotifications struct {
	OrderID          string
	SendersReference string
	Generated        int
	Succeeded        int
	Notifications    []UpstreamNotification
}
