package domain

import "time"

// OrderStatus — производный статус заказа. Никогда не хранится.
type OrderStatus string

const (
	OrderScheduled  OrderStatus = "Scheduled"
	OrderProcessing OrderStatus = "Processing"
	OrderCompleted  OrderStatus = "Completed"
	OrderFailed     OrderStatus = "Failed"
	OrderCancelled  OrderStatus = "Cancelled"
)

// NotificationStatus — нормализованный статус одного уведомления.
type NotificationStatus string

const (
	NotificationProcessing    NotificationStatus = "Processing"
	NotificationDelivered     NotificationStatus = "Delivered"
	NotificationFailed        NotificationStatus = "Failed"
	NotificationNotIdentified NotificationStatus = "NotIdentified"
)

// ProcessingStatusCancelled — значение processingStatus.status у отменённого заказа.
const ProcessingStatusCancelled = "Cancelled"

// Notification — уведомление с нормализованным статусом.
type Notification struct {
	Status      NotificationStatus `json:"status"`
	Description string             `json:"description,omitempty"`
	Recipient   Recipient          `json:"recipient"`
	LastUpdate  time.Time          `json:"lastUpdate"`
}

// NotificationsSummary — счётчики по списку уведомлений.
// Count — число получателей в заказе, остальные поля считаются по уведомлениям.
type NotificationsSummary struct {
	Count         int `json:"count"`
	Delivered     int `json:"delivered"`
	Failed        int `json:"failed"`
	NotIdentified int `json:"notIdentified"`
}

// Notifications — список уведомлений и сводка по нему.
type Notifications struct {
	NotificationsList []Notification       `json:"notificationsList"`
	Summary           NotificationsSummary `json:"summary"`
}

// OrderView — согласованное представление заказа.
type OrderView struct {
	ID                  string              `json:"id"`
	OrderStatus         OrderStatus         `json:"orderStatus"`
	Notifications       Notifications       `json:"notifications"`
	SendersReference    string              `json:"sendersReference,omitempty"`
	RequestedSendTime   time.Time           `json:"requestedSendTime"`
	Created             time.Time           `json:"created"`
	NotificationChannel NotificationChannel `json:"notificationChannel"`
	EmailTemplate       *EmailTemplate      `json:"emailTemplate,omitempty"`
	SmsTemplate         *SmsTemplate        `json:"smsTemplate,omitempty"`
}

// PageOrder — облегчённая запись заказа в странице.
type PageOrder struct {
	ID                   string               `json:"id"`
	OrderStatus          OrderStatus          `json:"orderStatus"`
	RequestedSendTime    time.Time            `json:"requestedSendTime"`
	NotificationsSummary NotificationsSummary `json:"notificationsSummary"`
}

// Page — страница заказов одного отправителя.
type Page struct {
	Orders         []PageOrder `json:"orders"`
	IsLastPage     bool        `json:"isLastPage"`
	NumberOfOrders int         `json:"numberOfOrders"`
	NextPageNumber int         `json:"nextPageNumber"`
}

// Фильтры страницы заказов.
const (
	FilterActive  = "active"
	FilterPlanned = "planned"
)
