package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification channels and events recorded for audit.
const (
	ChannelEmail = "email"

	EventOrderConfirmed = "order-confirmed"
	EventShipmentNotice = "shipment-notice"
	EventOrderCompleted = "order-completed"
	EventOrderCancelled = "order-cancelled"
	EventReturnAccepted = "return-accepted"
)

// NotificationLog is an immutable record of a customer-facing notification.
// It is written best-effort and never read back by business logic.
type NotificationLog struct {
	ID             uuid.UUID `json:"id" db:"id"`
	OrderID        uuid.UUID `json:"orderId" db:"order_id"`
	Channel        string    `json:"channel" db:"channel"`
	Event          string    `json:"event" db:"event"`
	PayloadSummary string    `json:"payloadSummary" db:"payload_summary"`
	SentAt         time.Time `json:"sentAt" db:"sent_at"`
}
