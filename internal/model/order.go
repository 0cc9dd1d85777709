package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPlaced          OrderStatus = "placed"
	StatusPendingShipment OrderStatus = "pending_shipment"
	StatusShipped         OrderStatus = "shipped"
	StatusCompleted       OrderStatus = "completed"
	StatusCancelled       OrderStatus = "cancelled"
	StatusReturned        OrderStatus = "returned"
)

// transitions is the closed set of legal lifecycle edges.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPlaced:          {StatusPendingShipment, StatusCancelled},
	StatusPendingShipment: {StatusShipped, StatusCancelled},
	StatusShipped:         {StatusCompleted, StatusReturned},
	StatusCompleted:       {StatusReturned},
}

// ParseOrderStatus converts a string into an OrderStatus.
// Returns false if the string is not a known status.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case StatusPlaced, StatusPendingShipment, StatusShipped,
		StatusCompleted, StatusCancelled, StatusReturned:
		return OrderStatus(s), true
	}
	return "", false
}

// CanTransition reports whether the edge from -> to is in the transition table.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible from s.
func (s OrderStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Order represents a customer order.
type Order struct {
	ID              uuid.UUID   `json:"id" db:"id"`
	CustomerID      string      `json:"customerId" db:"customer_id"`
	Status          OrderStatus `json:"status" db:"status"`
	TotalAmount     int64       `json:"totalAmount" db:"total_amount"`
	RedeemedPoints  int64       `json:"redeemedPoints" db:"redeemed_points"`
	PromoCode       *string     `json:"promoCode,omitempty" db:"promo_code"`
	AutoShipEnabled bool        `json:"autoShipEnabled" db:"auto_ship_enabled"`
	CreatedAt       time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time   `json:"updatedAt" db:"updated_at"`
}

// OrderItem represents a line item in an order. UnitPrice is captured from the
// catalogue at checkout time so later price changes never alter order history.
type OrderItem struct {
	ID        uuid.UUID `json:"-" db:"id"`
	OrderID   uuid.UUID `json:"-" db:"order_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UnitPrice int64     `json:"unitPrice" db:"unit_price"`
}

// CheckoutRequest represents the request payload for creating an order.
type CheckoutRequest struct {
	CustomerID   string             `json:"customerId"`
	RedeemPoints int64              `json:"redeemPoints,omitempty"`
	PromoCode    *string            `json:"promoCode,omitempty"`
	Items        []OrderItemRequest `json:"items"`
}

// OrderItemRequest represents a single item in a checkout request.
type OrderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// OrderResponse represents the response payload for an order.
type OrderResponse struct {
	ID              uuid.UUID   `json:"id"`
	CustomerID      string      `json:"customerId"`
	Status          OrderStatus `json:"status"`
	TotalAmount     int64       `json:"totalAmount"`
	RedeemedPoints  int64       `json:"redeemedPoints"`
	AutoShipEnabled bool        `json:"autoShipEnabled"`
	Items           []OrderItem `json:"items"`
}

// TransitionRequest represents the request payload for an order transition.
type TransitionRequest struct {
	TargetStatus string `json:"targetStatus"`
}
