package model

import (
	"time"

	"github.com/google/uuid"
)

// ShipmentBatch groups orders awaiting dispatch. A batch is created implicitly
// when the first order enters pending_shipment and is drained, never deleted.
type ShipmentBatch struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Open            bool      `json:"open" db:"open"`
	AutoShipEnabled bool      `json:"autoShipEnabled" db:"auto_ship_enabled"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	LastToggledAt   time.Time `json:"lastToggledAt" db:"last_toggled_at"`
}

// AutoShipRequest is the payload for the bulk per-order auto-ship toggle.
type AutoShipRequest struct {
	OrderIDs []uuid.UUID `json:"orderIds"`
	Enabled  bool        `json:"enabled"`
}

// BatchAutoShipRequest is the payload for the batch-level auto-ship toggle.
type BatchAutoShipRequest struct {
	Enabled bool `json:"enabled"`
}

// AutoShipResult reports the outcome of the toggle for a single order ID.
type AutoShipResult struct {
	OrderID uuid.UUID `json:"orderId"`
	Updated bool      `json:"updated"`
	Error   string    `json:"error,omitempty"`
}
