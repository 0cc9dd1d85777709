package service

import (
	"context"

	"shopmile/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductService defines operations for product catalogue management.
type ProductService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)
}

// OrderService owns the order lifecycle: checkout creates an order in
// placed, and Transition moves it along the legal edges, applying ledger
// postings and batch membership changes atomically with the status update.
type OrderService interface {
	// Checkout creates a new order with optional mileage redemption and
	// promo bonus.
	Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.OrderResponse, error)

	// GetByID retrieves an order by its ID with all items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error)

	// Transition applies a validated lifecycle transition to the order.
	// Illegal or stale transitions fail with ErrInvalidTransition and leave
	// all state unchanged.
	Transition(ctx context.Context, id uuid.UUID, target model.OrderStatus) (*model.OrderResponse, error)
}

// MileageService defines operations on the append-only mileage ledger.
type MileageService interface {
	// Post appends a ledger entry in its own transaction. Re-posting an
	// existing idempotency key returns the prior entry unchanged.
	Post(ctx context.Context, accountID string, delta int64, reason model.LedgerReason, referenceOrderID *uuid.UUID, idempotencyKey string) (*model.LedgerEntry, error)

	// PostTx appends a ledger entry within the caller's transaction, so a
	// posting commits or rolls back together with an order transition.
	PostTx(ctx context.Context, tx pgx.Tx, accountID string, delta int64, reason model.LedgerReason, referenceOrderID *uuid.UUID, idempotencyKey string) (*model.LedgerEntry, error)

	// GetPostingTx retrieves a prior posting by idempotency key within the
	// caller's transaction. Returns nil if no such posting exists.
	GetPostingTx(ctx context.Context, tx pgx.Tx, idempotencyKey string) (*model.LedgerEntry, error)

	// BalanceOf computes the account balance as a fold over its entries.
	BalanceOf(ctx context.Context, accountID string) (int64, error)

	// HistoryOf retrieves the account's entries newest first.
	HistoryOf(ctx context.Context, accountID string, limit, offset int) ([]model.LedgerEntry, error)
}

// ShipmentService defines operations on shipment batches and auto-ship.
type ShipmentService interface {
	// SetAutoShip toggles the per-order auto-ship flag for a set of orders.
	// Orders sharing a batch are toggled all-or-nothing; batches are
	// independent of each other, so partial success is reported per ID.
	SetAutoShip(ctx context.Context, orderIDs []uuid.UUID, enabled bool) ([]model.AutoShipResult, error)

	// SetBatchAutoShip toggles the batch-level auto-ship default.
	SetBatchAutoShip(ctx context.Context, batchID uuid.UUID, enabled bool) error

	// DrainAutoShippable dispatches every eligible pending order through the
	// pending_shipment -> shipped transition. Returns the number dispatched.
	// Safe to re-trigger: a second run with no new orders dispatches nothing.
	DrainAutoShippable(ctx context.Context) (int, error)
}

// NotificationRecorder records immutable customer-facing notification logs.
// Recording is best-effort and must never fail the originating transition.
type NotificationRecorder interface {
	// Record appends a notification log entry, swallowing any failure.
	Record(ctx context.Context, orderID uuid.UUID, channel, event, payloadSummary string)

	// ListByOrder retrieves the recorded entries for an order, newest first.
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.NotificationLog, error)
}
