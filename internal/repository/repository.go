package repository

import (
	"context"
	"time"

	"shopmile/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// ValidateProductsExist checks if all provided product IDs exist in the database.
	// Returns error if any product ID does not exist.
	ValidateProductsExist(ctx context.Context, ids []string) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)

	// GetForUpdate retrieves an order by its ID within the transaction,
	// locking the row. Returns nil if the order does not exist.
	GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error)

	// UpdateStatus applies a compare-and-swap status update: the row is
	// changed only if its current status equals from. Returns false when no
	// row matched (missing order or stale source status).
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to model.OrderStatus, updatedAt time.Time) (bool, error)

	// SetAutoShip updates the per-order auto-ship flag within the provided
	// transaction. Returns false if the order does not exist.
	SetAutoShip(ctx context.Context, tx pgx.Tx, id uuid.UUID, enabled bool) (bool, error)
}

// LedgerRepository defines the interface for mileage ledger data access.
// The ledger is append-only: there are no update or delete operations.
type LedgerRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Insert appends a ledger entry within the provided transaction. Returns
	// false without error when an entry with the same idempotency key already
	// exists (the insert is skipped).
	Insert(ctx context.Context, tx pgx.Tx, entry *model.LedgerEntry) (bool, error)

	// GetByKey retrieves the entry with the given idempotency key within the
	// provided transaction. Returns nil if no such entry exists.
	GetByKey(ctx context.Context, tx pgx.Tx, key string) (*model.LedgerEntry, error)

	// SumBalance computes the account balance as the sum of all deltas within
	// the provided transaction.
	SumBalance(ctx context.Context, tx pgx.Tx, accountID string) (int64, error)

	// Balance computes the account balance outside any transaction.
	Balance(ctx context.Context, accountID string) (int64, error)

	// History retrieves the account's entries newest first, using
	// offset-based pagination.
	History(ctx context.Context, accountID string, limit, offset int) ([]model.LedgerEntry, error)
}

// ShipmentRepository defines the interface for shipment batch data access.
type ShipmentRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// EnsureOpenBatch returns the ID of the open batch, creating one within
	// the provided transaction if none is open.
	EnsureOpenBatch(ctx context.Context, tx pgx.Tx) (uuid.UUID, error)

	// AddMember adds the order to the batch within the provided transaction.
	// Returns false without error if the order is already a member of a batch.
	AddMember(ctx context.Context, tx pgx.Tx, orderID, batchID uuid.UUID) (bool, error)

	// RemoveMember removes the order from its batch within the provided
	// transaction. Returns false without error if the order is not a member.
	RemoveMember(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (bool, error)

	// GetBatch retrieves a batch by its ID. Returns nil if it does not exist.
	GetBatch(ctx context.Context, id uuid.UUID) (*model.ShipmentBatch, error)

	// GetMemberships resolves the batch ID for each of the given order IDs.
	// Orders without a membership are absent from the result.
	GetMemberships(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error)

	// SetBatchAutoShip updates the batch-level auto-ship default and the
	// toggle timestamp. Returns false if the batch does not exist.
	SetBatchAutoShip(ctx context.Context, batchID uuid.UUID, enabled bool) (bool, error)

	// ListAutoShippable retrieves the orders in pending_shipment whose
	// per-order flag or batch default enables automatic dispatch.
	ListAutoShippable(ctx context.Context) ([]model.Order, error)
}

// NotificationRepository defines the interface for notification log access.
type NotificationRepository interface {
	// Insert appends a notification log entry.
	Insert(ctx context.Context, log *model.NotificationLog) error

	// ListByOrder retrieves the log entries for an order, newest first.
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.NotificationLog, error)
}
