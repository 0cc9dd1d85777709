package repository

import (
	"context"
	"fmt"
	"time"

	"shopmile/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// shipmentRepository implements the ShipmentRepository interface using
// PostgreSQL. Membership is a relation table keyed by order_id, which makes
// "at most one batch per order" a schema constraint rather than a code check.
type shipmentRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewShipmentRepository creates a new PostgreSQL-backed shipment repository.
func NewShipmentRepository(pool *pgxpool.Pool, logger zerolog.Logger) ShipmentRepository {
	return &shipmentRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "shipment").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *shipmentRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// EnsureOpenBatch returns the ID of the open batch, creating one if none is
// open. The partial unique index on (open) WHERE open keeps concurrent
// creations from producing two open batches.
func (r *shipmentRepository) EnsureOpenBatch(ctx context.Context, tx pgx.Tx) (uuid.UUID, error) {
	insertQuery := `
		INSERT INTO shipment_batches (id, open, auto_ship_enabled, created_at, last_toggled_at)
		VALUES ($1, TRUE, FALSE, $2, $2)
		ON CONFLICT DO NOTHING
	`

	now := time.Now()
	if _, err := tx.Exec(ctx, insertQuery, uuid.New(), now); err != nil {
		r.logger.Error().Err(err).Msg("failed to create shipment batch")
		return uuid.Nil, fmt.Errorf("failed to create shipment batch: %w", err)
	}

	selectQuery := `
		SELECT id
		FROM shipment_batches
		WHERE open
		LIMIT 1
	`

	var batchID uuid.UUID
	if err := tx.QueryRow(ctx, selectQuery).Scan(&batchID); err != nil {
		r.logger.Error().Err(err).Msg("failed to query open shipment batch")
		return uuid.Nil, fmt.Errorf("failed to query open shipment batch: %w", err)
	}

	return batchID, nil
}

// AddMember adds the order to the batch. The primary key on order_id makes
// re-enqueueing a no-op.
func (r *shipmentRepository) AddMember(ctx context.Context, tx pgx.Tx, orderID, batchID uuid.UUID) (bool, error) {
	query := `
		INSERT INTO shipment_batch_orders (order_id, batch_id)
		VALUES ($1, $2)
		ON CONFLICT (order_id) DO NOTHING
	`

	tag, err := tx.Exec(ctx, query, orderID, batchID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", orderID.String()).
			Str("batch_id", batchID.String()).
			Msg("failed to add batch member")
		return false, fmt.Errorf("failed to add batch member: %w", err)
	}

	added := tag.RowsAffected() > 0
	if added {
		r.logger.Debug().
			Str("order_id", orderID.String()).
			Str("batch_id", batchID.String()).
			Msg("order enqueued into shipment batch")
	}

	return added, nil
}

// RemoveMember removes the order from its batch.
func (r *shipmentRepository) RemoveMember(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (bool, error) {
	query := `
		DELETE FROM shipment_batch_orders
		WHERE order_id = $1
	`

	tag, err := tx.Exec(ctx, query, orderID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to remove batch member")
		return false, fmt.Errorf("failed to remove batch member: %w", err)
	}

	removed := tag.RowsAffected() > 0
	if removed {
		r.logger.Debug().Str("order_id", orderID.String()).Msg("order dequeued from shipment batch")
	}

	return removed, nil
}

// GetBatch retrieves a batch by its ID.
func (r *shipmentRepository) GetBatch(ctx context.Context, id uuid.UUID) (*model.ShipmentBatch, error) {
	query := `
		SELECT id, open, auto_ship_enabled, created_at, last_toggled_at
		FROM shipment_batches
		WHERE id = $1
	`

	var batch model.ShipmentBatch
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&batch.ID,
		&batch.Open,
		&batch.AutoShipEnabled,
		&batch.CreatedAt,
		&batch.LastToggledAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("batch_id", id.String()).Msg("shipment batch not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("batch_id", id.String()).Msg("failed to query shipment batch")
		return nil, fmt.Errorf("failed to query shipment batch: %w", err)
	}

	return &batch, nil
}

// GetMemberships resolves the batch ID for each of the given order IDs.
func (r *shipmentRepository) GetMemberships(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	memberships := make(map[uuid.UUID]uuid.UUID, len(orderIDs))
	if len(orderIDs) == 0 {
		return memberships, nil
	}

	query := `
		SELECT order_id, batch_id
		FROM shipment_batch_orders
		WHERE order_id = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, orderIDs)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(orderIDs)).Msg("failed to query batch memberships")
		return nil, fmt.Errorf("failed to query batch memberships: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID, batchID uuid.UUID
		if err := rows.Scan(&orderID, &batchID); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan batch membership row")
			return nil, fmt.Errorf("failed to scan batch membership: %w", err)
		}
		memberships[orderID] = batchID
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating batch membership rows")
		return nil, fmt.Errorf("error iterating batch memberships: %w", err)
	}

	return memberships, nil
}

// SetBatchAutoShip updates the batch-level auto-ship default.
func (r *shipmentRepository) SetBatchAutoShip(ctx context.Context, batchID uuid.UUID, enabled bool) (bool, error) {
	query := `
		UPDATE shipment_batches
		SET auto_ship_enabled = $2, last_toggled_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, batchID, enabled)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("batch_id", batchID.String()).
			Bool("enabled", enabled).
			Msg("failed to update batch auto-ship default")
		return false, fmt.Errorf("failed to update batch auto-ship default: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ListAutoShippable retrieves orders eligible for automatic dispatch: in
// pending_shipment with either the per-order flag or the batch default on.
func (r *shipmentRepository) ListAutoShippable(ctx context.Context) ([]model.Order, error) {
	query := `
		SELECT o.id, o.customer_id, o.status, o.total_amount, o.redeemed_points, o.promo_code, o.auto_ship_enabled, o.created_at, o.updated_at
		FROM orders o
		JOIN shipment_batch_orders m ON m.order_id = o.id
		JOIN shipment_batches b ON b.id = m.batch_id
		WHERE o.status = $1 AND (o.auto_ship_enabled OR b.auto_ship_enabled)
		ORDER BY o.created_at
	`

	rows, err := r.pool.Query(ctx, query, model.StatusPendingShipment)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query auto-shippable orders")
		return nil, fmt.Errorf("failed to query auto-shippable orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var order model.Order
		if err := scanOrder(rows, &order); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan auto-shippable order row")
			return nil, fmt.Errorf("failed to scan auto-shippable order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating auto-shippable order rows")
		return nil, fmt.Errorf("error iterating auto-shippable orders: %w", err)
	}

	return orders, nil
}
