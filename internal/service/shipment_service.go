package service

import (
	"context"
	"errors"
	"fmt"

	"shopmile/internal/model"
	"shopmile/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// shipmentService implements ShipmentService.
type shipmentService struct {
	shipmentRepo repository.ShipmentRepository
	orderRepo    repository.OrderRepository
	orders       OrderService
	logger       zerolog.Logger
}

// NewShipmentService creates a new shipment batch service. orders is used to
// hand drained orders to the pending_shipment -> shipped transition.
func NewShipmentService(
	shipmentRepo repository.ShipmentRepository,
	orderRepo repository.OrderRepository,
	orders OrderService,
	logger zerolog.Logger,
) ShipmentService {
	return &shipmentService{
		shipmentRepo: shipmentRepo,
		orderRepo:    orderRepo,
		orders:       orders,
		logger:       logger.With().Str("service", "shipment").Logger(),
	}
}

// SetAutoShip toggles the per-order auto-ship flag for a set of orders.
// Orders are grouped by their batch; each group is toggled in one
// transaction, so a group either fully succeeds or fully fails, while groups
// stay independent of each other.
func (s *shipmentService) SetAutoShip(ctx context.Context, orderIDs []uuid.UUID, enabled bool) ([]model.AutoShipResult, error) {
	if len(orderIDs) == 0 {
		return nil, fmt.Errorf("at least one order ID is required")
	}

	memberships, err := s.shipmentRepo.GetMemberships(ctx, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve batch memberships: %w", err)
	}

	// Orders outside any batch get a zero-valued group of their own.
	groups := make(map[uuid.UUID][]uuid.UUID)
	for _, orderID := range orderIDs {
		batchID := memberships[orderID]
		groups[batchID] = append(groups[batchID], orderID)
	}

	outcome := make(map[uuid.UUID]model.AutoShipResult, len(orderIDs))
	for batchID, members := range groups {
		if batchID == uuid.Nil {
			// Unbatched orders are independent of each other too.
			for _, orderID := range members {
				outcome[orderID] = s.toggleGroup(ctx, []uuid.UUID{orderID}, enabled)[orderID]
			}
			continue
		}

		for orderID, result := range s.toggleGroup(ctx, members, enabled) {
			outcome[orderID] = result
		}
	}

	results := make([]model.AutoShipResult, 0, len(orderIDs))
	for _, orderID := range orderIDs {
		results = append(results, outcome[orderID])
	}

	s.logger.Info().
		Int("order_count", len(orderIDs)).
		Bool("enabled", enabled).
		Msg("auto-ship toggle processed")

	return results, nil
}

// toggleGroup updates the auto-ship flag for a group of orders in a single
// transaction and reports the per-order outcome.
func (s *shipmentService) toggleGroup(ctx context.Context, orderIDs []uuid.UUID, enabled bool) map[uuid.UUID]model.AutoShipResult {
	results := make(map[uuid.UUID]model.AutoShipResult, len(orderIDs))

	fail := func(err error) {
		for _, orderID := range orderIDs {
			results[orderID] = model.AutoShipResult{OrderID: orderID, Error: err.Error()}
		}
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		fail(err)
		return results
	}

	updated := make(map[uuid.UUID]bool, len(orderIDs))
	for _, orderID := range orderIDs {
		ok, err := s.orderRepo.SetAutoShip(ctx, tx, orderID, enabled)
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && rbErr != pgx.ErrTxClosed {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
			fail(err)
			return results
		}
		if !ok {
			// Missing orders do not poison the rest of their group.
			results[orderID] = model.AutoShipResult{OrderID: orderID, Error: model.ErrOrderNotFound.Message}
			continue
		}
		updated[orderID] = true
	}

	if err := tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit auto-ship toggle")
		fail(err)
		return results
	}

	for orderID := range updated {
		results[orderID] = model.AutoShipResult{OrderID: orderID, Updated: true}
	}

	return results
}

// SetBatchAutoShip toggles the batch-level auto-ship default.
func (s *shipmentService) SetBatchAutoShip(ctx context.Context, batchID uuid.UUID, enabled bool) error {
	ok, err := s.shipmentRepo.SetBatchAutoShip(ctx, batchID, enabled)
	if err != nil {
		return fmt.Errorf("failed to toggle batch auto-ship: %w", err)
	}
	if !ok {
		return model.ErrBatchNotFound
	}

	s.logger.Info().
		Str("batch_id", batchID.String()).
		Bool("enabled", enabled).
		Msg("batch auto-ship default toggled")

	return nil
}

// DrainAutoShippable dispatches every eligible pending order. Each order goes
// through the normal transition path, so a sweep racing another dispatcher
// simply loses the compare-and-swap and moves on.
func (s *shipmentService) DrainAutoShippable(ctx context.Context) (int, error) {
	orders, err := s.shipmentRepo.ListAutoShippable(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list auto-shippable orders: %w", err)
	}

	dispatched := 0
	for _, order := range orders {
		if _, err := s.orders.Transition(ctx, order.ID, model.StatusShipped); err != nil {
			if errors.Is(err, model.ErrInvalidTransition) {
				s.logger.Debug().
					Str("order_id", order.ID.String()).
					Msg("order already dispatched by a concurrent transition")
				continue
			}
			s.logger.Error().
				Err(err).
				Str("order_id", order.ID.String()).
				Msg("failed to dispatch order")
			continue
		}
		dispatched++
	}

	if dispatched > 0 || len(orders) > 0 {
		s.logger.Info().
			Int("eligible", len(orders)).
			Int("dispatched", dispatched).
			Msg("auto-ship drain completed")
	}

	return dispatched, nil
}
