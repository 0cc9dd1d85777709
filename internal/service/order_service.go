package service

import (
	"context"
	"fmt"
	"time"

	"shopmile/internal/config"
	"shopmile/internal/model"
	"shopmile/internal/promo"
	"shopmile/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// orderService implements OrderService. Every transition runs as one
// transaction: the compare-and-swap status update, batch membership changes
// and ledger postings commit or roll back together, so no caller ever
// observes an order with only some of its side effects applied.
type orderService struct {
	orderRepo    repository.OrderRepository
	shipmentRepo repository.ShipmentRepository
	productRepo  repository.ProductRepository
	mileage      MileageService
	recorder     NotificationRecorder
	validator    promo.Validator
	cfg          config.MileageConfig
	logger       zerolog.Logger
}

// NewOrderService creates a new order service. validator may be nil when
// promo codes are disabled.
func NewOrderService(
	orderRepo repository.OrderRepository,
	shipmentRepo repository.ShipmentRepository,
	productRepo repository.ProductRepository,
	mileage MileageService,
	recorder NotificationRecorder,
	validator promo.Validator,
	cfg config.MileageConfig,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		shipmentRepo: shipmentRepo,
		productRepo:  productRepo,
		mileage:      mileage,
		recorder:     recorder,
		validator:    validator,
		cfg:          cfg,
		logger:       logger.With().Str("service", "order").Logger(),
	}
}

// Checkout creates a new order in placed, capturing unit prices from the
// catalogue. An optional mileage redemption posts an order-redeem entry in
// the same transaction, so an insufficient balance fails the whole checkout.
func (s *orderService) Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.OrderResponse, error) {
	if err := s.validateCheckoutRequest(req); err != nil {
		return nil, err
	}

	usePromo := req.PromoCode != nil && *req.PromoCode != ""
	if usePromo {
		if s.validator == nil {
			return nil, model.ErrInvalidPromoCode
		}
		if err := s.validator.Validate(ctx, *req.PromoCode); err != nil {
			s.logger.Warn().
				Str("promo_code", *req.PromoCode).
				Err(err).
				Msg("invalid promo code")
			return nil, err
		}
		s.logger.Debug().Str("promo_code", *req.PromoCode).Msg("promo code validated")
	}

	productIDs := make([]string, len(req.Items))
	for i, item := range req.Items {
		productIDs[i] = item.ProductID
	}

	if err := s.productRepo.ValidateProductsExist(ctx, productIDs); err != nil {
		s.logger.Warn().
			Int("product_count", len(productIDs)).
			Err(err).
			Msg("product validation failed")
		return nil, err
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to retrieve product details")
		return nil, fmt.Errorf("failed to retrieve product details: %w", err)
	}

	priceByID := make(map[string]int64, len(products))
	for _, p := range products {
		priceByID[p.ID] = p.Price
	}

	// Total is the sum of line subtotals at creation time and never changes
	// afterwards; cancellations and returns post offsetting ledger entries.
	var total int64
	for _, item := range req.Items {
		total += priceByID[item.ProductID] * int64(item.Quantity)
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && rbErr != pgx.ErrTxClosed {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	now := time.Now()
	order := &model.Order{
		ID:             uuid.New(),
		CustomerID:     req.CustomerID,
		Status:         model.StatusPlaced,
		TotalAmount:    total,
		RedeemedPoints: req.RedeemPoints,
		PromoCode:      req.PromoCode,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	orderItems := make([]model.OrderItem, len(req.Items))
	for i, item := range req.Items {
		orderItems[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: priceByID[item.ProductID],
		}
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(orderItems)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if req.RedeemPoints > 0 {
		_, err = s.mileage.PostTx(ctx, tx, req.CustomerID, -req.RedeemPoints, model.ReasonOrderRedeem,
			&order.ID, model.PostingKey(order.ID, model.PostingOrderRedeem))
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("order_id", order.ID.String()).
				Int64("redeem_points", req.RedeemPoints).
				Msg("mileage redemption failed")
			return nil, err
		}
	}

	if usePromo && s.cfg.PromoBonus > 0 {
		_, err = s.mileage.PostTx(ctx, tx, req.CustomerID, s.cfg.PromoBonus, model.ReasonManualAdjustment,
			&order.ID, model.PostingKey(order.ID, model.PostingPromoBonus))
		if err != nil {
			s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to post promo bonus")
			return nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.recorder.Record(ctx, order.ID, model.ChannelEmail, model.EventOrderConfirmed,
		fmt.Sprintf("order placed, total %d", total))

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("customer_id", req.CustomerID).
		Int64("total_amount", total).
		Int("item_count", len(orderItems)).
		Msg("order created successfully")

	return orderResponse(order, orderItems), nil
}

// GetByID retrieves an order by its ID with all items.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, nil
	}

	return orderResponse(order, items), nil
}

// Transition applies a validated lifecycle transition to the order. The
// status update is compare-and-swap guarded on the source status, so of two
// concurrent requests from the same source exactly one succeeds and the
// loser fails with ErrInvalidTransition.
func (s *orderService) Transition(ctx context.Context, id uuid.UUID, target model.OrderStatus) (*model.OrderResponse, error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to apply transition: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && rbErr != pgx.ErrTxClosed {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	order, err := s.orderRepo.GetForUpdate(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to apply transition: %w", err)
	}
	if order == nil {
		err = model.ErrOrderNotFound
		return nil, err
	}

	// Fail fast before any side effect is attempted.
	if !model.CanTransition(order.Status, target) {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("from", string(order.Status)).
			Str("to", string(target)).
			Msg("illegal transition rejected")
		err = model.ErrInvalidTransition
		return nil, err
	}

	ok, err := s.orderRepo.UpdateStatus(ctx, tx, id, order.Status, target, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to apply transition: %w", err)
	}
	if !ok {
		// The row was taken by a concurrent transition between our read and
		// the update; the source status is stale.
		err = model.ErrInvalidTransition
		return nil, err
	}

	if err = s.applyTransitionEffects(ctx, tx, order, target); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to commit transition")
		return nil, fmt.Errorf("failed to apply transition: %w", err)
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("from", string(order.Status)).
		Str("to", string(target)).
		Msg("order transitioned")

	s.recordTransition(ctx, order.ID, target)

	order.Status = target
	_, items, getErr := s.orderRepo.GetByID(ctx, id)
	if getErr != nil {
		s.logger.Error().Err(getErr).Str("order_id", id.String()).Msg("failed to reload order items")
		items = nil
	}

	return orderResponse(order, items), nil
}

// applyTransitionEffects performs the ledger and batch side effects of the
// transition within the same transaction as the status update.
func (s *orderService) applyTransitionEffects(ctx context.Context, tx pgx.Tx, order *model.Order, target model.OrderStatus) error {
	switch target {
	case model.StatusPendingShipment:
		batchID, err := s.shipmentRepo.EnsureOpenBatch(ctx, tx)
		if err != nil {
			return fmt.Errorf("failed to enqueue order for shipment: %w", err)
		}
		if _, err := s.shipmentRepo.AddMember(ctx, tx, order.ID, batchID); err != nil {
			return fmt.Errorf("failed to enqueue order for shipment: %w", err)
		}

	case model.StatusShipped:
		if _, err := s.shipmentRepo.RemoveMember(ctx, tx, order.ID); err != nil {
			return fmt.Errorf("failed to dequeue order from shipment batch: %w", err)
		}

	case model.StatusCompleted:
		reward := order.TotalAmount * s.cfg.RewardRateBps / 10000
		if reward > 0 {
			_, err := s.mileage.PostTx(ctx, tx, order.CustomerID, reward, model.ReasonOrderEarn,
				&order.ID, model.PostingKey(order.ID, model.PostingOrderEarn))
			if err != nil {
				return fmt.Errorf("failed to post completion reward: %w", err)
			}
		}

	case model.StatusCancelled:
		if _, err := s.shipmentRepo.RemoveMember(ctx, tx, order.ID); err != nil {
			return fmt.Errorf("failed to dequeue order from shipment batch: %w", err)
		}
		if err := s.reverseRedemption(ctx, tx, order); err != nil {
			return err
		}

	case model.StatusReturned:
		if err := s.reverseEarn(ctx, tx, order); err != nil {
			return err
		}
		if err := s.reverseRedemption(ctx, tx, order); err != nil {
			return err
		}
	}

	return nil
}

// reverseRedemption refunds redeemed points. The original order-redeem entry
// is never mutated; an offsetting positive entry is appended instead.
func (s *orderService) reverseRedemption(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	if order.RedeemedPoints <= 0 {
		return nil
	}

	_, err := s.mileage.PostTx(ctx, tx, order.CustomerID, order.RedeemedPoints, model.ReasonRefundReversal,
		&order.ID, model.PostingKey(order.ID, model.PostingRedeemReversal))
	if err != nil {
		return fmt.Errorf("failed to reverse redemption: %w", err)
	}
	return nil
}

// reverseEarn offsets a previously posted completion reward. The earn amount
// is read back from the ledger rather than recomputed, so a reward-rate
// change between completion and return cannot skew the reversal.
func (s *orderService) reverseEarn(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	earnKey := model.PostingKey(order.ID, model.PostingOrderEarn)
	posted, err := s.mileage.GetPostingTx(ctx, tx, earnKey)
	if err != nil {
		return fmt.Errorf("failed to look up completion reward: %w", err)
	}
	if posted == nil {
		// Returned straight from shipped; no earn was ever posted.
		return nil
	}

	_, err = s.mileage.PostTx(ctx, tx, order.CustomerID, -posted.Delta, model.ReasonRefundReversal,
		&order.ID, model.PostingKey(order.ID, model.PostingEarnReversal))
	if err != nil {
		return fmt.Errorf("failed to reverse completion reward: %w", err)
	}
	return nil
}

// recordTransition writes the audit notification for a committed transition.
func (s *orderService) recordTransition(ctx context.Context, orderID uuid.UUID, target model.OrderStatus) {
	var event string
	switch target {
	case model.StatusShipped:
		event = model.EventShipmentNotice
	case model.StatusCompleted:
		event = model.EventOrderCompleted
	case model.StatusCancelled:
		event = model.EventOrderCancelled
	case model.StatusReturned:
		event = model.EventReturnAccepted
	default:
		return
	}

	s.recorder.Record(ctx, orderID, model.ChannelEmail, event,
		fmt.Sprintf("order moved to %s", target))
}

// validateCheckoutRequest validates the checkout request.
func (s *orderService) validateCheckoutRequest(req *model.CheckoutRequest) error {
	if req == nil {
		return fmt.Errorf("checkout request is nil")
	}

	if req.CustomerID == "" {
		return fmt.Errorf("customer ID is required")
	}

	if len(req.Items) == 0 {
		return fmt.Errorf("order must contain at least one item")
	}

	for i, item := range req.Items {
		if item.ProductID == "" {
			return fmt.Errorf("item %d: product ID is required", i)
		}

		if item.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Str("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}
	}

	if req.RedeemPoints < 0 {
		return fmt.Errorf("redeem points cannot be negative")
	}

	if s.cfg.RedemptionCap > 0 && req.RedeemPoints > s.cfg.RedemptionCap {
		return fmt.Errorf("redeem points exceed the configured cap of %d", s.cfg.RedemptionCap)
	}

	return nil
}

func orderResponse(order *model.Order, items []model.OrderItem) *model.OrderResponse {
	return &model.OrderResponse{
		ID:              order.ID,
		CustomerID:      order.CustomerID,
		Status:          order.Status,
		TotalAmount:     order.TotalAmount,
		RedeemedPoints:  order.RedeemedPoints,
		AutoShipEnabled: order.AutoShipEnabled,
		Items:           items,
	}
}
