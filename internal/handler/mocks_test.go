package handler

import (
	"context"

	"shopmile/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// MockProductService is a mock implementation of service.ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

// MockOrderService is a mock implementation of service.OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.OrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

func (m *MockOrderService) Transition(ctx context.Context, id uuid.UUID, target model.OrderStatus) (*model.OrderResponse, error) {
	args := m.Called(ctx, id, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

// MockMileageService is a mock implementation of service.MileageService.
type MockMileageService struct {
	mock.Mock
}

func (m *MockMileageService) Post(ctx context.Context, accountID string, delta int64, reason model.LedgerReason, referenceOrderID *uuid.UUID, idempotencyKey string) (*model.LedgerEntry, error) {
	args := m.Called(ctx, accountID, delta, reason, referenceOrderID, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LedgerEntry), args.Error(1)
}

func (m *MockMileageService) PostTx(ctx context.Context, tx pgx.Tx, accountID string, delta int64, reason model.LedgerReason, referenceOrderID *uuid.UUID, idempotencyKey string) (*model.LedgerEntry, error) {
	args := m.Called(ctx, tx, accountID, delta, reason, referenceOrderID, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LedgerEntry), args.Error(1)
}

func (m *MockMileageService) GetPostingTx(ctx context.Context, tx pgx.Tx, idempotencyKey string) (*model.LedgerEntry, error) {
	args := m.Called(ctx, tx, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LedgerEntry), args.Error(1)
}

func (m *MockMileageService) BalanceOf(ctx context.Context, accountID string) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMileageService) HistoryOf(ctx context.Context, accountID string, limit, offset int) ([]model.LedgerEntry, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LedgerEntry), args.Error(1)
}

// MockShipmentService is a mock implementation of service.ShipmentService.
type MockShipmentService struct {
	mock.Mock
}

func (m *MockShipmentService) SetAutoShip(ctx context.Context, orderIDs []uuid.UUID, enabled bool) ([]model.AutoShipResult, error) {
	args := m.Called(ctx, orderIDs, enabled)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AutoShipResult), args.Error(1)
}

func (m *MockShipmentService) SetBatchAutoShip(ctx context.Context, batchID uuid.UUID, enabled bool) error {
	args := m.Called(ctx, batchID, enabled)
	return args.Error(0)
}

func (m *MockShipmentService) DrainAutoShippable(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockRecorder is a mock implementation of service.NotificationRecorder.
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, orderID uuid.UUID, channel, event, payloadSummary string) {
	m.Called(ctx, orderID, channel, event, payloadSummary)
}

func (m *MockRecorder) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.NotificationLog, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.NotificationLog), args.Error(1)
}
