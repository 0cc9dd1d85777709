package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"shopmile/internal/model"
	"shopmile/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// mileageService implements MileageService.
type mileageService struct {
	ledgerRepo repository.LedgerRepository
	logger     zerolog.Logger
}

// NewMileageService creates a new mileage ledger service.
func NewMileageService(ledgerRepo repository.LedgerRepository, logger zerolog.Logger) MileageService {
	return &mileageService{
		ledgerRepo: ledgerRepo,
		logger:     logger.With().Str("service", "mileage").Logger(),
	}
}

// Post appends a ledger entry in its own transaction.
func (s *mileageService) Post(ctx context.Context, accountID string, delta int64, reason model.LedgerReason, referenceOrderID *uuid.UUID, idempotencyKey string) (*model.LedgerEntry, error) {
	tx, err := s.ledgerRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to post ledger entry: %w", err)
	}

	entry, err := s.PostTx(ctx, tx, accountID, delta, reason, referenceOrderID, idempotencyKey)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("idempotency_key", idempotencyKey).Msg("failed to commit ledger posting")
		return nil, fmt.Errorf("failed to post ledger entry: %w", err)
	}

	return entry, nil
}

// PostTx appends a ledger entry within the caller's transaction. Balance
// constraints are checked against the running sum of the account's deltas;
// the unique idempotency key gives retries at-most-once semantics.
func (s *mileageService) PostTx(ctx context.Context, tx pgx.Tx, accountID string, delta int64, reason model.LedgerReason, referenceOrderID *uuid.UUID, idempotencyKey string) (*model.LedgerEntry, error) {
	if accountID == "" {
		return nil, fmt.Errorf("account ID is required")
	}
	if idempotencyKey == "" {
		return nil, fmt.Errorf("idempotency key is required")
	}

	// Duplicate posting is success: return the prior entry unchanged.
	existing, err := s.ledgerRepo.GetByKey(ctx, tx, idempotencyKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.logger.Debug().
			Str("idempotency_key", idempotencyKey).
			Msg("duplicate posting, returning prior entry")
		return existing, nil
	}

	balance, err := s.ledgerRepo.SumBalance(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}

	if delta > 0 && balance > math.MaxInt64-delta {
		s.logger.Warn().
			Str("account_id", accountID).
			Int64("balance", balance).
			Int64("delta", delta).
			Msg("posting rejected, balance would overflow")
		return nil, model.ErrOverflowRejected
	}

	if delta < 0 && balance+delta < 0 {
		s.logger.Warn().
			Str("account_id", accountID).
			Int64("balance", balance).
			Int64("delta", delta).
			Msg("posting rejected, balance would go negative")
		return nil, model.ErrInsufficientBalance
	}

	entry := &model.LedgerEntry{
		ID:               uuid.New(),
		AccountID:        accountID,
		Delta:            delta,
		Reason:           reason,
		ReferenceOrderID: referenceOrderID,
		IdempotencyKey:   idempotencyKey,
		CreatedAt:        time.Now(),
	}

	inserted, err := s.ledgerRepo.Insert(ctx, tx, entry)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// A concurrent posting won the key; surface its entry as success.
		existing, err := s.ledgerRepo.GetByKey(ctx, tx, idempotencyKey)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("ledger entry for key %s vanished after conflict", idempotencyKey)
		}
		return existing, nil
	}

	s.logger.Info().
		Str("account_id", accountID).
		Int64("delta", delta).
		Str("reason", string(reason)).
		Str("idempotency_key", idempotencyKey).
		Msg("ledger entry posted")

	return entry, nil
}

// GetPostingTx retrieves a prior posting by idempotency key within the
// caller's transaction.
func (s *mileageService) GetPostingTx(ctx context.Context, tx pgx.Tx, idempotencyKey string) (*model.LedgerEntry, error) {
	return s.ledgerRepo.GetByKey(ctx, tx, idempotencyKey)
}

// BalanceOf computes the account balance as a fold over its entries.
func (s *mileageService) BalanceOf(ctx context.Context, accountID string) (int64, error) {
	if accountID == "" {
		return 0, fmt.Errorf("account ID is required")
	}

	balance, err := s.ledgerRepo.Balance(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to compute balance: %w", err)
	}

	return balance, nil
}

// HistoryOf retrieves the account's entries newest first.
func (s *mileageService) HistoryOf(ctx context.Context, accountID string, limit, offset int) ([]model.LedgerEntry, error) {
	if accountID == "" {
		return nil, fmt.Errorf("account ID is required")
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := s.ledgerRepo.History(ctx, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve ledger history: %w", err)
	}

	return entries, nil
}
