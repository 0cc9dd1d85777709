package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LedgerReason classifies a mileage ledger posting.
type LedgerReason string

const (
	ReasonOrderEarn        LedgerReason = "order-earn"
	ReasonOrderRedeem      LedgerReason = "order-redeem"
	ReasonRefundReversal   LedgerReason = "refund-reversal"
	ReasonManualAdjustment LedgerReason = "manual-adjustment"
)

// LedgerEntry records an immutable mileage balance change for an account.
// Entries are append-only; an account's balance is the sum of its deltas.
type LedgerEntry struct {
	ID               uuid.UUID    `json:"id" db:"id"`
	AccountID        string       `json:"accountId" db:"account_id"`
	Delta            int64        `json:"delta" db:"delta"`
	Reason           LedgerReason `json:"reason" db:"reason"`
	ReferenceOrderID *uuid.UUID   `json:"referenceOrderId,omitempty" db:"reference_order_id"`
	IdempotencyKey   string       `json:"-" db:"idempotency_key"`
	CreatedAt        time.Time    `json:"createdAt" db:"created_at"`
}

// PostingKey derives the idempotency key for a system-generated posting.
// The posting label distinguishes the two reversal entries a returned order
// can produce under the same reason.
func PostingKey(orderID uuid.UUID, posting string) string {
	return fmt.Sprintf("%s:%s", orderID, posting)
}

// Posting labels used for system-derived idempotency keys.
const (
	PostingOrderEarn      = "order-earn"
	PostingOrderRedeem    = "order-redeem"
	PostingEarnReversal   = "earn-reversal"
	PostingRedeemReversal = "redeem-reversal"
	PostingPromoBonus     = "promo-bonus"
)

// MileageResponse is the payload for the mileage account endpoint.
type MileageResponse struct {
	AccountID string        `json:"accountId"`
	Balance   int64         `json:"balance"`
	History   []LedgerEntry `json:"history"`
	Limit     int           `json:"limit"`
	Offset    int           `json:"offset"`
}
