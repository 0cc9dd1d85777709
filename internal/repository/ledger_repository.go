package repository

import (
	"context"
	"fmt"

	"shopmile/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// ledgerRepository implements the LedgerRepository interface using PostgreSQL.
// All writes go through Insert; the table carries no update or delete paths.
type ledgerRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewLedgerRepository creates a new PostgreSQL-backed ledger repository.
func NewLedgerRepository(pool *pgxpool.Pool, logger zerolog.Logger) LedgerRepository {
	return &ledgerRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "ledger").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *ledgerRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Insert appends a ledger entry within the provided transaction. The unique
// index on idempotency_key turns a retried posting into a skipped insert.
func (r *ledgerRepository) Insert(ctx context.Context, tx pgx.Tx, entry *model.LedgerEntry) (bool, error) {
	query := `
		INSERT INTO mileage_ledger (id, account_id, delta, reason, reference_order_id, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (idempotency_key) DO NOTHING
	`

	tag, err := tx.Exec(ctx, query,
		entry.ID,
		entry.AccountID,
		entry.Delta,
		entry.Reason,
		entry.ReferenceOrderID,
		entry.IdempotencyKey,
		entry.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("account_id", entry.AccountID).
			Str("idempotency_key", entry.IdempotencyKey).
			Msg("failed to insert ledger entry")
		return false, fmt.Errorf("failed to insert ledger entry: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Debug().
			Str("idempotency_key", entry.IdempotencyKey).
			Msg("ledger entry already exists, insert skipped")
		return false, nil
	}

	r.logger.Debug().
		Str("account_id", entry.AccountID).
		Int64("delta", entry.Delta).
		Str("reason", string(entry.Reason)).
		Msg("ledger entry appended")

	return true, nil
}

const ledgerColumns = `id, account_id, delta, reason, reference_order_id, idempotency_key, created_at`

func scanLedgerEntry(row pgx.Row, entry *model.LedgerEntry) error {
	return row.Scan(
		&entry.ID,
		&entry.AccountID,
		&entry.Delta,
		&entry.Reason,
		&entry.ReferenceOrderID,
		&entry.IdempotencyKey,
		&entry.CreatedAt,
	)
}

// GetByKey retrieves the entry with the given idempotency key within the
// provided transaction.
func (r *ledgerRepository) GetByKey(ctx context.Context, tx pgx.Tx, key string) (*model.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM mileage_ledger
		WHERE idempotency_key = $1
	`

	var entry model.LedgerEntry
	err := scanLedgerEntry(tx.QueryRow(ctx, query, key), &entry)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("idempotency_key", key).Msg("failed to query ledger entry by key")
		return nil, fmt.Errorf("failed to query ledger entry by key: %w", err)
	}

	return &entry, nil
}

// SumBalance computes the account balance as the sum of all deltas within the
// provided transaction. The running sum is the source of truth; no cached
// counter exists to drift from it.
func (r *ledgerRepository) SumBalance(ctx context.Context, tx pgx.Tx, accountID string) (int64, error) {
	var balance int64
	err := tx.QueryRow(ctx, balanceQuery, accountID).Scan(&balance)
	if err != nil {
		r.logger.Error().Err(err).Str("account_id", accountID).Msg("failed to sum ledger balance")
		return 0, fmt.Errorf("failed to sum ledger balance: %w", err)
	}
	return balance, nil
}

const balanceQuery = `
	SELECT COALESCE(SUM(delta), 0)
	FROM mileage_ledger
	WHERE account_id = $1
`

// Balance computes the account balance outside any transaction.
func (r *ledgerRepository) Balance(ctx context.Context, accountID string) (int64, error) {
	var balance int64
	err := r.pool.QueryRow(ctx, balanceQuery, accountID).Scan(&balance)
	if err != nil {
		r.logger.Error().Err(err).Str("account_id", accountID).Msg("failed to sum ledger balance")
		return 0, fmt.Errorf("failed to sum ledger balance: %w", err)
	}
	return balance, nil
}

// History retrieves the account's entries newest first with offset pagination.
func (r *ledgerRepository) History(ctx context.Context, accountID string, limit, offset int) ([]model.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM mileage_ledger
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("account_id", accountID).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query ledger history")
		return nil, fmt.Errorf("failed to query ledger history: %w", err)
	}
	defer rows.Close()

	var entries []model.LedgerEntry
	for rows.Next() {
		var entry model.LedgerEntry
		if err := scanLedgerEntry(rows, &entry); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan ledger entry row")
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating ledger entry rows")
		return nil, fmt.Errorf("error iterating ledger entries: %w", err)
	}

	return entries, nil
}
