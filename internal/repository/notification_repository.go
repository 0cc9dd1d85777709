package repository

import (
	"context"
	"fmt"

	"shopmile/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// notificationRepository implements NotificationRepository using PostgreSQL.
type notificationRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewNotificationRepository creates a new PostgreSQL-backed notification repository.
func NewNotificationRepository(pool *pgxpool.Pool, logger zerolog.Logger) NotificationRepository {
	return &notificationRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "notification").Logger(),
	}
}

// Insert appends a notification log entry.
func (r *notificationRepository) Insert(ctx context.Context, log *model.NotificationLog) error {
	query := `
		INSERT INTO email_logs (id, order_id, channel, event, payload_summary, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		log.ID,
		log.OrderID,
		log.Channel,
		log.Event,
		log.PayloadSummary,
		log.SentAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", log.OrderID.String()).
			Str("event", log.Event).
			Msg("failed to insert notification log")
		return fmt.Errorf("failed to insert notification log: %w", err)
	}

	return nil
}

// ListByOrder retrieves the log entries for an order, newest first.
func (r *notificationRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.NotificationLog, error) {
	query := `
		SELECT id, order_id, channel, event, payload_summary, sent_at
		FROM email_logs
		WHERE order_id = $1
		ORDER BY sent_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to query notification logs")
		return nil, fmt.Errorf("failed to query notification logs: %w", err)
	}
	defer rows.Close()

	var logs []model.NotificationLog
	for rows.Next() {
		var log model.NotificationLog
		err := rows.Scan(&log.ID, &log.OrderID, &log.Channel, &log.Event, &log.PayloadSummary, &log.SentAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan notification log row")
			return nil, fmt.Errorf("failed to scan notification log: %w", err)
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating notification log rows")
		return nil, fmt.Errorf("error iterating notification logs: %w", err)
	}

	return logs, nil
}
