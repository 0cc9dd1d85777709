package service

import (
	"context"
	"fmt"
	"time"

	"shopmile/internal/model"
	"shopmile/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// notificationRecorder implements NotificationRecorder. Writes are
// best-effort: a storage failure is logged and swallowed so it can never
// fail or roll back the transition that triggered it.
type notificationRecorder struct {
	repo   repository.NotificationRepository
	logger zerolog.Logger
}

// NewNotificationRecorder creates a new notification recorder.
func NewNotificationRecorder(repo repository.NotificationRepository, logger zerolog.Logger) NotificationRecorder {
	return &notificationRecorder{
		repo:   repo,
		logger: logger.With().Str("service", "notifier").Logger(),
	}
}

// Record appends a notification log entry, swallowing any failure.
func (r *notificationRecorder) Record(ctx context.Context, orderID uuid.UUID, channel, event, payloadSummary string) {
	log := &model.NotificationLog{
		ID:             uuid.New(),
		OrderID:        orderID,
		Channel:        channel,
		Event:          event,
		PayloadSummary: payloadSummary,
		SentAt:         time.Now(),
	}

	if err := r.repo.Insert(ctx, log); err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", orderID.String()).
			Str("event", event).
			Msg("failed to record notification, continuing")
		return
	}

	r.logger.Debug().
		Str("order_id", orderID.String()).
		Str("channel", channel).
		Str("event", event).
		Msg("notification recorded")
}

// ListByOrder retrieves the recorded entries for an order, newest first.
func (r *notificationRecorder) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.NotificationLog, error) {
	logs, err := r.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notification logs: %w", err)
	}
	return logs, nil
}
