package sweep

import (
	"context"
	"time"

	"shopmile/internal/service"

	"github.com/rs/zerolog"
)

// Sweeper periodically drains auto-shippable orders. Each tick runs one
// drain; runs never overlap because Run executes them sequentially, and the
// drain itself is idempotent per order.
type Sweeper struct {
	shipments service.ShipmentService
	interval  time.Duration
	logger    zerolog.Logger
}

// New creates a new auto-ship sweeper.
func New(shipments service.ShipmentService, interval time.Duration, logger zerolog.Logger) *Sweeper {
	return &Sweeper{
		shipments: shipments,
		interval:  interval,
		logger:    logger.With().Str("component", "sweeper").Logger(),
	}
}

// Run blocks, draining on every tick until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info().
		Dur("interval", s.interval).
		Msg("auto-ship sweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("auto-ship sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	start := time.Now()

	dispatched, err := s.shipments.DrainAutoShippable(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("auto-ship sweep failed")
		return
	}

	if dispatched > 0 {
		s.logger.Info().
			Int("dispatched", dispatched).
			Dur("duration", time.Since(start)).
			Msg("auto-ship sweep dispatched orders")
	}
}
