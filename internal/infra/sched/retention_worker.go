package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"privilege-club/internal/domain/ports/repository"
	"privilege-club/internal/infra/metrics"
)

// RetentionWorker periodically purges activation records older than the
// retention window. The window must stay far beyond the cooldown horizon;
// deleting fresher rows would erase the cooldown signal.
type RetentionWorker struct {
	interval    time.Duration
	keep        time.Duration
	activations repository.ActivationRepository
	log         *zerolog.Logger
}

func NewRetentionWorker(interval, keep time.Duration, activations repository.ActivationRepository, logger *zerolog.Logger) *RetentionWorker {
	l := logger.With().Str("component", "RetentionWorker").Logger()
	return &RetentionWorker{
		interval:    interval,
		keep:        keep,
		activations: activations,
		log:         &l,
	}
}

func (w *RetentionWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting retention worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping retention worker")
			return ctx.Err()
		case <-ticker.C:
			cutoff := time.Now().Add(-w.keep)
			n, err := w.activations.DeleteActivatedBefore(ctx, cutoff)
			if err != nil {
				w.log.Error().Err(err).Msg("retention sweep error")
				continue
			}
			if n > 0 {
				metrics.AddActivationsPurged(n)
				w.log.Info().Int64("count", n).Time("cutoff", cutoff).Msg("old activations purged")
			}
		}
	}
}
