package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/xavierca1/oxyllium-leads/internal/infra/queue"
)

// Drainer is satisfied by *queue.Replayer.
type Drainer interface {
	Drain(ctx context.Context) (queue.ReplayResult, error)
}

// IntakeReplayWorker periodically moves parked submissions back into the lead store.
type IntakeReplayWorker struct {
	replayer     Drainer
	tickInterval time.Duration
	log          zerolog.Logger
}

func NewIntakeReplayWorker(replayer Drainer, interval time.Duration, log zerolog.Logger) *IntakeReplayWorker {
	return &IntakeReplayWorker{
		replayer:     replayer,
		tickInterval: interval,
		log:          log.With().Str("worker", "intake_replay").Logger(),
	}
}

// Start blocks until ctx is cancelled. It drains once immediately, then on every tick.
func (w *IntakeReplayWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.tickInterval).Msg("intake replay worker started")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.replay(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("intake replay worker stopped")
			return
		case <-ticker.C:
			w.replay(ctx)
		}
	}
}

func (w *IntakeReplayWorker) replay(ctx context.Context) {
	res, err := w.replayer.Drain(ctx)
	if err != nil && ctx.Err() == nil {
		w.log.Error().Err(err).Int("replayed", res.Replayed).Int("discarded", res.Discarded).Msg("intake replay interrupted")
		return
	}

	if res.Replayed > 0 || res.Discarded > 0 {
		w.log.Info().Int("replayed", res.Replayed).Int("discarded", res.Discarded).Msg("intake replay done")
	}
}
