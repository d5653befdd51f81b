package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/xavierca1/oxyllium-leads/internal/entity"
)

// Getter is satisfied by *amqp.Channel.
type Getter interface {
	Get(queue string, autoAck bool) (amqp.Delivery, bool, error)
}

// LeadAppender is the part of the lead store a replay needs.
type LeadAppender interface {
	Append(ctx context.Context, in entity.LeadInput) (int, error)
}

type ReplayResult struct {
	Replayed  int
	Discarded int
}

// Replayer moves parked submissions from the failed intake queue into the lead store.
type Replayer struct {
	Ch    Getter
	Store LeadAppender
	Log   zerolog.Logger
}

func NewReplayer(ch Getter, store LeadAppender, log zerolog.Logger) *Replayer {
	return &Replayer{Ch: ch, Store: store, Log: log}
}

// Drain appends every queued submission once and returns when the queue is empty.
// A malformed message goes to the DLQ. A failed append is requeued and stops the
// drain, so a store outage never spins through the queue.
func (r *Replayer) Drain(ctx context.Context) (ReplayResult, error) {
	var res ReplayResult

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		d, ok, err := r.Ch.Get(FailedIntakeQueue, false)
		if err != nil {
			return res, fmt.Errorf("failed to get from %s: %w", FailedIntakeQueue, err)
		}
		if !ok {
			return res, nil
		}

		var intake FailedIntake
		if err := json.Unmarshal(d.Body, &intake); err != nil {
			r.Log.Error().Err(err).Str("message_id", d.MessageId).Msg("replay: invalid JSON, dead-lettering")
			d.Nack(false, false)
			res.Discarded++
			continue
		}

		rowID, err := r.Store.Append(ctx, intake.Input)
		if err != nil {
			d.Nack(false, true)
			return res, fmt.Errorf("replay stopped, store append failed: %w", err)
		}

		if err := d.Ack(false); err != nil {
			r.Log.Warn().Err(err).Int("row", rowID).Msg("replay: ack failed, message may be delivered again")
		}
		r.Log.Info().Int("row", rowID).Str("failed_at", intake.FailedAt).Str("email", intake.Input.Email).Msg("replay: submission stored")
		res.Replayed++
	}
}
