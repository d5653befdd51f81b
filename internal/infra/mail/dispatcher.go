package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/xavierca1/oxyllium-leads/internal/entity"
)

// Transport delivers one message to one recipient.
type Transport interface {
	Deliver(ctx context.Context, from Address, to string, msg Message) error
}

// Dispatcher renders lead notifications and sends them one recipient at a time.
type Dispatcher struct {
	transport Transport
	from      Address
	log       zerolog.Logger
	onFailure func(recipient string, err error)
}

func NewDispatcher(transport Transport, from Address, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{transport: transport, from: from, log: log}
}

// OnFailure registers a hook called for every recipient that could not be reached.
func (d *Dispatcher) OnFailure(fn func(recipient string, err error)) {
	d.onFailure = fn
}

func (d *Dispatcher) Render(lead *entity.Lead, leadType, priceTTC string) (Message, error) {
	return Render(lead, leadType, priceTTC)
}

// Send attempts every recipient. It returns a *DeliveryError when any of them failed.
func (d *Dispatcher) Send(ctx context.Context, recipients []string, msg Message) (*DispatchResult, error) {
	res := &DispatchResult{Failed: map[string]error{}}

	for _, to := range recipients {
		if err := ctx.Err(); err != nil {
			res.Failed[to] = err
			continue
		}
		if err := d.transport.Deliver(ctx, d.from, to, msg); err != nil {
			d.log.Error().Err(err).Str("to", to).Str("subject", msg.Subject).Msg("notification not delivered")
			res.Failed[to] = err
			if d.onFailure != nil {
				d.onFailure(to, err)
			}
			continue
		}
		d.log.Info().Str("to", to).Str("subject", msg.Subject).Msg("notification sent")
		res.Sent = append(res.Sent, to)
	}

	if len(res.Failed) > 0 {
		return res, &DeliveryError{Failed: res.Failed}
	}
	return res, nil
}
