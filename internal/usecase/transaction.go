package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Transaction runs steps in order and, when one fails, runs the compensations of
// the steps that already succeeded, newest first. A compensation cannot undo an
// external effect such as a sent email; it records it.
type Transaction struct {
	steps []Step
	log   zerolog.Logger
}

type Step struct {
	Name       string
	Fn         func(context.Context) error
	Compensate func(context.Context) error
}

func NewTransaction(log zerolog.Logger) *Transaction {
	return &Transaction{log: log}
}

func (t *Transaction) AddStep(name string, fn, compensate func(context.Context) error) {
	t.steps = append(t.steps, Step{Name: name, Fn: fn, Compensate: compensate})
}

// Execute returns the failing step's error wrapped with its name; errors.As still reaches the original.
func (t *Transaction) Execute(ctx context.Context) error {
	for i, step := range t.steps {
		if err := step.Fn(ctx); err != nil {
			t.rollback(ctx, i)
			return fmt.Errorf("step '%s' failed: %w", step.Name, err)
		}
	}
	return nil
}

func (t *Transaction) rollback(ctx context.Context, failedAt int) {
	for i := failedAt - 1; i >= 0; i-- {
		step := t.steps[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			t.log.Error().Err(err).Str("step", step.Name).Msg("compensation failed, data may be inconsistent")
		}
	}
}
