package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/xavierca1/oxyllium-leads/internal/entity"
	"github.com/xavierca1/oxyllium-leads/internal/infra/queue"
)

type RejectLeadUseCase struct {
	Repo   LeadRepositoryInterface
	Events EventPublisher
	Log    zerolog.Logger
	Now    func() time.Time
}

func NewRejectLeadUseCase(repo LeadRepositoryInterface, events EventPublisher, log zerolog.Logger) *RejectLeadUseCase {
	return &RejectLeadUseCase{
		Repo:   repo,
		Events: events,
		Log:    log,
		Now:    time.Now,
	}
}

// Execute marks the lead rejeté. No notification, no attribution.
// Rejecting a lead that is already rejeté succeeds without writing.
func (uc *RejectLeadUseCase) Execute(ctx context.Context, input RejectLeadInput) error {
	lead, err := getLead(ctx, uc.Repo, input.RowID)
	if err != nil {
		return err
	}

	if lead.Status == entity.StatusRejected {
		return nil
	}
	if !lead.Status.CanTransitionTo(entity.StatusRejected) {
		return &DomainError{
			Code:    CodeInvalidTransition,
			Message: "lead déjà traité (statut " + lead.Status.String() + ")",
			Err:     entity.ErrInvalidTransition,
		}
	}

	fields := map[string]string{entity.FieldStatus: string(entity.StatusRejected)}
	if err := uc.Repo.UpdateFields(ctx, lead.RowID, fields); err != nil {
		return storeError(lead.RowID, "lead store update failed", err)
	}

	uc.Log.Info().Int("row", lead.RowID).Msg("lead rejected")

	publishEvent(ctx, uc.Events, uc.Log, queue.LeadEvent{
		Event:      queue.EventLeadRejected,
		RowID:      lead.RowID,
		Status:     string(entity.StatusRejected),
		Prestation: lead.Prestation,
		Ville:      lead.Ville,
		OccurredAt: entity.Timestamp(uc.Now()),
	})
	return nil
}
