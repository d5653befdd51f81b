package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/xavierca1/oxyllium-leads/internal/entity"
	"github.com/xavierca1/oxyllium-leads/internal/infra/queue"
)

const defaultConversionTimeout = 10 * time.Second

type ApproveLeadUseCase struct {
	Repo              LeadRepositoryInterface
	ConfigRepo        ClientConfigRepositoryInterface
	Dispatcher        NotificationDispatcher
	Attributor        ConversionAttributor
	Events            EventPublisher
	Log               zerolog.Logger
	Now               func() time.Time
	ConversionTimeout time.Duration
}

// NewApproveLeadUseCase wires approval. attributor and events may be nil.
func NewApproveLeadUseCase(
	repo LeadRepositoryInterface,
	configRepo ClientConfigRepositoryInterface,
	dispatcher NotificationDispatcher,
	attributor ConversionAttributor,
	events EventPublisher,
	log zerolog.Logger,
) *ApproveLeadUseCase {
	return &ApproveLeadUseCase{
		Repo:              repo,
		ConfigRepo:        configRepo,
		Dispatcher:        dispatcher,
		Attributor:        attributor,
		Events:            events,
		Log:               log,
		Now:               time.Now,
		ConversionTimeout: defaultConversionTimeout,
	}
}

// Execute notifies the configured clients and marks the lead approuvé.
// Nothing is written unless every notification went out.
func (uc *ApproveLeadUseCase) Execute(ctx context.Context, input ApproveLeadInput) (*ApproveLeadOutput, error) {
	input.LeadType = strings.TrimSpace(input.LeadType)
	if errs := ValidateApproveLeadInput(input); len(errs) > 0 {
		return nil, validationError(errs)
	}
	priceTTC, _ := NormalizePrice(input.PriceTTC)

	lead, err := getLead(ctx, uc.Repo, input.RowID)
	if err != nil {
		return nil, err
	}

	if !lead.Status.CanTransitionTo(entity.StatusApproved) {
		return nil, &DomainError{
			Code:    CodeInvalidTransition,
			Message: "lead déjà traité (statut " + lead.Status.String() + ")",
			Err:     entity.ErrInvalidTransition,
		}
	}

	recipients, err := uc.ConfigRepo.GetClientEmails(ctx)
	if err != nil {
		return nil, upstreamError("config store read failed", err)
	}
	recipients = entity.CleanEmails(recipients)
	if len(recipients) == 0 {
		return nil, &DomainError{
			Code:    CodeNoRecipients,
			Message: "Aucun email client configuré. Allez dans Paramètres.",
		}
	}

	msg, err := uc.Dispatcher.Render(lead, input.LeadType, priceTTC)
	if err != nil {
		return nil, err
	}

	var stepErr error
	txn := NewTransaction(uc.Log)

	txn.AddStep("send_notification",
		func(ctx context.Context) error {
			if _, err := uc.Dispatcher.Send(ctx, recipients, msg); err != nil {
				stepErr = &DomainError{
					Code:    CodeDeliveryFailed,
					Message: "échec de l'envoi de la notification: " + err.Error(),
					Err:     err,
				}
				return stepErr
			}
			return nil
		},
		func(ctx context.Context) error {
			uc.Log.Error().Int("row", lead.RowID).Strs("recipients", recipients).
				Msg("notification sent but approval not recorded; retrying will notify again")
			return nil
		},
	)

	txn.AddStep("record_approval", func(ctx context.Context) error {
		fields := map[string]string{
			entity.FieldStatus: string(entity.StatusApproved),
			entity.FieldSentTo: entity.JoinRecipients(recipients),
			entity.FieldSentAt: entity.Timestamp(uc.Now()),
		}
		if input.LeadType != "" {
			fields[entity.FieldLeadType] = input.LeadType
		}
		if priceTTC != "" {
			fields[entity.FieldPriceTTC] = priceTTC
		}
		if err := uc.Repo.UpdateFields(ctx, lead.RowID, fields); err != nil {
			stepErr = storeError(lead.RowID, "lead store update failed", err)
			return stepErr
		}
		return nil
	}, nil)

	if err := txn.Execute(ctx); err != nil {
		if stepErr != nil {
			return nil, stepErr
		}
		return nil, err
	}

	uc.Log.Info().Int("row", lead.RowID).Strs("recipients", recipients).Str("lead_type", input.LeadType).Msg("lead approved")

	uc.attribute(ctx, lead, priceTTC)
	uc.publish(ctx, queue.LeadEvent{
		Event:      queue.EventLeadApproved,
		RowID:      lead.RowID,
		Status:     string(entity.StatusApproved),
		Prestation: lead.Prestation,
		Ville:      lead.Ville,
		LeadType:   input.LeadType,
		PriceTTC:   priceTTC,
		Recipients: recipients,
		OccurredAt: entity.Timestamp(uc.Now()),
	})

	return &ApproveLeadOutput{Success: true, SentTo: recipients}, nil
}

// attribute uploads the offline conversion. It is time-bounded and never fails the approval.
func (uc *ApproveLeadUseCase) attribute(ctx context.Context, lead *entity.Lead, priceTTC string) {
	if uc.Attributor == nil || lead.MSClkID == "" {
		return
	}

	value := decimal.Zero
	if priceTTC != "" {
		value, _ = ParsePrice(priceTTC)
	}

	timeout := uc.ConversionTimeout
	if timeout <= 0 {
		timeout = defaultConversionTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := uc.Attributor.UploadConversion(ctx, lead.MSClkID, value); err != nil {
		uc.Log.Warn().Err(err).Int("row", lead.RowID).Msg("conversion upload failed (non-fatal)")
		return
	}
	uc.Log.Info().Int("row", lead.RowID).Str("value", value.StringFixed(2)).Msg("conversion uploaded")
}

func (uc *ApproveLeadUseCase) publish(ctx context.Context, event queue.LeadEvent) {
	publishEvent(ctx, uc.Events, uc.Log, event)
}

func publishEvent(ctx context.Context, events EventPublisher, log zerolog.Logger, event queue.LeadEvent) {
	if events == nil {
		return
	}
	if err := events.PublishLeadEvent(ctx, event); err != nil {
		log.Warn().Err(err).Str("event", event.Event).Int("row", event.RowID).Msg("lead event not published (non-fatal)")
	}
}

// IsNotFound reports whether err is the LEAD_NOT_FOUND domain error.
func IsNotFound(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == CodeLeadNotFound
}
