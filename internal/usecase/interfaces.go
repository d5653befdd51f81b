package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/xavierca1/oxyllium-leads/internal/entity"
	"github.com/xavierca1/oxyllium-leads/internal/infra/mail"
	"github.com/xavierca1/oxyllium-leads/internal/infra/queue"
)

type LeadRepositoryInterface = entity.LeadRepositoryInterface

type ClientConfigRepositoryInterface = entity.ClientConfigRepositoryInterface

// NotificationDispatcher renders and sends the client notification for an approved lead.
type NotificationDispatcher interface {
	Render(lead *entity.Lead, leadType, priceTTC string) (mail.Message, error)
	Send(ctx context.Context, recipients []string, msg mail.Message) (*mail.DispatchResult, error)
}

// ConversionAttributor reports an approved lead back to the ad platform.
// Implementations are no-ops when the click id is empty or the platform unconfigured.
type ConversionAttributor interface {
	UploadConversion(ctx context.Context, clickID string, value decimal.Decimal) error
}

type EventPublisher interface {
	PublishLeadEvent(ctx context.Context, event queue.LeadEvent) error
}

type FailedIntakePublisher interface {
	PublishFailedIntake(ctx context.Context, intake queue.FailedIntake) error
}
