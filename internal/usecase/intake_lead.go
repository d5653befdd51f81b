package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/xavierca1/oxyllium-leads/internal/entity"
	"github.com/xavierca1/oxyllium-leads/internal/infra/queue"
)

type IntakeLeadUseCase struct {
	Repo        LeadRepositoryInterface
	FailedQueue FailedIntakePublisher
	Log         zerolog.Logger
	Now         func() time.Time
}

// NewIntakeLeadUseCase wires intake. failedQueue may be nil: failures are then only logged.
func NewIntakeLeadUseCase(repo LeadRepositoryInterface, failedQueue FailedIntakePublisher, log zerolog.Logger) *IntakeLeadUseCase {
	return &IntakeLeadUseCase{
		Repo:        repo,
		FailedQueue: failedQueue,
		Log:         log,
		Now:         time.Now,
	}
}

// Normalize maps a raw submission onto LeadInput. It never fails: anything
// missing or unusable becomes an empty string.
func (uc *IntakeLeadUseCase) Normalize(sub FormSubmission) entity.LeadInput {
	field := func(keys ...string) string {
		for _, k := range keys {
			if v := stringValue(sub.Data[k]); v != "" {
				return v
			}
		}
		return ""
	}

	return entity.LeadInput{
		CreatedAt:  uc.createdAt(sub.CreatedAt),
		FormName:   strings.TrimSpace(sub.FormName),
		Nom:        field("nom"),
		Prenom:     field("prenom"),
		Email:      field("email"),
		Telephone:  field("telephone"),
		Ville:      field("ville"),
		Prestation: field("prestation"),
		Details:    field("details"),
		SourceURL:  field("referrer", "source_url"),
		MSClkID:    field("msclkid"),
	}
}

func (uc *IntakeLeadUseCase) createdAt(raw string) string {
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw)); err == nil {
		return entity.Timestamp(t)
	}
	return entity.Timestamp(uc.Now())
}

// Execute stores one submission. The only failure is the store being unreachable.
func (uc *IntakeLeadUseCase) Execute(ctx context.Context, sub FormSubmission) (*IntakeLeadOutput, error) {
	input := uc.Normalize(sub)
	return uc.Store(ctx, input)
}

// Store appends an already normalized input.
func (uc *IntakeLeadUseCase) Store(ctx context.Context, input entity.LeadInput) (*IntakeLeadOutput, error) {
	warnings := ValidateLeadInput(input)
	for _, w := range warnings {
		uc.Log.Warn().Str("form", input.FormName).Str("field", w.Field).Msg("intake: " + w.Message)
	}

	rowID, err := uc.Repo.Append(ctx, input)
	if err != nil {
		return nil, upstreamError("lead store append failed", err)
	}

	uc.Log.Info().Int("row", rowID).Str("form", input.FormName).Str("ville", input.Ville).Msg("lead stored")

	return &IntakeLeadOutput{RowID: rowID, Input: input, Warnings: warnings}, nil
}

// Acknowledge is the public-facing intake: it always returns a receipt and
// never an error. A submission the store refused is parked on the failed
// intake queue when one is configured.
func (uc *IntakeLeadUseCase) Acknowledge(ctx context.Context, sub FormSubmission) IntakeReceipt {
	input := uc.Normalize(sub)

	out, err := uc.Store(ctx, input)
	if err == nil {
		return IntakeReceipt{Outcome: IntakeStored, RowID: out.RowID}
	}

	uc.Log.Error().Err(err).Str("form", input.FormName).Str("email", input.Email).Msg("intake failed, submission acknowledged anyway")

	if uc.FailedQueue == nil {
		return IntakeReceipt{Outcome: IntakeDropped, Err: err}
	}

	parked := queue.FailedIntake{
		Input:    input,
		Reason:   err.Error(),
		FailedAt: entity.Timestamp(uc.Now()),
	}
	if qerr := uc.FailedQueue.PublishFailedIntake(ctx, parked); qerr != nil {
		uc.Log.Error().Err(qerr).Str("email", input.Email).Msg("CRITICAL: submission lost, failed intake queue unavailable")
		return IntakeReceipt{Outcome: IntakeDropped, Err: err}
	}

	return IntakeReceipt{Outcome: IntakeQueued, Err: err}
}

// stringValue flattens a decoded JSON value into the text stored in a cell.
func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := stringValue(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if s := stringValue(val[k]); s != "" {
				parts = append(parts, k+": "+s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}
