package usecase

import (
	"context"

	"github.com/rs/zerolog"
)

// ClientConfigUseCase reads and replaces the notification recipient list.
type ClientConfigUseCase struct {
	Repo ClientConfigRepositoryInterface
	Log  zerolog.Logger
}

func NewClientConfigUseCase(repo ClientConfigRepositoryInterface, log zerolog.Logger) *ClientConfigUseCase {
	return &ClientConfigUseCase{Repo: repo, Log: log}
}

func (uc *ClientConfigUseCase) Get(ctx context.Context) ([]string, error) {
	emails, err := uc.Repo.GetClientEmails(ctx)
	if err != nil {
		return nil, upstreamError("config store read failed", err)
	}
	if emails == nil {
		emails = []string{}
	}
	return emails, nil
}

// Save replaces the whole list. Entries are written as given; cleanup happens on read.
func (uc *ClientConfigUseCase) Save(ctx context.Context, emails []string) error {
	if emails == nil {
		emails = []string{}
	}
	if err := uc.Repo.SaveClientEmails(ctx, emails); err != nil {
		return upstreamError("config store write failed", err)
	}
	uc.Log.Info().Int("count", len(emails)).Msg("client emails replaced")
	return nil
}
