package usecase

import (
	"context"
	"errors"
	"strconv"

	"github.com/xavierca1/oxyllium-leads/internal/entity"
)

type ListLeadsUseCase struct {
	Repo LeadRepositoryInterface
}

func NewListLeadsUseCase(repo LeadRepositoryInterface) *ListLeadsUseCase {
	return &ListLeadsUseCase{Repo: repo}
}

// Execute returns every lead, newest first.
func (uc *ListLeadsUseCase) Execute(ctx context.Context) ([]*entity.Lead, error) {
	leads, err := uc.Repo.List(ctx)
	if err != nil {
		return nil, upstreamError("lead store list failed", err)
	}
	if leads == nil {
		leads = []*entity.Lead{}
	}
	return leads, nil
}

type GetLeadUseCase struct {
	Repo LeadRepositoryInterface
}

func NewGetLeadUseCase(repo LeadRepositoryInterface) *GetLeadUseCase {
	return &GetLeadUseCase{Repo: repo}
}

func (uc *GetLeadUseCase) Execute(ctx context.Context, rowID int) (*entity.Lead, error) {
	return getLead(ctx, uc.Repo, rowID)
}

func getLead(ctx context.Context, repo LeadRepositoryInterface, rowID int) (*entity.Lead, error) {
	lead, err := repo.Get(ctx, rowID)
	if err != nil {
		return nil, storeError(rowID, "lead store get failed", err)
	}
	return lead, nil
}

// storeError turns entity.ErrLeadNotFound into the LEAD_NOT_FOUND domain error.
func storeError(rowID int, what string, err error) error {
	if errors.Is(err, entity.ErrLeadNotFound) {
		return &DomainError{
			Code:    CodeLeadNotFound,
			Message: "lead introuvable (ligne " + strconv.Itoa(rowID) + ")",
			Err:     err,
		}
	}
	return upstreamError(what, err)
}
