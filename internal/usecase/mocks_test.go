package usecase

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/oxyllium-leads/internal/entity"
	"github.com/xavierca1/oxyllium-leads/internal/infra/mail"
	"github.com/xavierca1/oxyllium-leads/internal/infra/queue"
)

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Append(ctx context.Context, in entity.LeadInput) (int, error) {
	args := m.Called(ctx, in)
	return args.Int(0), args.Error(1)
}

func (m *MockLeadRepository) List(ctx context.Context) ([]*entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Get(ctx context.Context, rowID int) (*entity.Lead, error) {
	args := m.Called(ctx, rowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateFields(ctx context.Context, rowID int, fields map[string]string) error {
	args := m.Called(ctx, rowID, fields)
	return args.Error(0)
}

type MockClientConfigRepository struct {
	mock.Mock
}

func (m *MockClientConfigRepository) GetClientEmails(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockClientConfigRepository) SaveClientEmails(ctx context.Context, emails []string) error {
	args := m.Called(ctx, emails)
	return args.Error(0)
}

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Render(lead *entity.Lead, leadType, priceTTC string) (mail.Message, error) {
	args := m.Called(lead, leadType, priceTTC)
	return args.Get(0).(mail.Message), args.Error(1)
}

func (m *MockDispatcher) Send(ctx context.Context, recipients []string, msg mail.Message) (*mail.DispatchResult, error) {
	args := m.Called(ctx, recipients, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mail.DispatchResult), args.Error(1)
}

type MockAttributor struct {
	mock.Mock
}

func (m *MockAttributor) UploadConversion(ctx context.Context, clickID string, value decimal.Decimal) error {
	args := m.Called(ctx, clickID, value)
	return args.Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishLeadEvent(ctx context.Context, event queue.LeadEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockFailedIntakePublisher struct {
	mock.Mock
}

func (m *MockFailedIntakePublisher) PublishFailedIntake(ctx context.Context, intake queue.FailedIntake) error {
	args := m.Called(ctx, intake)
	return args.Error(0)
}
