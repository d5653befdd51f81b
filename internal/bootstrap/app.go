package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/xavierca1/oxyllium-leads/internal/config"
	"github.com/xavierca1/oxyllium-leads/internal/entity"
	"github.com/xavierca1/oxyllium-leads/internal/infra/database"
	"github.com/xavierca1/oxyllium-leads/internal/infra/http/middleware"
	"github.com/xavierca1/oxyllium-leads/internal/infra/integration/msads"
	"github.com/xavierca1/oxyllium-leads/internal/infra/mail"
	"github.com/xavierca1/oxyllium-leads/internal/infra/queue"
	"github.com/xavierca1/oxyllium-leads/internal/infra/spreadsheet"
	"github.com/xavierca1/oxyllium-leads/internal/usecase"
)

// Pinger reports whether the lead store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// App holds every component built from Config. Both binaries start from here.
type App struct {
	Config *config.Config
	Log    zerolog.Logger

	Leads        entity.LeadRepositoryInterface
	ClientConfig entity.ClientConfigRepositoryInterface
	Store        Pinger

	Dispatcher *mail.Dispatcher
	MSAds      *msads.Client
	Rabbit     *queue.RabbitMQ
	Producer   *queue.Producer

	Intake       *usecase.IntakeLeadUseCase
	ListLeads    *usecase.ListLeadsUseCase
	GetLead      *usecase.GetLeadUseCase
	ApproveLead  *usecase.ApproveLeadUseCase
	RejectLead   *usecase.RejectLeadUseCase
	ClientEmails *usecase.ClientConfigUseCase

	db *sql.DB
}

// New opens the store and the optional queue, then wires the use cases.
// A RabbitMQ connection failure is logged and publishing stays disabled.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	app := &App{Config: cfg, Log: log}

	if err := app.openStore(ctx); err != nil {
		return nil, err
	}

	app.Dispatcher = mail.NewDispatcher(newTransport(cfg.Mail), mail.Address{Email: cfg.Mail.From, Name: cfg.Mail.FromName}, log)
	app.Dispatcher.OnFailure(func(string, error) { middleware.RecordNotificationFailure() })

	app.MSAds = msads.NewClient(cfg.MSAds, log, msads.WithErrorHook(func(string) {
		middleware.RecordIntegrationError("msads")
	}))
	if !app.MSAds.Configured() {
		log.Info().Msg("msads credentials missing, conversion uploads disabled")
	}

	if cfg.Queue.URL != "" {
		rabbit, err := queue.NewRabbitMQ(cfg.Queue.URL)
		if err != nil {
			log.Error().Err(err).Msg("rabbitmq unavailable, lead events and failed intake queue disabled")
		} else {
			app.Rabbit = rabbit
			app.Producer = queue.NewProducer(rabbit.Ch)
		}
	}

	// Interfaces stay nil when the queue is off, never a typed nil pointer.
	var (
		events usecase.EventPublisher
		failed usecase.FailedIntakePublisher
	)
	if app.Producer != nil {
		events = app.Producer
		failed = app.Producer
	}

	app.Intake = usecase.NewIntakeLeadUseCase(app.Leads, failed, log)
	app.ListLeads = usecase.NewListLeadsUseCase(app.Leads)
	app.GetLead = usecase.NewGetLeadUseCase(app.Leads)
	app.ApproveLead = usecase.NewApproveLeadUseCase(app.Leads, app.ClientConfig, app.Dispatcher, app.MSAds, events, log)
	app.RejectLead = usecase.NewRejectLeadUseCase(app.Leads, events, log)
	app.ClientEmails = usecase.NewClientConfigUseCase(app.ClientConfig, log)

	return app, nil
}

func (a *App) openStore(ctx context.Context) error {
	switch a.Config.Store.Driver {
	case "xlsx":
		wb, err := spreadsheet.Open(a.Config.Store.WorkbookPath)
		if err != nil {
			return fmt.Errorf("bootstrap: open workbook: %w", err)
		}
		a.Leads = spreadsheet.NewLeadSheet(wb)
		a.ClientConfig = spreadsheet.NewConfigSheetStore(wb)
		a.Store = wb
		a.Log.Info().Str("path", a.Config.Store.WorkbookPath).Msg("lead store: workbook")

	case "postgres":
		db, err := database.NewDBConnection(ctx, a.Config.Store.DatabaseURL)
		if err != nil {
			return fmt.Errorf("bootstrap: connect database: %w", err)
		}
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return fmt.Errorf("bootstrap: migrate: %w", err)
		}
		leads := database.NewLeadRepository(db)
		a.Leads = leads
		a.ClientConfig = database.NewClientConfigRepository(db)
		a.Store = leads
		a.db = db
		a.Log.Info().Msg("lead store: postgres")

	default:
		return fmt.Errorf("bootstrap: unknown store driver %q", a.Config.Store.Driver)
	}
	return nil
}

func newTransport(cfg config.MailConfig) mail.Transport {
	if cfg.Provider == "resend" {
		return mail.NewResendTransport(cfg.ResendAPIKey, cfg.Timeout)
	}
	return mail.NewSMTPTransport(cfg.Host, cfg.Port, cfg.User, cfg.Pass, cfg.Timeout)
}

// QueueEnabled is false when no RabbitMQ connection was made.
func (a *App) QueueEnabled() bool {
	return a.Rabbit != nil
}

// Replayer drains the failed intake queue into the lead store. Nil without a queue.
func (a *App) Replayer() *queue.Replayer {
	if a.Rabbit == nil {
		return nil
	}
	return queue.NewReplayer(a.Rabbit.Ch, a.Leads, a.Log)
}

func (a *App) Close() error {
	var errs []error
	if a.Rabbit != nil {
		errs = append(errs, a.Rabbit.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
