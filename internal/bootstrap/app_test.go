package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/oxyllium-leads/internal/config"
	"github.com/xavierca1/oxyllium-leads/internal/entity"
	"github.com/xavierca1/oxyllium-leads/internal/infra/mail"
)

func workbookConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Store: config.StoreConfig{Driver: "xlsx", WorkbookPath: filepath.Join(t.TempDir(), "leads.xlsx")},
		Mail:  config.MailConfig{Provider: "smtp", Host: "localhost", Port: 2525, From: "leads@oxyllium.fr"},
	}
}

func TestNew_WorkbookStore(t *testing.T) {
	app, err := New(context.Background(), workbookConfig(t), zerolog.Nop())
	require.NoError(t, err)
	defer app.Close()

	ctx := context.Background()
	require.NoError(t, app.Store.Ping(ctx))

	row, err := app.Leads.Append(ctx, entity.LeadInput{Nom: "Durand", Ville: "Lyon"})
	require.NoError(t, err)
	assert.Equal(t, 2, row)

	leads, err := app.ListLeads.Execute(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Durand", leads[0].Nom)

	require.NoError(t, app.ClientEmails.Save(ctx, []string{"client@example.fr"}))
	emails, err := app.ClientEmails.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"client@example.fr"}, emails)

	assert.False(t, app.QueueEnabled())
	assert.Nil(t, app.Replayer())
	assert.Nil(t, app.ApproveLead.Events)
	assert.Nil(t, app.Intake.FailedQueue)
	assert.False(t, app.MSAds.Configured())
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := workbookConfig(t)
	cfg.Store.Driver = "sheets"

	_, err := New(context.Background(), cfg, zerolog.Nop())
	assert.ErrorContains(t, err, "unknown store driver")
}

func TestNewTransport(t *testing.T) {
	assert.IsType(t, &mail.SMTPTransport{}, newTransport(config.MailConfig{Provider: "smtp"}))
	assert.IsType(t, &mail.ResendTransport{}, newTransport(config.MailConfig{Provider: "resend", ResendAPIKey: "re_x"}))
}
