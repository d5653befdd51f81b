package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/oxyllium-leads/internal/entity"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func leadRow(rowID int, nom, status string) []driver.Value {
	values := []driver.Value{rowID}
	for _, col := range entity.LeadColumns {
		switch col {
		case entity.FieldNom:
			values = append(values, nom)
		case entity.FieldStatus:
			values = append(values, status)
		default:
			values = append(values, "")
		}
	}
	return values
}

func leadColumns() []string {
	return append([]string{"row_id"}, entity.LeadColumns...)
}

func TestLeadRepository_Append(t *testing.T) {
	db, mock := newMock(t)
	repo := NewLeadRepository(db)

	args := []driver.Value{sqlmock.AnyArg(), "2024-05-01T08:00:00Z", "devis", "Durand"}
	for i := 3; i < len(entity.LeadColumns); i++ {
		args = append(args, sqlmock.AnyArg())
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO leads (id, created_at, form_name, nom")).
		WithArgs(args...).
		WillReturnRows(sqlmock.NewRows([]string{"row_id"}).AddRow(2))

	rowID, err := repo.Append(context.Background(), entity.LeadInput{
		CreatedAt: "2024-05-01T08:00:00Z",
		FormName:  "devis",
		Nom:       "Durand",
	})

	require.NoError(t, err)
	assert.Equal(t, 2, rowID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadRepository_List(t *testing.T) {
	db, mock := newMock(t)
	repo := NewLeadRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM leads ORDER BY row_id DESC")).
		WillReturnRows(sqlmock.NewRows(leadColumns()).
			AddRow(leadRow(3, "Petit", "nouveau")...).
			AddRow(leadRow(2, "Durand", "approuvé")...))

	leads, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, 3, leads[0].RowID)
	assert.Equal(t, "Petit", leads[0].Nom)
	assert.Equal(t, entity.StatusApproved, leads[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadRepository_GetNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewLeadRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM leads WHERE row_id = $1")).
		WithArgs(42).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), 42)

	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}

func TestLeadRepository_UpdateFields(t *testing.T) {
	db, mock := newMock(t)
	repo := NewLeadRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE leads SET status = $1, sent_to = $2 WHERE row_id = $3")).
		WithArgs("approuvé", "a@x.com", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateFields(context.Background(), 5, map[string]string{
		entity.FieldSentTo: "a@x.com",
		entity.FieldStatus: "approuvé",
		"bogus":            "ignored",
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadRepository_UpdateFieldsMissingRow(t *testing.T) {
	db, mock := newMock(t)
	repo := NewLeadRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE leads SET status = $1 WHERE row_id = $2")).
		WithArgs("rejeté", 9).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateFields(context.Background(), 9, map[string]string{entity.FieldStatus: "rejeté"})

	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}

func TestClientConfigRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("get cleans entries", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT email FROM client_emails ORDER BY position")).
			WillReturnRows(sqlmock.NewRows([]string{"email"}).AddRow(" a@x.com ").AddRow("").AddRow("b@x.com"))

		emails, err := NewClientConfigRepository(db).GetClientEmails(ctx)

		require.NoError(t, err)
		assert.Equal(t, []string{"a@x.com", "b@x.com"}, emails)
	})

	t.Run("save replaces in a transaction", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM client_emails")).WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO client_emails")).WithArgs(1, "a@x.com").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO client_emails")).WithArgs(2, "b@x.com").WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectCommit()

		err := NewClientConfigRepository(db).SaveClientEmails(ctx, []string{"a@x.com", "b@x.com"})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed insert rolls back", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM client_emails")).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO client_emails")).WillReturnError(errors.New("boom"))
		mock.ExpectRollback()

		err := NewClientConfigRepository(db).SaveClientEmails(ctx, []string{"a@x.com"})

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMigrate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS leads")).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Migrate(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
