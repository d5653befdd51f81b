package spreadsheet

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/xavierca1/oxyllium-leads/internal/entity"
)

func openTemp(t *testing.T) (*Workbook, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leads.xlsx")
	wb, err := Open(path)
	require.NoError(t, err)
	return wb, path
}

func TestOpen_CreatesSheets(t *testing.T) {
	_, path := openTemp(t)

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	leads, ok := f.Sheet[LeadsSheet]
	require.True(t, ok)
	var headerRow []string
	for _, c := range leads.Rows[0].Cells {
		headerRow = append(headerRow, c.String())
	}
	assert.Equal(t, entity.LeadColumns, headerRow)

	config, ok := f.Sheet[ConfigSheet]
	require.True(t, ok)
	assert.Equal(t, "client_emails", config.Rows[0].Cells[0].String())
}

func TestLeadSheet_AppendListGet(t *testing.T) {
	ctx := context.Background()
	wb, _ := openTemp(t)
	store := NewLeadSheet(wb)

	first, err := store.Append(ctx, entity.LeadInput{CreatedAt: "2024-05-01T08:00:00Z", Nom: "Durand", Email: "a@x.fr"})
	require.NoError(t, err)
	second, err := store.Append(ctx, entity.LeadInput{Nom: "Petit", MSClkID: "clk"})
	require.NoError(t, err)

	assert.Equal(t, 2, first)
	assert.Equal(t, 3, second)

	leads, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, 3, leads[0].RowID)
	assert.Equal(t, "Petit", leads[0].Nom)
	assert.Equal(t, entity.StatusNew, leads[0].Status)
	assert.NotEmpty(t, leads[0].CreatedAt)
	assert.Equal(t, 2, leads[1].RowID)

	lead, err := store.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Durand", lead.Nom)
	assert.Equal(t, "2024-05-01T08:00:00Z", lead.CreatedAt)
	assert.Equal(t, "", lead.SentTo)
}

func TestLeadSheet_GetOutOfRange(t *testing.T) {
	ctx := context.Background()
	wb, _ := openTemp(t)
	store := NewLeadSheet(wb)

	_, err := store.Append(ctx, entity.LeadInput{Nom: "x"})
	require.NoError(t, err)

	for _, row := range []int{0, 1, 3, 100} {
		_, err := store.Get(ctx, row)
		assert.ErrorIs(t, err, entity.ErrLeadNotFound, "row %d", row)
	}
	assert.ErrorIs(t, store.UpdateFields(ctx, 9, map[string]string{"status": "rejeté"}), entity.ErrLeadNotFound)
}

func TestLeadSheet_UpdateFieldsPersists(t *testing.T) {
	ctx := context.Background()
	wb, path := openTemp(t)
	store := NewLeadSheet(wb)

	row, err := store.Append(ctx, entity.LeadInput{Nom: "Durand"})
	require.NoError(t, err)

	err = store.UpdateFields(ctx, row, map[string]string{
		entity.FieldStatus:   "approuvé",
		entity.FieldSentTo:   "a@x.com, b@x.com",
		entity.FieldPriceTTC: "150.00",
		"no_such_column":     "ignored",
	})
	require.NoError(t, err)

	reopened, err := Open(path)
	require.NoError(t, err)
	lead, err := NewLeadSheet(reopened).Get(ctx, row)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusApproved, lead.Status)
	assert.Equal(t, "a@x.com, b@x.com", lead.SentTo)
	assert.Equal(t, "150.00", lead.PriceTTC)
	assert.Equal(t, "Durand", lead.Nom)
}

func TestLeadSheet_ColumnsByName(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "legacy.xlsx")

	f := xlsx.NewFile()
	sheet, err := f.AddSheet(LeadsSheet)
	require.NoError(t, err)
	hdr := sheet.AddRow()
	for _, h := range []string{"email", "status", "nom"} {
		hdr.AddCell().SetString(h)
	}
	row := sheet.AddRow()
	for _, v := range []string{"old@x.fr", "nouveau", "Ancien"} {
		row.AddCell().SetString(v)
	}
	require.NoError(t, f.Save(path))

	wb, err := Open(path)
	require.NoError(t, err)
	store := NewLeadSheet(wb)

	lead, err := store.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "old@x.fr", lead.Email)
	assert.Equal(t, "Ancien", lead.Nom)

	require.NoError(t, store.UpdateFields(ctx, 2, map[string]string{entity.FieldLeadType: "Bureaux"}))
	lead, err = store.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Bureaux", lead.LeadType)
}

func TestLeadSheet_ConcurrentAppend(t *testing.T) {
	ctx := context.Background()
	wb, _ := openTemp(t)
	store := NewLeadSheet(wb)

	var wg sync.WaitGroup
	rows := make(chan int, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			row, err := store.Append(ctx, entity.LeadInput{Nom: fmt.Sprintf("lead-%d", i)})
			assert.NoError(t, err)
			rows <- row
		}(i)
	}
	wg.Wait()
	close(rows)

	seen := map[int]bool{}
	for r := range rows {
		assert.False(t, seen[r], "duplicate row %d", r)
		seen[r] = true
	}
	leads, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, leads, 10)
}

func TestConfigSheet(t *testing.T) {
	ctx := context.Background()
	wb, path := openTemp(t)
	store := NewConfigSheetStore(wb)

	emails, err := store.GetClientEmails(ctx)
	require.NoError(t, err)
	assert.Empty(t, emails)

	require.NoError(t, store.SaveClientEmails(ctx, []string{"a@x.com", " b@x.com ", "", "c@x.com"}))
	emails, err = store.GetClientEmails(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com", "b@x.com", "c@x.com"}, emails)

	require.NoError(t, store.SaveClientEmails(ctx, []string{"z@x.com"}))

	reopened, err := Open(path)
	require.NoError(t, err)
	emails, err = NewConfigSheetStore(reopened).GetClientEmails(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"z@x.com"}, emails)

	require.NoError(t, store.SaveClientEmails(ctx, []string{}))
	emails, err = store.GetClientEmails(ctx)
	require.NoError(t, err)
	assert.Empty(t, emails)
}

func TestPing(t *testing.T) {
	wb, _ := openTemp(t)
	assert.NoError(t, wb.Ping(context.Background()))
}

func TestWorkbook_SharedFileBetweenHandles(t *testing.T) {
	ctx := context.Background()
	server, path := openTemp(t)
	cli, err := Open(path)
	require.NoError(t, err)

	// Both handles have loaded the file before either writes.
	_, err = NewLeadSheet(server).List(ctx)
	require.NoError(t, err)

	require.NoError(t, NewConfigSheetStore(cli).SaveClientEmails(ctx, []string{"c@x.fr"}))
	replayed, err := NewLeadSheet(cli).Append(ctx, entity.LeadInput{Nom: "Replayed"})
	require.NoError(t, err)
	assert.Equal(t, 2, replayed)

	emails, err := NewConfigSheetStore(server).GetClientEmails(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c@x.fr"}, emails)

	live, err := NewLeadSheet(server).Append(ctx, entity.LeadInput{Nom: "Live"})
	require.NoError(t, err)
	assert.Equal(t, 3, live)

	reopened, err := Open(path)
	require.NoError(t, err)

	leads, err := NewLeadSheet(reopened).List(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "Live", leads[0].Nom)
	assert.Equal(t, "Replayed", leads[1].Nom)

	emails, err = NewConfigSheetStore(reopened).GetClientEmails(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c@x.fr"}, emails)
}

func TestWorkbook_WaitsForLockHolder(t *testing.T) {
	wb, path := openTemp(t)

	held := flock.New(path + ".lock")
	require.NoError(t, held.Lock())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err := NewLeadSheet(wb).Append(ctx, entity.LeadInput{Nom: "Blocked"})
	assert.Error(t, err)

	require.NoError(t, held.Unlock())

	row, err := NewLeadSheet(wb).Append(context.Background(), entity.LeadInput{Nom: "After"})
	require.NoError(t, err)
	assert.Equal(t, 2, row)
}
