package spreadsheet

import (
	"context"

	"github.com/tealeg/xlsx/v2"

	"github.com/xavierca1/oxyllium-leads/internal/entity"
)

// ConfigSheetStore keeps the client recipient list in column A of the Config
// sheet, one address per row below the header.
type ConfigSheetStore struct {
	wb *Workbook
}

func NewConfigSheetStore(wb *Workbook) *ConfigSheetStore {
	return &ConfigSheetStore{wb: wb}
}

func (s *ConfigSheetStore) GetClientEmails(ctx context.Context) ([]string, error) {
	var raw []string
	err := s.wb.read(ctx, ConfigSheet, func(sheet *xlsx.Sheet) error {
		for i := 1; i < len(sheet.Rows); i++ {
			raw = append(raw, cellValue(sheet.Rows[i], 0))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entity.CleanEmails(raw), nil
}

// SaveClientEmails clears every existing entry, then writes emails from row 2 down.
func (s *ConfigSheetStore) SaveClientEmails(ctx context.Context, emails []string) error {
	return s.wb.mutate(ctx, ConfigSheet, func(sheet *xlsx.Sheet) error {
		for i := 1; i < len(sheet.Rows); i++ {
			if sheet.Rows[i] != nil {
				setCell(sheet.Rows[i], 0, "")
			}
		}
		for i, email := range emails {
			idx := i + 1
			for len(sheet.Rows) <= idx {
				sheet.AddRow()
			}
			if sheet.Rows[idx] == nil {
				sheet.Rows[idx] = &xlsx.Row{Sheet: sheet}
			}
			setCell(sheet.Rows[idx], 0, email)
		}
		return nil
	})
}
