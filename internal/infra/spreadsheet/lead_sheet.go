package spreadsheet

import (
	"context"

	"github.com/tealeg/xlsx/v2"

	"github.com/xavierca1/oxyllium-leads/internal/entity"
)

// LeadSheet is the lead store on the Leads sheet. A lead's RowID is its sheet
// row number; the header is row 1, so the first lead is row 2.
type LeadSheet struct {
	wb *Workbook
}

func NewLeadSheet(wb *Workbook) *LeadSheet {
	return &LeadSheet{wb: wb}
}

// header maps column name to cell index. Columns are located by name, not position.
func header(sheet *xlsx.Sheet) map[string]int {
	cols := map[string]int{}
	if len(sheet.Rows) == 0 || sheet.Rows[0] == nil {
		return cols
	}
	for i, cell := range sheet.Rows[0].Cells {
		if cell == nil {
			continue
		}
		if name := cell.String(); name != "" {
			if _, dup := cols[name]; !dup {
				cols[name] = i
			}
		}
	}
	return cols
}

func (s *LeadSheet) Append(ctx context.Context, in entity.LeadInput) (int, error) {
	lead := entity.NewLead(in)

	var rowID int
	err := s.wb.mutate(ctx, LeadsSheet, func(sheet *xlsx.Sheet) error {
		cols := header(sheet)
		row := sheet.AddRow()
		for name, idx := range cols {
			if v, ok := lead.Field(name); ok {
				setCell(row, idx, v)
			}
		}
		rowID = len(sheet.Rows)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return rowID, nil
}

// List returns every non-blank row, most recently appended first.
func (s *LeadSheet) List(ctx context.Context) ([]*entity.Lead, error) {
	var leads []*entity.Lead
	err := s.wb.read(ctx, LeadsSheet, func(sheet *xlsx.Sheet) error {
		cols := header(sheet)
		for i := len(sheet.Rows) - 1; i >= 1; i-- {
			row := sheet.Rows[i]
			if isBlank(row) {
				continue
			}
			leads = append(leads, toLead(row, i+1, cols))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return leads, nil
}

func (s *LeadSheet) Get(ctx context.Context, rowID int) (*entity.Lead, error) {
	var lead *entity.Lead
	err := s.wb.read(ctx, LeadsSheet, func(sheet *xlsx.Sheet) error {
		row, err := dataRow(sheet, rowID)
		if err != nil {
			return err
		}
		lead = toLead(row, rowID, header(sheet))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lead, nil
}

// UpdateFields overwrites the named columns of one row. Names without a column are skipped.
func (s *LeadSheet) UpdateFields(ctx context.Context, rowID int, fields map[string]string) error {
	return s.wb.mutate(ctx, LeadsSheet, func(sheet *xlsx.Sheet) error {
		row, err := dataRow(sheet, rowID)
		if err != nil {
			return err
		}
		cols := header(sheet)
		for name, value := range fields {
			if idx, ok := cols[name]; ok {
				setCell(row, idx, value)
			}
		}
		return nil
	})
}

func dataRow(sheet *xlsx.Sheet, rowID int) (*xlsx.Row, error) {
	if rowID < 2 || rowID > len(sheet.Rows) {
		return nil, entity.ErrLeadNotFound
	}
	row := sheet.Rows[rowID-1]
	if isBlank(row) {
		return nil, entity.ErrLeadNotFound
	}
	return row, nil
}

func toLead(row *xlsx.Row, rowID int, cols map[string]int) *entity.Lead {
	lead := &entity.Lead{RowID: rowID}
	for name, idx := range cols {
		lead.SetField(name, cellValue(row, idx))
	}
	return lead
}
