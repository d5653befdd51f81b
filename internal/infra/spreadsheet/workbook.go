package spreadsheet

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/xavierca1/oxyllium-leads/internal/entity"
)

const (
	LeadsSheet  = "Leads"
	ConfigSheet = "Config"

	clientEmailsHeader = "client_emails"
)

const lockRetryDelay = 20 * time.Millisecond

// Workbook is the on-disk workbook holding the Leads and Config sheets.
// Every mutation is saved before the call returns. Access is serialized
// across processes by a lock file next to the workbook, and the in-memory
// copy is reloaded whenever another process has rewritten the file.
type Workbook struct {
	mu   sync.Mutex
	path string
	lock *flock.Flock
	file *xlsx.File

	modTime time.Time
	size    int64
}

// Open loads the workbook at path, creating it (and any missing sheet) when absent.
func Open(path string) (*Workbook, error) {
	wb := &Workbook{path: path, lock: flock.New(path + ".lock")}

	if err := wb.lock.Lock(); err != nil {
		return nil, eris.Wrapf(err, "xlsx: lock %s", path)
	}
	defer wb.lock.Unlock()

	_, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		wb.file = xlsx.NewFile()
	case err != nil:
		return nil, eris.Wrapf(err, "xlsx: stat %s", path)
	default:
		if err := wb.load(); err != nil {
			return nil, err
		}
	}

	changed, err := wb.ensureSheet(LeadsSheet, entity.LeadColumns)
	if err != nil {
		return nil, err
	}
	configChanged, err := wb.ensureSheet(ConfigSheet, []string{clientEmailsHeader})
	if err != nil {
		return nil, err
	}

	if changed || configChanged {
		if err := wb.save(); err != nil {
			return nil, err
		}
	}
	return wb, nil
}

// ensureSheet adds the sheet with its header, or appends header cells the sheet lacks.
func (w *Workbook) ensureSheet(name string, header []string) (bool, error) {
	sheet, ok := w.file.Sheet[name]
	if !ok {
		var err error
		sheet, err = w.file.AddSheet(name)
		if err != nil {
			return false, eris.Wrapf(err, "xlsx: add sheet %q", name)
		}
	}

	if len(sheet.Rows) == 0 || sheet.Rows[0] == nil {
		row := sheet.AddRow()
		for _, h := range header {
			row.AddCell().SetString(h)
		}
		return true, nil
	}

	present := map[string]bool{}
	for _, cell := range sheet.Rows[0].Cells {
		present[cell.String()] = true
	}

	changed := false
	for _, h := range header {
		if !present[h] {
			sheet.Rows[0].AddCell().SetString(h)
			changed = true
		}
	}
	return changed, nil
}

// Ping reports whether the workbook file is still on disk.
func (w *Workbook) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(w.path); err != nil {
		return eris.Wrap(err, "xlsx: stat workbook")
	}
	return nil
}

// mutate runs fn on a fresh copy of a sheet under the exclusive lock and saves.
// On a failed save the workbook is reloaded from disk so memory never runs
// ahead of the file.
func (w *Workbook) mutate(ctx context.Context, name string, fn func(*xlsx.Sheet) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	locked, err := w.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil || !locked {
		return eris.Wrapf(lockError(ctx, err), "xlsx: lock %s", w.path)
	}
	defer w.lock.Unlock()

	if err := w.refresh(); err != nil {
		return err
	}

	sheet, ok := w.file.Sheet[name]
	if !ok {
		return eris.Errorf("xlsx: sheet %q not found", name)
	}

	if err := fn(sheet); err != nil {
		w.discard()
		return err
	}

	if err := w.save(); err != nil {
		w.discard()
		return err
	}
	return nil
}

func (w *Workbook) read(ctx context.Context, name string, fn func(*xlsx.Sheet) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	locked, err := w.lock.TryRLockContext(ctx, lockRetryDelay)
	if err != nil || !locked {
		return eris.Wrapf(lockError(ctx, err), "xlsx: read lock %s", w.path)
	}
	defer w.lock.Unlock()

	if err := w.refresh(); err != nil {
		return err
	}

	sheet, ok := w.file.Sheet[name]
	if !ok {
		return eris.Errorf("xlsx: sheet %q not found", name)
	}
	return fn(sheet)
}

// refresh reloads the workbook when the file's mtime or size moved since our last load or save.
func (w *Workbook) refresh() error {
	info, err := os.Stat(w.path)
	if err != nil {
		return eris.Wrapf(err, "xlsx: stat %s", w.path)
	}
	if w.file != nil && info.ModTime().Equal(w.modTime) && info.Size() == w.size {
		return nil
	}
	return w.load()
}

func (w *Workbook) load() error {
	file, err := xlsx.OpenFile(w.path)
	if err != nil {
		return eris.Wrapf(err, "xlsx: open %s", w.path)
	}
	w.file = file
	return w.stamp()
}

func (w *Workbook) save() error {
	if err := w.file.Save(w.path); err != nil {
		return eris.Wrapf(err, "xlsx: save %s", w.path)
	}
	return w.stamp()
}

func (w *Workbook) stamp() error {
	info, err := os.Stat(w.path)
	if err != nil {
		return eris.Wrapf(err, "xlsx: stat %s", w.path)
	}
	w.modTime = info.ModTime()
	w.size = info.Size()
	return nil
}

// discard forgets the in-memory copy; the next access reloads from disk.
func (w *Workbook) discard() {
	w.modTime = time.Time{}
	w.size = -1
}

func lockError(ctx context.Context, err error) error {
	if err != nil {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return eris.New("lock not acquired")
}

func cellValue(row *xlsx.Row, idx int) string {
	if row == nil || idx < 0 || idx >= len(row.Cells) || row.Cells[idx] == nil {
		return ""
	}
	return row.Cells[idx].String()
}

// setCell writes a string cell, padding the row with empty cells as needed.
func setCell(row *xlsx.Row, idx int, value string) {
	for len(row.Cells) <= idx {
		row.AddCell()
	}
	if row.Cells[idx] == nil {
		row.Cells[idx] = xlsx.NewCell(row)
	}
	row.Cells[idx].SetString(value)
}

func isBlank(row *xlsx.Row) bool {
	if row == nil {
		return true
	}
	for _, c := range row.Cells {
		if c != nil && c.String() != "" {
			return false
		}
	}
	return true
}
