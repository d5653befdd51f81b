package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/xavierca1/oxyllium-leads/internal/entity"
)

// LeadRepository stores leads in Postgres. row_id is an identity starting at 2
// so ids line up with the spreadsheet store's row numbers.
type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

var selectColumns = "row_id, " + strings.Join(entity.LeadColumns, ", ")

func (r *LeadRepository) Append(ctx context.Context, in entity.LeadInput) (int, error) {
	lead := entity.NewLead(in)

	query := `
		INSERT INTO leads (id, ` + strings.Join(entity.LeadColumns, ", ") + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING row_id
	`

	args := make([]any, 0, len(entity.LeadColumns)+1)
	args = append(args, uuid.New().String())
	for _, col := range entity.LeadColumns {
		v, _ := lead.Field(col)
		args = append(args, v)
	}

	var rowID int
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&rowID); err != nil {
		return 0, fmt.Errorf("insert lead: %w", err)
	}
	return rowID, nil
}

// List returns every lead, newest first.
func (r *LeadRepository) List(ctx context.Context) ([]*entity.Lead, error) {
	query := "SELECT " + selectColumns + " FROM leads ORDER BY row_id DESC"

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return leads, nil
}

func (r *LeadRepository) Get(ctx context.Context, rowID int) (*entity.Lead, error) {
	query := "SELECT " + selectColumns + " FROM leads WHERE row_id = $1"

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, rowID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}
	return lead, nil
}

// UpdateFields sets the given columns. Unknown names are ignored.
func (r *LeadRepository) UpdateFields(ctx context.Context, rowID int, fields map[string]string) error {
	var sets []string
	var args []any
	for _, col := range entity.LeadColumns {
		v, ok := fields[col]
		if !ok {
			continue
		}
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	args = append(args, rowID)
	if len(sets) == 0 {
		// Nothing to write; still report a missing row.
		_, err := r.Get(ctx, rowID)
		return err
	}

	query := fmt.Sprintf("UPDATE leads SET %s WHERE row_id = $%d", strings.Join(sets, ", "), len(args))

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update lead %d: %w", rowID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update lead %d: %w", rowID, err)
	}
	if n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLead(s scanner) (*entity.Lead, error) {
	values := make([]string, len(entity.LeadColumns))
	dest := make([]any, 0, len(values)+1)

	lead := &entity.Lead{}
	dest = append(dest, &lead.RowID)
	for i := range values {
		dest = append(dest, &values[i])
	}

	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	for i, col := range entity.LeadColumns {
		lead.SetField(col, values[i])
	}
	return lead, nil
}

// Ping reports whether the database answers.
func (r *LeadRepository) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}
