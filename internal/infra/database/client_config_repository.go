package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/oxyllium-leads/internal/entity"
)

type ClientConfigRepository struct {
	DB *sql.DB
}

func NewClientConfigRepository(db *sql.DB) *ClientConfigRepository {
	return &ClientConfigRepository{DB: db}
}

func (r *ClientConfigRepository) GetClientEmails(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT email FROM client_emails ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("list client emails: %w", err)
	}
	defer rows.Close()

	var raw []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		raw = append(raw, email)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entity.CleanEmails(raw), nil
}

// SaveClientEmails replaces the whole list in one transaction.
func (r *ClientConfigRepository) SaveClientEmails(ctx context.Context, emails []string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM client_emails"); err != nil {
		return fmt.Errorf("clear client emails: %w", err)
	}

	for i, email := range emails {
		if _, err := tx.ExecContext(ctx, "INSERT INTO client_emails (position, email) VALUES ($1, $2)", i+1, email); err != nil {
			return fmt.Errorf("insert client email: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
