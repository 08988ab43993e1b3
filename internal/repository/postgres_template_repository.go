package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quickinvoice/invoice-builder-service/internal/domain"
)

// PostgresTemplateRepository implements TemplateRepository using PostgreSQL.
// Line items are stored as a JSONB column so the ordered sequence round-trips
// exactly as edited.
type PostgresTemplateRepository struct {
	db *pgxpool.Pool
}

// NewPostgresTemplateRepository creates a new PostgreSQL template repository
func NewPostgresTemplateRepository(db *pgxpool.Pool) TemplateRepository {
	return &PostgresTemplateRepository{db: db}
}

// GetLatestByUserID retrieves the most recently updated template for a user
func (r *PostgresTemplateRepository) GetLatestByUserID(ctx context.Context, userID string) (*domain.InvoiceDraft, error) {
	query := `
		SELECT user_id, invoice_number,
		       business_name, business_address, business_email, business_phone,
		       client_name, client_address, client_email, client_phone,
		       invoice_date, due_date, currency, line_items,
		       tax_rate, discount_rate, notes, COALESCE(signature_url, ''), updated_at
		FROM invoices
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT 1
	`

	draft := &domain.InvoiceDraft{}
	var lineItemsJSON []byte
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&draft.UserID,
		&draft.InvoiceNumber,
		&draft.BusinessName,
		&draft.BusinessAddress,
		&draft.BusinessEmail,
		&draft.BusinessPhone,
		&draft.ClientName,
		&draft.ClientAddress,
		&draft.ClientEmail,
		&draft.ClientPhone,
		&draft.InvoiceDate.Time,
		&draft.DueDate.Time,
		&draft.Currency,
		&lineItemsJSON,
		&draft.TaxRate,
		&draft.DiscountRate,
		&draft.Notes,
		&draft.SignatureURL,
		&draft.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest template: %w", err)
	}

	if len(lineItemsJSON) > 0 {
		if err := json.Unmarshal(lineItemsJSON, &draft.LineItems); err != nil {
			return nil, fmt.Errorf("failed to decode line items: %w", err)
		}
	}

	return draft, nil
}

// Upsert inserts or overwrites the template keyed by (invoice_number, user_id)
func (r *PostgresTemplateRepository) Upsert(ctx context.Context, draft *domain.InvoiceDraft) error {
	lineItemsJSON, err := json.Marshal(draft.LineItems)
	if err != nil {
		return fmt.Errorf("failed to encode line items: %w", err)
	}

	query := `
		INSERT INTO invoices (
			user_id, invoice_number,
			business_name, business_address, business_email, business_phone,
			client_name, client_address, client_email, client_phone,
			invoice_date, due_date, currency, line_items,
			tax_rate, discount_rate, notes, signature_url, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, CURRENT_TIMESTAMP)
		ON CONFLICT (invoice_number, user_id) DO UPDATE SET
			business_name = EXCLUDED.business_name,
			business_address = EXCLUDED.business_address,
			business_email = EXCLUDED.business_email,
			business_phone = EXCLUDED.business_phone,
			client_name = EXCLUDED.client_name,
			client_address = EXCLUDED.client_address,
			client_email = EXCLUDED.client_email,
			client_phone = EXCLUDED.client_phone,
			invoice_date = EXCLUDED.invoice_date,
			due_date = EXCLUDED.due_date,
			currency = EXCLUDED.currency,
			line_items = EXCLUDED.line_items,
			tax_rate = EXCLUDED.tax_rate,
			discount_rate = EXCLUDED.discount_rate,
			notes = EXCLUDED.notes,
			signature_url = EXCLUDED.signature_url,
			updated_at = CURRENT_TIMESTAMP
		RETURNING updated_at
	`

	err = r.db.QueryRow(
		ctx,
		query,
		draft.UserID,
		draft.InvoiceNumber,
		draft.BusinessName,
		draft.BusinessAddress,
		draft.BusinessEmail,
		draft.BusinessPhone,
		draft.ClientName,
		draft.ClientAddress,
		draft.ClientEmail,
		draft.ClientPhone,
		draft.InvoiceDate.Time,
		draft.DueDate.Time,
		draft.Currency,
		lineItemsJSON,
		draft.TaxRate,
		draft.DiscountRate,
		draft.Notes,
		draft.SignatureURL,
	).Scan(&draft.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert template: %w", err)
	}

	return nil
}
