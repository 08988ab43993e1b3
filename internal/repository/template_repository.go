package repository

import (
	"context"

	"github.com/quickinvoice/invoice-builder-service/internal/domain"
)

// TemplateRepository defines storage operations for saved invoice templates.
// Templates are keyed by (invoice_number, user_id); saving the same key
// overwrites. Loads always return the most recently updated document.
type TemplateRepository interface {
	// GetLatestByUserID retrieves the most recently updated template for a
	// user, or domain.ErrNotFound when none exists
	GetLatestByUserID(ctx context.Context, userID string) (*domain.InvoiceDraft, error)

	// Upsert inserts or overwrites the template keyed by invoice number and user
	Upsert(ctx context.Context, draft *domain.InvoiceDraft) error
}
