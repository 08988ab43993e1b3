package repository

import (
	"context"
	"sync"
	"time"

	"github.com/quickinvoice/invoice-builder-service/internal/domain"
)

// MemoryProfileRepository is an in-memory ProfileRepository used by tests and
// local development without a database.
type MemoryProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]domain.BusinessProfile
}

// NewMemoryProfileRepository creates an empty in-memory profile repository
func NewMemoryProfileRepository() *MemoryProfileRepository {
	return &MemoryProfileRepository{
		profiles: make(map[string]domain.BusinessProfile),
	}
}

// GetByUserID retrieves the profile for a user
func (r *MemoryProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.BusinessProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &profile, nil
}

// Upsert inserts or overwrites the profile keyed by its user
func (r *MemoryProfileRepository) Upsert(ctx context.Context, profile *domain.BusinessProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile.UpdatedAt = time.Now()
	r.profiles[profile.UserID] = *profile
	return nil
}

// MemoryTemplateRepository is an in-memory TemplateRepository used by tests
// and local development without a database.
type MemoryTemplateRepository struct {
	mu        sync.RWMutex
	templates map[templateKey]domain.InvoiceDraft
}

type templateKey struct {
	invoiceNumber string
	userID        string
}

// NewMemoryTemplateRepository creates an empty in-memory template repository
func NewMemoryTemplateRepository() *MemoryTemplateRepository {
	return &MemoryTemplateRepository{
		templates: make(map[templateKey]domain.InvoiceDraft),
	}
}

// GetLatestByUserID retrieves the most recently updated template for a user
func (r *MemoryTemplateRepository) GetLatestByUserID(ctx context.Context, userID string) (*domain.InvoiceDraft, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *domain.InvoiceDraft
	for key, draft := range r.templates {
		if key.userID != userID {
			continue
		}
		if latest == nil || draft.UpdatedAt.After(latest.UpdatedAt) {
			d := draft
			latest = &d
		}
	}

	if latest == nil {
		return nil, domain.ErrNotFound
	}
	return latest, nil
}

// Upsert inserts or overwrites the template keyed by invoice number and user
func (r *MemoryTemplateRepository) Upsert(ctx context.Context, draft *domain.InvoiceDraft) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	draft.UpdatedAt = time.Now()
	r.templates[templateKey{draft.InvoiceNumber, draft.UserID}] = *draft
	return nil
}
