package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quickinvoice/invoice-builder-service/internal/domain"
	"github.com/quickinvoice/invoice-builder-service/internal/preview"
	"github.com/quickinvoice/invoice-builder-service/internal/repository"
)

// ErrUnknownField is returned when a line item update names a field that
// does not exist. Unknown item ids, by contrast, are a silent no-op.
var ErrUnknownField = errors.New("unknown line item field")

// DraftUpdate carries a partial update of draft-level fields. Nil pointers
// leave the field untouched. Numeric rates arrive as strings so unparsable
// input can normalize to a safe default instead of failing the request.
type DraftUpdate struct {
	InvoiceNumber *string `json:"invoice_number,omitempty"`

	BusinessName    *string `json:"business_name,omitempty"`
	BusinessAddress *string `json:"business_address,omitempty"`
	BusinessEmail   *string `json:"business_email,omitempty"`
	BusinessPhone   *string `json:"business_phone,omitempty"`

	ClientName    *string `json:"client_name,omitempty"`
	ClientAddress *string `json:"client_address,omitempty"`
	ClientEmail   *string `json:"client_email,omitempty"`
	ClientPhone   *string `json:"client_phone,omitempty"`

	InvoiceDate *string `json:"invoice_date,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`

	Currency     *string `json:"currency,omitempty"`
	TaxRate      *string `json:"tax_rate,omitempty"`
	DiscountRate *string `json:"discount_rate,omitempty"`

	Notes *string `json:"notes,omitempty"`
}

// DraftState is the service's response shape: the current draft plus its
// freshly derived totals. Totals are recomputed on every call, never cached.
type DraftState struct {
	Draft  *domain.InvoiceDraft `json:"draft"`
	Totals domain.Totals        `json:"totals"`
}

// DraftService owns the per-user in-memory invoice draft: the line item
// store, draft-level fields, and the save/load boundary to the template
// repository. The in-memory draft is the source of truth until a save
// succeeds; a failed save or load leaves it untouched.
type DraftService interface {
	Get(ctx context.Context, userID string) (*DraftState, error)
	Update(ctx context.Context, userID string, update DraftUpdate) (*DraftState, error)

	AddLineItem(ctx context.Context, userID string) (*DraftState, error)
	UpdateLineItem(ctx context.Context, userID, itemID, field, value string) (*DraftState, error)
	RemoveLineItem(ctx context.Context, userID, itemID string) (*DraftState, error)

	SetSignature(ctx context.Context, userID, signatureURL string) (*DraftState, error)
	RemoveSignature(ctx context.Context, userID string) (*DraftState, error)

	Preview(ctx context.Context, userID string) (*preview.Model, error)

	SaveTemplate(ctx context.Context, userID string) (*DraftState, error)
	LoadLatestTemplate(ctx context.Context, userID string) (*DraftState, error)
}

// DraftServiceImpl implements DraftService. Drafts are process-local; all
// mutation happens under a single mutex, matching the one-event-at-a-time
// editing model.
type DraftServiceImpl struct {
	templates      repository.TemplateRepository
	taxMode        domain.TaxMode
	defaultTaxRate float64

	mu     sync.Mutex
	drafts map[string]*domain.InvoiceDraft
}

// NewDraftService creates a new DraftService
func NewDraftService(templates repository.TemplateRepository, taxMode domain.TaxMode, defaultTaxRate float64) *DraftServiceImpl {
	return &DraftServiceImpl{
		templates:      templates,
		taxMode:        taxMode,
		defaultTaxRate: defaultTaxRate,
		drafts:         make(map[string]*domain.InvoiceDraft),
	}
}

// Get returns the user's current draft, creating a default one on first use
func (s *DraftServiceImpl) Get(ctx context.Context, userID string) (*DraftState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state(s.draftLocked(userID)), nil
}

// Update applies a partial draft-level update and recomputes totals
func (s *DraftServiceImpl) Update(ctx context.Context, userID string, update DraftUpdate) (*DraftState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.draftLocked(userID)

	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&d.InvoiceNumber, update.InvoiceNumber)
	setString(&d.BusinessName, update.BusinessName)
	setString(&d.BusinessAddress, update.BusinessAddress)
	setString(&d.BusinessEmail, update.BusinessEmail)
	setString(&d.BusinessPhone, update.BusinessPhone)
	setString(&d.ClientName, update.ClientName)
	setString(&d.ClientAddress, update.ClientAddress)
	setString(&d.ClientEmail, update.ClientEmail)
	setString(&d.ClientPhone, update.ClientPhone)
	setString(&d.Notes, update.Notes)
	setString(&d.Currency, update.Currency)

	if update.InvoiceDate != nil {
		d.InvoiceDate = parseDateOnly(*update.InvoiceDate)
	}
	if update.DueDate != nil {
		d.DueDate = parseDateOnly(*update.DueDate)
	}
	if update.TaxRate != nil {
		d.TaxRate = domain.ParsePercent(*update.TaxRate)
	}
	if update.DiscountRate != nil {
		d.DiscountRate = domain.ParsePercent(*update.DiscountRate)
	}

	return s.state(d), nil
}

// AddLineItem appends a fresh default line item with a generated id
func (s *DraftServiceImpl) AddLineItem(ctx context.Context, userID string) (*DraftState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.draftLocked(userID)
	d.AddLineItem(uuid.NewString())
	return s.state(d), nil
}

// UpdateLineItem sets one field on the item matching itemID. An unknown id is
// a no-op; an unknown field name is an error.
func (s *DraftServiceImpl) UpdateLineItem(ctx context.Context, userID, itemID, field, value string) (*DraftState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.draftLocked(userID)
	item := d.FindLineItem(itemID)
	if item == nil {
		return s.state(d), nil
	}

	switch field {
	case "description":
		item.Description = value
	case "quantity":
		item.Quantity = domain.ParseQuantity(value)
	case "rate":
		item.Rate = domain.ParseRate(value)
	case "hsn":
		item.HSN = value
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	return s.state(d), nil
}

// RemoveLineItem deletes the item matching itemID; absent ids are a no-op
func (s *DraftServiceImpl) RemoveLineItem(ctx context.Context, userID, itemID string) (*DraftState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.draftLocked(userID)
	d.RemoveLineItem(itemID)
	return s.state(d), nil
}

// SetSignature attaches an uploaded signature image to the draft
func (s *DraftServiceImpl) SetSignature(ctx context.Context, userID, signatureURL string) (*DraftState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.draftLocked(userID)
	d.SignatureURL = signatureURL
	return s.state(d), nil
}

// RemoveSignature clears the draft's signature image
func (s *DraftServiceImpl) RemoveSignature(ctx context.Context, userID string) (*DraftState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.draftLocked(userID)
	d.SignatureURL = ""
	return s.state(d), nil
}

// Preview projects the current draft and totals into the render model
func (s *DraftServiceImpl) Preview(ctx context.Context, userID string) (*preview.Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.draftLocked(userID)
	totals := domain.CalculateTotals(d.LineItems, d.TaxRate, d.DiscountRate, s.taxMode)
	return preview.Render(d, totals), nil
}

// SaveTemplate persists the current draft as the user's template, upserting
// on (invoice_number, user_id). The in-memory draft is left unchanged
// whether or not the save succeeds.
func (s *DraftServiceImpl) SaveTemplate(ctx context.Context, userID string) (*DraftState, error) {
	s.mu.Lock()
	d := s.draftLocked(userID)
	snapshot := cloneDraft(d)
	s.mu.Unlock()

	if err := s.templates.Upsert(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	d = s.draftLocked(userID)
	d.UpdatedAt = snapshot.UpdatedAt
	return s.state(d), nil
}

// LoadLatestTemplate replaces the in-memory draft wholesale with the user's
// most recently saved template. domain.ErrNotFound passes through untouched
// so callers can treat "nothing saved yet" as a normal empty result; the
// current draft is preserved in that case.
func (s *DraftServiceImpl) LoadLatestTemplate(ctx context.Context, userID string) (*DraftState, error) {
	loaded, err := s.templates.GetLatestByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	loaded.UserID = userID
	s.drafts[userID] = loaded
	return s.state(loaded), nil
}

// draftLocked returns the user's draft, creating a default one when absent.
// Callers must hold the mutex.
func (s *DraftServiceImpl) draftLocked(userID string) *domain.InvoiceDraft {
	if d, ok := s.drafts[userID]; ok {
		return d
	}

	d := s.newDraft(userID)
	s.drafts[userID] = d
	return d
}

// newDraft builds the default draft a user starts from: generated invoice
// number, dated today with a 30-day due date, INR currency, the configured
// tax rate and one blank line item.
func (s *DraftServiceImpl) newDraft(userID string) *domain.InvoiceDraft {
	now := time.Now()
	d := &domain.InvoiceDraft{
		UserID:        userID,
		InvoiceNumber: generateInvoiceNumber(now),
		InvoiceDate:   domain.DateOnly{Time: truncateToDay(now)},
		DueDate:       domain.DateOnly{Time: truncateToDay(now.AddDate(0, 0, 30))},
		Currency:      "INR",
		TaxRate:       s.defaultTaxRate,
	}
	d.AddLineItem(uuid.NewString())
	return d
}

func (s *DraftServiceImpl) state(d *domain.InvoiceDraft) *DraftState {
	return &DraftState{
		Draft:  cloneDraft(d),
		Totals: domain.CalculateTotals(d.LineItems, d.TaxRate, d.DiscountRate, s.taxMode),
	}
}

// generateInvoiceNumber produces an INV-YYYYMM-NNN style number with a
// random three-digit suffix.
func generateInvoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%s-%03d", now.Format("200601"), rand.Intn(1000))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func parseDateOnly(s string) domain.DateOnly {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return domain.DateOnly{}
	}
	return domain.DateOnly{Time: t}
}

// cloneDraft copies a draft including its line item slice so callers cannot
// alias the store's internal state.
func cloneDraft(d *domain.InvoiceDraft) *domain.InvoiceDraft {
	clone := *d
	clone.LineItems = make([]domain.LineItem, len(d.LineItems))
	copy(clone.LineItems, d.LineItems)
	return &clone
}
