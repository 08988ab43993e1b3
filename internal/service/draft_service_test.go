package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickinvoice/invoice-builder-service/internal/domain"
	"github.com/quickinvoice/invoice-builder-service/internal/repository"
)

func newTestDraftService(mode domain.TaxMode, defaultRate float64) *DraftServiceImpl {
	return NewDraftService(repository.NewMemoryTemplateRepository(), mode, defaultRate)
}

func TestGetCreatesDefaultDraft(t *testing.T) {
	svc := newTestDraftService(domain.TaxModeFlat, 0)
	state, err := svc.Get(context.Background(), "user-1")
	require.NoError(t, err)

	d := state.Draft
	assert.Equal(t, "user-1", d.UserID)
	assert.Regexp(t, `^INV-\d{6}-\d{3}$`, d.InvoiceNumber)
	assert.Equal(t, "INR", d.Currency)
	require.Len(t, d.LineItems, 1, "new drafts start with one blank item")
	assert.Equal(t, domain.DefaultQuantity, d.LineItems[0].Quantity)
	assert.NotEmpty(t, d.LineItems[0].ID)

	// Due date runs 30 days out from the invoice date
	assert.Equal(t, d.InvoiceDate.AddDate(0, 0, 30), d.DueDate.Time)
}

func TestGSTModeDefaultRate(t *testing.T) {
	svc := newTestDraftService(domain.TaxModeGST, domain.DefaultGSTRate)
	state, err := svc.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 5.0, state.Draft.TaxRate)
	assert.Equal(t, domain.TaxModeGST, state.Totals.Mode)
}

func TestAddUpdateRemoveLineItems(t *testing.T) {
	ctx := context.Background()
	svc := newTestDraftService(domain.TaxModeFlat, 0)

	state, err := svc.AddLineItem(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, state.Draft.LineItems, 2)

	first := state.Draft.LineItems[0].ID
	second := state.Draft.LineItems[1].ID
	assert.NotEqual(t, first, second, "ids must be unique within the store")

	_, err = svc.UpdateLineItem(ctx, "user-1", first, "description", "Design work")
	require.NoError(t, err)
	_, err = svc.UpdateLineItem(ctx, "user-1", first, "quantity", "2")
	require.NoError(t, err)
	state, err = svc.UpdateLineItem(ctx, "user-1", first, "rate", "100")
	require.NoError(t, err)

	assert.Equal(t, 200.0, state.Draft.LineItems[0].Amount())
	assert.Equal(t, 200.0, state.Totals.Subtotal)

	state, err = svc.RemoveLineItem(ctx, "user-1", second)
	require.NoError(t, err)
	require.Len(t, state.Draft.LineItems, 1)
	assert.Equal(t, first, state.Draft.LineItems[0].ID)
	assert.Equal(t, 200.0, state.Totals.Subtotal, "removed items never contribute")
}

func TestUpdateLineItemParseFallbacks(t *testing.T) {
	ctx := context.Background()
	svc := newTestDraftService(domain.TaxModeFlat, 0)

	state, _ := svc.Get(ctx, "user-1")
	id := state.Draft.LineItems[0].ID

	_, err := svc.UpdateLineItem(ctx, "user-1", id, "rate", "100")
	require.NoError(t, err)

	// A non-numeric rate resets to zero without erroring
	state, err = svc.UpdateLineItem(ctx, "user-1", id, "rate", "lots")
	require.NoError(t, err)
	assert.Equal(t, 0.0, state.Draft.LineItems[0].Rate)
	assert.Equal(t, 0.0, state.Totals.Subtotal)

	// A non-numeric quantity falls back to one
	state, err = svc.UpdateLineItem(ctx, "user-1", id, "quantity", "many")
	require.NoError(t, err)
	assert.Equal(t, 1.0, state.Draft.LineItems[0].Quantity)
}

func TestUpdateLineItemUnknownIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	svc := newTestDraftService(domain.TaxModeFlat, 0)

	before, _ := svc.Get(ctx, "user-1")
	after, err := svc.UpdateLineItem(ctx, "user-1", "no-such-id", "rate", "100")
	require.NoError(t, err)
	assert.Equal(t, before.Draft.LineItems, after.Draft.LineItems)
	assert.Equal(t, before.Totals, after.Totals)
}

func TestUpdateLineItemUnknownField(t *testing.T) {
	ctx := context.Background()
	svc := newTestDraftService(domain.TaxModeFlat, 0)

	state, _ := svc.Get(ctx, "user-1")
	_, err := svc.UpdateLineItem(ctx, "user-1", state.Draft.LineItems[0].ID, "color", "red")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestRemoveAbsentItemIsNoOp(t *testing.T) {
	ctx := context.Background()
	svc := newTestDraftService(domain.TaxModeFlat, 0)

	before, _ := svc.Get(ctx, "user-1")
	after, err := svc.RemoveLineItem(ctx, "user-1", "missing")
	require.NoError(t, err)
	assert.Equal(t, before.Draft.LineItems, after.Draft.LineItems)
	assert.Equal(t, before.Totals, after.Totals)
}

func TestUpdateDraftFields(t *testing.T) {
	ctx := context.Background()
	svc := newTestDraftService(domain.TaxModeFlat, 0)

	currency := "USD"
	taxRate := "8.5"
	badDiscount := "loads"
	name := "Acme Studio"
	state, err := svc.Update(ctx, "user-1", DraftUpdate{
		Currency:     &currency,
		TaxRate:      &taxRate,
		DiscountRate: &badDiscount,
		BusinessName: &name,
	})
	require.NoError(t, err)

	assert.Equal(t, "USD", state.Draft.Currency)
	assert.Equal(t, 8.5, state.Draft.TaxRate)
	assert.Equal(t, 0.0, state.Draft.DiscountRate, "unparsable rate reads as zero")
	assert.Equal(t, "Acme Studio", state.Draft.BusinessName)
}

func TestSubtotalTracksOperations(t *testing.T) {
	ctx := context.Background()
	svc := newTestDraftService(domain.TaxModeFlat, 0)

	state, _ := svc.Get(ctx, "user-1")
	a := state.Draft.LineItems[0].ID
	svc.UpdateLineItem(ctx, "user-1", a, "quantity", "2")
	svc.UpdateLineItem(ctx, "user-1", a, "rate", "100")

	state, _ = svc.AddLineItem(ctx, "user-1")
	b := state.Draft.LineItems[1].ID
	svc.UpdateLineItem(ctx, "user-1", b, "rate", "50")

	taxRate := "5"
	state, err := svc.Update(ctx, "user-1", DraftUpdate{TaxRate: &taxRate})
	require.NoError(t, err)

	assert.Equal(t, 250.0, state.Totals.Subtotal)
	assert.Equal(t, 12.5, state.Totals.TaxAmount)
	assert.Equal(t, 262.5, state.Totals.Total)
}

func TestSaveAndLoadTemplate(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryTemplateRepository()
	svc := NewDraftService(repo, domain.TaxModeFlat, 0)

	state, _ := svc.Get(ctx, "user-1")
	id := state.Draft.LineItems[0].ID
	svc.UpdateLineItem(ctx, "user-1", id, "description", "Consulting")
	svc.UpdateLineItem(ctx, "user-1", id, "rate", "150")

	_, err := svc.SaveTemplate(ctx, "user-1")
	require.NoError(t, err)

	// A second service instance simulates a fresh process hydrating from
	// the saved template
	svc2 := NewDraftService(repo, domain.TaxModeFlat, 0)
	state, err = svc2.LoadLatestTemplate(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, state.Draft.LineItems, 1)
	assert.Equal(t, "Consulting", state.Draft.LineItems[0].Description)
	assert.Equal(t, 150.0, state.Totals.Subtotal)
}

func TestLoadLatestTemplateAbsent(t *testing.T) {
	ctx := context.Background()
	svc := newTestDraftService(domain.TaxModeFlat, 0)

	_, err := svc.LoadLatestTemplate(ctx, "user-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The current draft survives a failed load
	state, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.NotNil(t, state.Draft)
}

func TestSaveTemplateFailureKeepsDraft(t *testing.T) {
	ctx := context.Background()
	svc := NewDraftService(failingTemplateRepo{}, domain.TaxModeFlat, 0)

	state, _ := svc.Get(ctx, "user-1")
	id := state.Draft.LineItems[0].ID
	svc.UpdateLineItem(ctx, "user-1", id, "description", "Work")

	_, err := svc.SaveTemplate(ctx, "user-1")
	require.Error(t, err)

	state, _ = svc.Get(ctx, "user-1")
	assert.Equal(t, "Work", state.Draft.LineItems[0].Description, "draft untouched after failed save")
}

func TestSignatureLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestDraftService(domain.TaxModeFlat, 0)

	state, err := svc.SetSignature(ctx, "user-1", "data:image/png;base64,AAAA")
	require.NoError(t, err)
	assert.NotEmpty(t, state.Draft.SignatureURL)

	state, err = svc.RemoveSignature(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, state.Draft.SignatureURL)
}

func TestDraftsAreIsolatedPerUser(t *testing.T) {
	ctx := context.Background()
	svc := newTestDraftService(domain.TaxModeFlat, 0)

	svc.AddLineItem(ctx, "user-1")
	state, _ := svc.Get(ctx, "user-2")
	assert.Len(t, state.Draft.LineItems, 1)
}

type failingTemplateRepo struct{}

func (failingTemplateRepo) GetLatestByUserID(ctx context.Context, userID string) (*domain.InvoiceDraft, error) {
	return nil, errors.New("backend unavailable")
}

func (failingTemplateRepo) Upsert(ctx context.Context, draft *domain.InvoiceDraft) error {
	return errors.New("backend unavailable")
}
