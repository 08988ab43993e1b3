package preview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickinvoice/invoice-builder-service/internal/domain"
)

func draftWithItems() *domain.InvoiceDraft {
	return &domain.InvoiceDraft{
		InvoiceNumber: "INV-202608-042",
		BusinessName:  "Acme Studio",
		ClientName:    "Globex",
		Currency:      "INR",
		InvoiceDate:   domain.DateOnly{Time: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
		LineItems: []domain.LineItem{
			{ID: "a", Description: "Design work", Quantity: 2, Rate: 100},
			{ID: "b", Description: "Hosting", Quantity: 1, Rate: 50},
		},
	}
}

func TestRenderFlat(t *testing.T) {
	d := draftWithItems()
	totals := domain.CalculateTotals(d.LineItems, 5, 0, domain.TaxModeFlat)

	m := Render(d, totals)

	assert.True(t, m.HasItems)
	assert.Empty(t, m.Placeholder)
	require.Len(t, m.Items, 2)
	assert.Equal(t, "₹100.00", m.Items[0].Rate)
	assert.Equal(t, "₹200.00", m.Items[0].Amount)

	assert.Equal(t, "₹250.00", m.Subtotal)
	require.Len(t, m.Breakdown, 1, "discount row must be hidden at zero rate")
	assert.Equal(t, "Tax (5.00%)", m.Breakdown[0].Label)
	assert.Equal(t, "₹12.50", m.Breakdown[0].Amount)
	assert.Equal(t, "₹262.50", m.Total)
	assert.Empty(t, m.AmountPayable)

	assert.Equal(t, "August 1, 2026", m.InvoiceDate)
	assert.Equal(t, "-", m.DueDate)
}

func TestRenderGST(t *testing.T) {
	d := draftWithItems()
	totals := domain.CalculateTotals(d.LineItems, domain.DefaultGSTRate, 0, domain.TaxModeGST)

	m := Render(d, totals)

	require.Len(t, m.Breakdown, 2)
	assert.Equal(t, "GST (5.00%)", m.Breakdown[0].Label)
	assert.Equal(t, "Round Off", m.Breakdown[1].Label)
	assert.Equal(t, "₹0.50", m.Breakdown[1].Amount)
	assert.Equal(t, "₹263.00", m.Total)
	assert.Equal(t, "₹263.00", m.AmountPayable)
}

func TestRenderNegativeRoundOff(t *testing.T) {
	d := draftWithItems()
	d.LineItems = []domain.LineItem{{ID: "a", Description: "Work", Quantity: 1, Rate: 100.2}}
	totals := domain.CalculateTotals(d.LineItems, 0, 0, domain.TaxModeGST)

	m := Render(d, totals)

	require.Len(t, m.Breakdown, 1)
	assert.Equal(t, "Round Off", m.Breakdown[0].Label)
	assert.Equal(t, "₹-0.20", m.Breakdown[0].Amount)
	assert.Equal(t, "₹100.00", m.Total)
}

func TestRenderDiscountRow(t *testing.T) {
	d := draftWithItems()
	totals := domain.CalculateTotals(d.LineItems, 0, 10, domain.TaxModeFlat)

	m := Render(d, totals)

	require.Len(t, m.Breakdown, 1)
	assert.Equal(t, "Discount (10.00%)", m.Breakdown[0].Label)
	assert.Equal(t, "-₹25.00", m.Breakdown[0].Amount)
	assert.Equal(t, "₹225.00", m.Total)
}

func TestRenderEmptyDraft(t *testing.T) {
	d := &domain.InvoiceDraft{Currency: "USD"}
	totals := domain.CalculateTotals(d.LineItems, 0, 0, domain.TaxModeFlat)

	m := Render(d, totals)

	assert.False(t, m.HasItems)
	assert.Equal(t, PlaceholderNoItems, m.Placeholder)
	assert.Empty(t, m.Items)
	assert.Equal(t, "$0.00", m.Subtotal)
	assert.Empty(t, m.Breakdown)
	assert.Equal(t, "$0.00", m.Total)
	assert.Equal(t, PlaceholderBusinessName, m.Business.Name)
	assert.Equal(t, PlaceholderInvoiceNumber, m.InvoiceNumber)
}

func TestRenderSkipsBlankRows(t *testing.T) {
	d := draftWithItems()
	d.LineItems = append(d.LineItems, domain.LineItem{ID: "c", Quantity: 1, Rate: 999})

	totals := domain.CalculateTotals(d.LineItems, 0, 0, domain.TaxModeFlat)
	m := Render(d, totals)

	// The blank row is hidden from the preview but still counts toward totals
	assert.Len(t, m.Items, 2)
	assert.Equal(t, "₹1249.00", m.Subtotal)
}
